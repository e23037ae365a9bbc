package subgraph

// EntityRegistry is an ordered set of entity type names.
// A registry lives for a single extraction.
type EntityRegistry struct {
	names []string
	index map[string]struct{}
}

func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{
		index: make(map[string]struct{}),
	}
}

// Add records name. It returns false if name was already recorded.
func (r *EntityRegistry) Add(name string) bool {
	if _, ok := r.index[name]; ok {
		return false
	}
	r.index[name] = struct{}{}
	r.names = append(r.names, name)
	return true
}

func (r *EntityRegistry) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

func (r *EntityRegistry) Len() int {
	return len(r.names)
}

// Names returns the recorded names in insertion order
func (r *EntityRegistry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
