package astvisitor

type changeKind int

const (
	changeKindNone changeKind = iota
	changeKindReplace
	changeKindRemove
)

// Change is the outcome a visitor returns for the node it was handed.
// Visitors never edit the node itself, they return a replacement built from fresh values.
type Change[T any] struct {
	kind changeKind
	node T
}

// NoChange keeps the visited node as it is.
func NoChange[T any]() Change[T] {
	return Change[T]{kind: changeKindNone}
}

// Replace swaps the visited node for node.
func Replace[T any](node T) Change[T] {
	return Change[T]{kind: changeKindReplace, node: node}
}

// Remove drops the visited node from its parent list.
func Remove[T any]() Change[T] {
	return Change[T]{kind: changeKindRemove}
}

func (c Change[T]) IsNoChange() bool {
	return c.kind == changeKindNone
}

func (c Change[T]) IsRemove() bool {
	return c.kind == changeKindRemove
}

// Node returns the replacement node. It is only meaningful if the change is a replacement.
func (c Change[T]) Node() T {
	return c.node
}

// apply resolves the change against the current node. keep is false if the node was removed.
func (c Change[T]) apply(current T) (node T, keep bool) {
	switch c.kind {
	case changeKindReplace:
		return c.node, true
	case changeKindRemove:
		return current, false
	default:
		return current, true
	}
}
