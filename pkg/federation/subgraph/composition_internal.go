package subgraph

import "strings"

// CompositionInternalPrefix is the name prefix of every type, enum, scalar and directive
// a composition step adds to record provenance.
const CompositionInternalPrefix = "join__"

// JoinTypeDirectiveName is the per type marker a composition step attaches for every contributing graph.
const JoinTypeDirectiveName = CompositionInternalPrefix + "type"

const (
	joinTypeKeyArgument        = "key"
	joinTypeResolvableArgument = "resolvable"
)

// IsCompositionInternal reports whether name belongs to a composition artifact.
// All cleanup stages decide by this predicate only.
func IsCompositionInternal(name string) bool {
	return strings.HasPrefix(name, CompositionInternalPrefix)
}
