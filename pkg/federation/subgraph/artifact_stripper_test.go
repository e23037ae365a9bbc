package subgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStripper(t *testing.T) {
	t.Run("removes join usages from every node", func(t *testing.T) {
		extraction := newTestExtraction()
		run(t, newArtifactStripper(extraction), `
			schema @join__meta(version: 1) @tag(name: "schema") {
				query: Query
			}
			type Query @join__type(graph: A) {
				product(upc: String! @join__argument(graph: A)): Product @join__field(graph: A)
			}
			type Product @join__type(graph: A, key: "upc") @key(fields: "upc") {
				upc: String!
				price: Int @join__field(graph: A) @tag(name: "price")
			}
			interface Node @join__type(graph: A) @join__implements(graph: A, interface: "Entity") {
				id: ID!
			}
			union Result @join__type(graph: A) @join__unionMember(graph: A, member: "Product") = Product
			enum Color @join__type(graph: A) {
				RED @join__enumValue(graph: A)
				GREEN @deprecated
			}
			input Filter @join__type(graph: A) {
				name: String @join__field(graph: A)
			}
			scalar DateTime @join__type(graph: A)
			extend type Product @join__type(graph: B) {
				name: String @join__field(graph: B)
			}
		`, `
			schema @tag(name: "schema") {
				query: Query
			}
			type Query {
				product(upc: String!): Product
			}
			type Product @key(fields: "upc") {
				upc: String!
				price: Int @tag(name: "price")
			}
			interface Node {
				id: ID!
			}
			union Result = Product
			enum Color {
				RED
				GREEN @deprecated
			}
			input Filter {
				name: String
			}
			scalar DateTime
			extend type Product {
				name: String
			}
		`)
		assert.Equal(t, 17, extraction.summary.StrippedDirectiveUsages)
	})
	t.Run("keeps declarations", func(t *testing.T) {
		run(t, newArtifactStripper(newTestExtraction()), `
			directive @join__graph(name: String!, url: String!) on ENUM_VALUE
			enum join__Graph {
				A @join__graph(name: "a", url: "http://a")
			}
		`, `
			directive @join__graph(name: String!, url: String!) on ENUM_VALUE
			enum join__Graph {
				A
			}
		`)
	})
}

func TestPruningIsIdempotent(t *testing.T) {
	input := `
		directive @join__type(graph: join__Graph!, key: join__FieldSet) repeatable on OBJECT
		directive @tag(name: String!) repeatable on OBJECT
		scalar join__FieldSet
		enum join__Graph {
			A @join__graph(name: "a", url: "http://a")
		}
		type Product @join__type(graph: A, key: "upc") @tag(name: "public") {
			upc: String! @join__field(graph: A)
		}
	`
	prune := func() Visitor {
		extraction := newTestExtraction()
		return composeVisitor{newArtifactStripper(extraction), newTypeEliminator(extraction)}
	}

	once, report := walk(t, prune(), input)
	require.False(t, report.HasErrors())

	twice, report := walk(t, prune(), once)
	require.False(t, report.HasErrors())

	assert.Equal(t, once, twice)
	assert.NotContains(t, once, "join__")
}
