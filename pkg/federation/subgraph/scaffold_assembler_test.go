package subgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/TykTechnologies/graphql-subgraph-extractor/internal/pkg/unsafeparser"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astvisitor"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/operationreport"
)

func newTestAssembler(t *testing.T, extraction *extraction, entities ...string) *scaffoldAssembler {
	t.Helper()

	scaffold, err := parseFederationScaffold()
	require.NoError(t, err)
	for _, entity := range entities {
		extraction.registry.Add(entity)
	}
	return newScaffoldAssembler(extraction, scaffold)
}

func TestScaffoldAssembler(t *testing.T) {
	t.Run("declares the federation scaffold", func(t *testing.T) {
		run(t, newTestAssembler(t, newTestExtraction(), "Product", "Review"), `
			type Query {
				topProducts: [Product]
			}
			type Product @key(fields: "upc") {
				upc: String!
			}
			type Review @key(fields: "id") {
				id: ID!
			}
		`, `
			directive @key(fields: FieldSet!, resolvable: Boolean = true) repeatable on OBJECT | INTERFACE
			directive @shareable repeatable on OBJECT | FIELD_DEFINITION
			directive @link(url: String!, import: [String]) repeatable on SCHEMA
			type Query {
				topProducts: [Product]
				_entities(representations: [_Any!]!): [_Entity]!
			}
			type Product @key(fields: "upc") {
				upc: String!
			}
			type Review @key(fields: "id") {
				id: ID!
			}
			scalar _Any
			scalar FieldSet
			union _Entity = Product | Review
		`)
	})
	t.Run("keeps an existing link definition", func(t *testing.T) {
		run(t, newTestAssembler(t, newTestExtraction(), "Product"), `
			directive @link(url: String, as: String, for: link__Purpose, import: [link__Import]) repeatable on SCHEMA
			type Query {
				a: String
			}
			type Product @key(fields: "upc") {
				upc: String!
			}
		`, `
			directive @link(url: String, as: String, for: link__Purpose, import: [link__Import]) repeatable on SCHEMA
			directive @key(fields: FieldSet!, resolvable: Boolean = true) repeatable on OBJECT | INTERFACE
			directive @shareable repeatable on OBJECT | FIELD_DEFINITION
			type Query {
				a: String
				_entities(representations: [_Any!]!): [_Entity]!
			}
			type Product @key(fields: "upc") {
				upc: String!
			}
			scalar _Any
			scalar FieldSet
			union _Entity = Product
		`)
	})
	t.Run("declares a missing query type", func(t *testing.T) {
		run(t, newTestAssembler(t, newTestExtraction(), "Product"), `
			type Product @key(fields: "upc") {
				upc: String!
			}
		`, `
			directive @key(fields: FieldSet!, resolvable: Boolean = true) repeatable on OBJECT | INTERFACE
			directive @shareable repeatable on OBJECT | FIELD_DEFINITION
			directive @link(url: String!, import: [String]) repeatable on SCHEMA
			type Product @key(fields: "upc") {
				upc: String!
			}
			scalar _Any
			scalar FieldSet
			union _Entity = Product
			type Query {
				_entities(representations: [_Any!]!): [_Entity]!
			}
		`)
	})
	t.Run("uses the query type of the schema definition", func(t *testing.T) {
		run(t, newTestAssembler(t, newTestExtraction(), "Product"), `
			schema { query: RootQuery }
			type RootQuery { a: String }
			type Product @key(fields: "upc") { upc: String! }
		`, `
			schema { query: RootQuery }
			directive @key(fields: FieldSet!, resolvable: Boolean = true) repeatable on OBJECT | INTERFACE
			directive @shareable repeatable on OBJECT | FIELD_DEFINITION
			directive @link(url: String!, import: [String]) repeatable on SCHEMA
			type RootQuery {
				a: String
				_entities(representations: [_Any!]!): [_Entity]!
			}
			type Product @key(fields: "upc") { upc: String! }
			scalar _Any
			scalar FieldSet
			union _Entity = Product
		`)
	})
	t.Run("empty registry keeps an empty union by default", func(t *testing.T) {
		run(t, newTestAssembler(t, newTestExtraction()), `
			type Query { a: String }
		`, `
			directive @key(fields: FieldSet!, resolvable: Boolean = true) repeatable on OBJECT | INTERFACE
			directive @shareable repeatable on OBJECT | FIELD_DEFINITION
			directive @link(url: String!, import: [String]) repeatable on SCHEMA
			type Query {
				a: String
				_entities(representations: [_Any!]!): [_Entity]!
			}
			scalar _Any
			scalar FieldSet
			union _Entity
		`)
	})
	t.Run("empty registry omits union and field if configured", func(t *testing.T) {
		run(t, newTestAssembler(t, newTestExtraction(WithEmptyEntities(EmptyEntitiesOmit))), `
			type Query { a: String }
		`, `
			directive @key(fields: FieldSet!, resolvable: Boolean = true) repeatable on OBJECT | INTERFACE
			directive @shareable repeatable on OBJECT | FIELD_DEFINITION
			directive @link(url: String!, import: [String]) repeatable on SCHEMA
			type Query { a: String }
			scalar _Any
			scalar FieldSet
		`)
	})
	t.Run("omit policy has no effect if there are entities", func(t *testing.T) {
		got, report := walk(t, newTestAssembler(t, newTestExtraction(WithEmptyEntities(EmptyEntitiesOmit)), "Product"), `
			type Query { a: String }
			type Product { upc: String! }
		`)
		require.False(t, report.HasErrors())
		assert.Contains(t, got, "union _Entity = Product")
	})
}

func TestScaffoldAssemblerCollisions(t *testing.T) {
	t.Run("declared type is an external error by default", func(t *testing.T) {
		_, report := walk(t, newTestAssembler(t, newTestExtraction()), `
			scalar _Any
			type Query { a: String }
		`)
		assert.False(t, report.HasInternalErrors())
		require.Len(t, report.ExternalErrors, 1)
		assert.Equal(t, operationreport.ErrSynthesizedTypeCollision("_Any"), report.ExternalErrors[0])
	})
	t.Run("declared type extension is an external error by default", func(t *testing.T) {
		_, report := walk(t, newTestAssembler(t, newTestExtraction(), "Product"), `
			type Query { a: String }
			type Product { upc: String! }
			extend union _Entity = Product
		`)
		require.Len(t, report.ExternalErrors, 1)
		assert.Equal(t, operationreport.ErrSynthesizedTypeCollision("_Entity"), report.ExternalErrors[0])
	})
	t.Run("declared directive is an external error by default", func(t *testing.T) {
		_, report := walk(t, newTestAssembler(t, newTestExtraction()), `
			directive @key(fields: String!) on OBJECT
			type Query { a: String }
		`)
		require.Len(t, report.ExternalErrors, 1)
		assert.Equal(t, operationreport.ErrSynthesizedDirectiveCollision("key"), report.ExternalErrors[0])
	})
	t.Run("declared _entities field is an external error by default", func(t *testing.T) {
		_, report := walk(t, newTestAssembler(t, newTestExtraction()), `
			type Query { _entities: [String] }
		`)
		require.Len(t, report.ExternalErrors, 1)
		assert.Equal(t, operationreport.ErrSynthesizedFieldCollision("Query", "_entities"), report.ExternalErrors[0])
	})
	t.Run("query type of another kind is an external error", func(t *testing.T) {
		_, report := walk(t, newTestAssembler(t, newTestExtraction()), `
			interface Query { a: String }
		`)
		require.Len(t, report.ExternalErrors, 1)
		assert.Equal(t, operationreport.ErrSynthesizedTypeKindMismatch("Query", "OBJECT", "INTERFACE"), report.ExternalErrors[0])
	})
	t.Run("replace policy swaps declarations", func(t *testing.T) {
		extraction := newTestExtraction(WithCollisionPolicy(CollisionPolicyReplace))
		run(t, newTestAssembler(t, extraction, "Product"), `
			directive @key(fields: String!) on OBJECT
			scalar _Any @specifiedBy(url: "https://example.com")
			type Query {
				_entities: [String]
				a: String
			}
			type Product @key(fields: "upc") { upc: String! }
			extend type Query {
				_entities: Int
				b: String
			}
		`, `
			directive @key(fields: FieldSet!, resolvable: Boolean = true) repeatable on OBJECT | INTERFACE
			directive @shareable repeatable on OBJECT | FIELD_DEFINITION
			directive @link(url: String!, import: [String]) repeatable on SCHEMA
			type Query {
				a: String
				_entities(representations: [_Any!]!): [_Entity]!
			}
			type Product @key(fields: "upc") { upc: String! }
			scalar _Any
			scalar FieldSet
			union _Entity = Product
			extend type Query {
				b: String
			}
		`)
		assert.Equal(t, []string{"_Any", "@key", "Query._entities", "Query._entities"}, extraction.summary.ReplacedDeclarations)
	})
}

func TestScaffoldAssemblerEntityResolution(t *testing.T) {
	t.Run("unknown entity is an internal error", func(t *testing.T) {
		_, report := walk(t, newTestAssembler(t, newTestExtraction(), "Product"), `
			type Query { a: String }
		`)
		require.True(t, report.HasInternalErrors())
		assert.Len(t, report.ExternalErrors, 0)
		assert.Equal(t, "assemble _Entity: entity 'Product' is not declared by the document", report.InternalErrors[0].Error())
	})
	t.Run("entity of another kind is an internal error", func(t *testing.T) {
		_, report := walk(t, newTestAssembler(t, newTestExtraction(), "Product"), `
			type Query { a: String }
			interface Product { upc: String! }
		`)
		require.True(t, report.HasInternalErrors())
		assert.Equal(t, "assemble _Entity: entity 'Product' is a INTERFACE, not an OBJECT", report.InternalErrors[0].Error())
	})
}

func TestScaffoldAssemblerEntitiesFieldShape(t *testing.T) {
	document := unsafeparser.ParseGraphqlDocumentString(`
		type Query { a: String }
		type Product { upc: String! }
	`)

	walker := astvisitor.NewWalker()
	newTestAssembler(t, newTestExtraction(), "Product").Register(&walker)
	report := operationreport.Report{}
	out := walker.Walk(document, &report)
	require.False(t, report.HasErrors())

	query := out.Definitions.ForName("Query")
	require.NotNil(t, query)
	entities := query.Fields.ForName("_entities")
	require.NotNil(t, entities)

	assert.Equal(t, "[_Entity]!", entities.Type.String())
	require.Len(t, entities.Arguments, 1)
	assert.Equal(t, "representations", entities.Arguments[0].Name)
	assert.Equal(t, "[_Any!]!", entities.Arguments[0].Type.String())

	union := out.Definitions.ForName("_Entity")
	require.NotNil(t, union)
	assert.Equal(t, ast.Union, union.Kind)
	assert.Equal(t, []string{"Product"}, union.Types)

	assert.Nil(t, document.Definitions.ForName("Query").Fields.ForName("_entities"))
}
