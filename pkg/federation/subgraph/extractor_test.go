package subgraph

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/TykTechnologies/graphql-subgraph-extractor/internal/pkg/unsafeparser"
	"github.com/TykTechnologies/graphql-subgraph-extractor/internal/pkg/unsafeprinter"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/operationreport"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/testing/goldie"
)

const productsSubgraph = `
	schema @link(url: "https://specs.apollo.dev/federation/v2.5") {
		query: Query
	}
	directive @link(url: String, as: String, for: link__Purpose, import: [link__Import]) repeatable on SCHEMA
	directive @key(fields: FieldSet!, resolvable: Boolean = true) repeatable on OBJECT | INTERFACE
	directive @shareable repeatable on OBJECT | FIELD_DEFINITION
	scalar link__Import
	enum link__Purpose {
		SECURITY
		EXECUTION
	}
	type Money @shareable {
		amount: Int
		currency: String
	}
	type Product @key(fields: "upc") {
		upc: String!
		name: String
		price: Money
		category: Category
	}
	enum Category {
		BOOKS
		GAMES
	}
	type Query {
		topProducts(first: Int = 5): [Product]
		product(upc: String!): Product
		_entities(representations: [_Any!]!): [_Entity]!
	}
	scalar _Any
	scalar FieldSet
	union _Entity = Product
`

func TestExtractor_Extract(t *testing.T) {
	supergraph := unsafeparser.ParseGraphqlDocumentFile("testdata/supergraph.graphql")
	before := unsafeprinter.Print(supergraph)

	out, summary, err := NewExtractor().Extract(supergraph)
	require.NoError(t, err)

	printed := unsafeprinter.Print(out)
	assert.Equal(t, unsafeprinter.Prettify(productsSubgraph), printed)
	assert.NotContains(t, printed, CompositionInternalPrefix)
	assert.Equal(t, before, unsafeprinter.Print(supergraph), "the supergraph must not change")

	goldie.New(t).AssertJson(t, "supergraph_summary", summary)

	t.Run("output is a valid schema", func(t *testing.T) {
		schema, err := validator.LoadSchema(validator.Prelude, &ast.Source{Name: "subgraph.graphql", Input: printed})
		require.NoError(t, err)

		entity := schema.Types[EntityUnionName]
		require.NotNil(t, entity)
		assert.Equal(t, []string{"Product"}, entity.Types)

		entities := schema.Query.Fields.ForName(EntitiesFieldName)
		require.NotNil(t, entities)
		assert.Equal(t, "[_Entity]!", entities.Type.String())
	})
}

func TestExtractor_EntityMembership(t *testing.T) {
	input := `
		type Query @join__type(graph: A) @join__type(graph: B) {
			products: [Product]
		}
		type Product @join__type(graph: A, key: "id") @join__type(graph: B, key: "sku") {
			id: ID!
			sku: String!
		}
		type Review @join__type(graph: B) @join__type(graph: A, key: "id") {
			id: ID!
		}
		type Money @join__type(graph: A) {
			amount: Int
		}
		type Plain {
			name: String
		}
		interface Node @join__type(graph: A, key: "id") {
			id: ID!
		}
	`

	t.Run("first marker decides", func(t *testing.T) {
		got, summary := mustExtract(t, NewExtractor(), input)

		assert.Equal(t, []string{"Product"}, summary.Entities)
		assert.Equal(t, []string{"Query", "Review", "Money"}, summary.ShareableTypes)
		assert.Contains(t, got, "union _Entity = Product\n")
		assert.Contains(t, got, `type Product @key(fields: "id") {`)
		assert.Contains(t, got, "type Review @shareable {")
		assert.Contains(t, got, "type Plain {")
		assert.Contains(t, got, "interface Node {")
	})

	t.Run("all keyed markers", func(t *testing.T) {
		got, summary := mustExtract(t, NewExtractor(WithMarkerPolicy(MarkerPolicyAllKeys)), input)

		assert.Equal(t, []string{"Product", "Review"}, summary.Entities)
		assert.Equal(t, []string{"Query", "Money"}, summary.ShareableTypes)
		assert.Contains(t, got, "union _Entity = Product | Review\n")
		assert.Contains(t, got, `type Product @key(fields: "id") @key(fields: "sku") {`)
		assert.Contains(t, got, `type Review @key(fields: "id") {`)
	})
}

func TestExtractor_RootTypes(t *testing.T) {
	got, _ := mustExtract(t, NewExtractor(), `
		schema @link(url: "https://specs.apollo.dev/join/v0.3", for: EXECUTION) {
			query: RootQuery
			mutation: RootMutation
		}
		type RootQuery @join__type(graph: A) @tag(name: "public") {
			a: String
		}
		type RootMutation @join__type(graph: A) {
			b: String
		}
		type Mutation @join__type(graph: A) {
			c: String
		}
	`)

	assert.Equal(t, unsafeprinter.Prettify(`
		schema @link(url: "https://specs.apollo.dev/federation/v2.5") {
			query: RootQuery
			mutation: RootMutation
		}
		directive @key(fields: FieldSet!, resolvable: Boolean = true) repeatable on OBJECT | INTERFACE
		directive @shareable repeatable on OBJECT | FIELD_DEFINITION
		directive @link(url: String!, import: [String]) repeatable on SCHEMA
		type RootQuery {
			a: String
			_entities(representations: [_Any!]!): [_Entity]!
		}
		type RootMutation {
			b: String
		}
		type Mutation @shareable {
			c: String
		}
		scalar _Any
		scalar FieldSet
		union _Entity
	`), got)
}

func TestExtractor_EmptyEntities(t *testing.T) {
	input := `
		type Query @join__type(graph: A) {
			money: Money
		}
		type Money @join__type(graph: A) {
			amount: Int
		}
	`

	t.Run("keep", func(t *testing.T) {
		got, summary := mustExtract(t, NewExtractor(), input)
		assert.Empty(t, summary.Entities)
		assert.Contains(t, got, "union _Entity\n")
		assert.Contains(t, got, "_entities(representations: [_Any!]!): [_Entity]!")

		_, err := validator.LoadSchema(validator.Prelude, &ast.Source{Input: got})
		assert.NoError(t, err)
	})

	t.Run("omit", func(t *testing.T) {
		got, _ := mustExtract(t, NewExtractor(WithEmptyEntities(EmptyEntitiesOmit)), input)
		assert.NotContains(t, got, EntityUnionName)
		assert.NotContains(t, got, EntitiesFieldName)
		assert.Contains(t, got, "scalar _Any\n")
		assert.Contains(t, got, "scalar FieldSet\n")
	})
}

func TestExtractor_LinkURL(t *testing.T) {
	got, _ := mustExtract(t, NewExtractor(WithLinkURL("https://specs.apollo.dev/federation/v2.3")), `
		type Query @join__type(graph: A) {
			a: String
		}
	`)
	assert.True(t, strings.HasPrefix(got, `extend schema @link(url: "https://specs.apollo.dev/federation/v2.3")`), got)
}

func TestExtractor_Reuse(t *testing.T) {
	extractor := NewExtractor()

	first, firstSummary := mustExtract(t, extractor, `
		type Query @join__type(graph: A) { a: String }
		type Product @join__type(graph: A, key: "id") { id: ID! }
	`)
	second, secondSummary := mustExtract(t, extractor, `
		type Query @join__type(graph: A) { a: String }
		type Review @join__type(graph: A, key: "id") { id: ID! }
	`)

	assert.Contains(t, first, "union _Entity = Product\n")
	assert.Contains(t, second, "union _Entity = Review\n")
	assert.Equal(t, []string{"Product"}, firstSummary.Entities)
	assert.Equal(t, []string{"Review"}, secondSummary.Entities)
}

func TestExtractor_Summary(t *testing.T) {
	_, summary := mustExtract(t, NewExtractor(WithCollisionPolicy(CollisionPolicyReplace)), `
		directive @join__type(graph: join__Graph!, key: join__FieldSet) repeatable on OBJECT
		scalar join__FieldSet
		enum join__Graph { A }
		scalar _Any
		type Query @join__type(graph: A) { a: String }
		type Product @join__type(graph: A, key: "id") { id: ID! }
	`)

	expected := &Summary{
		Entities:                    []string{"Product"},
		ShareableTypes:              []string{"Query"},
		RemovedTypes:                []string{"join__FieldSet", "join__Graph"},
		RemovedDirectiveDefinitions: []string{"join__type"},
		StrippedDirectiveUsages:     2,
		ReplacedDeclarations:        []string{"_Any"},
	}
	if diff := cmp.Diff(expected, summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractor_Errors(t *testing.T) {
	t.Run("nil document is an internal error", func(t *testing.T) {
		out, summary, err := NewExtractor().Extract(nil)
		require.Error(t, err)
		assert.Nil(t, out)
		assert.Nil(t, summary)
		assert.True(t, operationreport.IsInternal(err))
	})

	t.Run("empty document is an external error", func(t *testing.T) {
		_, _, err := NewExtractor().Extract(&ast.SchemaDocument{})
		require.Error(t, err)
		assert.False(t, operationreport.IsInternal(err))
		assert.Contains(t, err.Error(), "external: the schema does not declare any type")
	})

	t.Run("collision is an external error", func(t *testing.T) {
		document := unsafeparser.ParseGraphqlDocumentString(`
			type Query @join__type(graph: A) { a: String }
			type FieldSet { a: String }
		`)
		_, _, err := NewExtractor().Extract(document)
		require.Error(t, err)
		assert.False(t, operationreport.IsInternal(err))

		report := operationreport.Report{}
		out, summary := NewExtractor().ExtractWithReport(document, &report)
		assert.Nil(t, out)
		assert.Nil(t, summary)
		require.Len(t, report.ExternalErrors, 1)
		assert.Equal(t, operationreport.ErrSynthesizedTypeCollision(FieldSetScalarName), report.ExternalErrors[0])
	})

	t.Run("unknown marker policy is an internal error", func(t *testing.T) {
		_, _, err := NewExtractor(WithMarkerPolicy(MarkerPolicy(42))).Extract(unsafeparser.ParseGraphqlDocumentString(`
			type Query @join__type(graph: A) { a: String }
		`))
		require.Error(t, err)
		assert.True(t, operationreport.IsInternal(err))
	})
}
