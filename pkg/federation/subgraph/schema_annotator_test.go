package subgraph

import (
	"testing"
)

func TestSchemaAnnotator(t *testing.T) {
	t.Run("replaces the directives of the schema definition", func(t *testing.T) {
		run(t, newSchemaAnnotator(DefaultLinkURL), `
			schema
				@link(url: "https://specs.apollo.dev/link/v1.0")
				@link(url: "https://specs.apollo.dev/join/v0.3", for: EXECUTION)
			{
				query: Query
			}
			type Query {
				hello: String
			}
		`, `
			schema @link(url: "https://specs.apollo.dev/federation/v2.5") {
				query: Query
			}
			type Query {
				hello: String
			}
		`)
	})
	t.Run("adds a schema extension if there is no schema definition", func(t *testing.T) {
		run(t, newSchemaAnnotator(DefaultLinkURL), `
			type Query {
				hello: String
			}
		`, `
			extend schema @link(url: "https://specs.apollo.dev/federation/v2.5")
			type Query {
				hello: String
			}
		`)
	})
	t.Run("drops extensions which only carry directives", func(t *testing.T) {
		run(t, newSchemaAnnotator(DefaultLinkURL), `
			extend schema @link(url: "https://specs.apollo.dev/link/v1.0")
			type Query {
				hello: String
			}
		`, `
			extend schema @link(url: "https://specs.apollo.dev/federation/v2.5")
			type Query {
				hello: String
			}
		`)
	})
	t.Run("keeps operation types of extensions", func(t *testing.T) {
		run(t, newSchemaAnnotator(DefaultLinkURL), `
			schema @tag(name: "a") { query: Query }
			extend schema @tag(name: "b") { mutation: Mutation }
			type Query { hello: String }
			type Mutation { hello: String }
		`, `
			schema @link(url: "https://specs.apollo.dev/federation/v2.5") { query: Query }
			extend schema { mutation: Mutation }
			type Query { hello: String }
			type Mutation { hello: String }
		`)
	})
	t.Run("uses the configured url", func(t *testing.T) {
		run(t, newSchemaAnnotator("https://specs.apollo.dev/federation/v2.3"), `
			schema { query: Query }
			type Query { hello: String }
		`, `
			schema @link(url: "https://specs.apollo.dev/federation/v2.3") { query: Query }
			type Query { hello: String }
		`)
	})
}
