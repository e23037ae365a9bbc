// subgraph-extractor turns a composed supergraph schema into the schema of a federation subgraph.
//
// The types a supergraph marks with join__type become entities when the marker carries a key,
// all other marked object types become shareable. Everything composition added, the join__ directives,
// enums and scalars, is removed and the federation scaffold is declared: the _Any and FieldSet scalars,
// the _Entity union, the Query._entities field and the @key and @shareable directives.
//
// A plain subgraph schema is composed into a single graph supergraph first, so both kinds of input are accepted:
//
//	subgraph-extractor extract --source supergraph.graphql --destination products.graphql
//	subgraph-extractor extract -s products.graphql -d - --graph-name products --summary
//
// Every flag can also be set in a YAML file passed with --config, or through an environment variable
// named after the flag with the SUBGRAPH_ prefix, for example SUBGRAPH_MARKER_POLICY=all-keys.
//
// The library behind the command lives in pkg/federation.
package main
