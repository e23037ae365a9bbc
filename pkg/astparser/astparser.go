// Package astparser turns GraphQL schema definition language into a schema document.
package astparser

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/operationreport"
)

// DefaultSourceName is the name used for sources which have not been read from a file.
const DefaultSourceName = "schema.graphql"

// ParseGraphqlDocumentString parses a schema document.
// Syntax errors are reported as external errors.
func ParseGraphqlDocumentString(input string) (*ast.SchemaDocument, operationreport.Report) {
	return ParseGraphqlDocumentSource(&ast.Source{Name: DefaultSourceName, Input: input})
}

func ParseGraphqlDocumentBytes(input []byte) (*ast.SchemaDocument, operationreport.Report) {
	return ParseGraphqlDocumentString(string(input))
}

// ParseGraphqlDocumentSource parses a named source. The name shows up in positions and error messages.
func ParseGraphqlDocumentSource(source *ast.Source) (*ast.SchemaDocument, operationreport.Report) {
	report := operationreport.Report{}
	doc, err := parser.ParseSchema(source)
	if err != nil {
		report.AddGQLError(err)
		return nil, report
	}
	return doc, report
}
