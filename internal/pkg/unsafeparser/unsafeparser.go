// Package unsafeparser is for testing purposes only.
// It parses schema documents and panics on any error.
package unsafeparser

import (
	"os"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astparser"
)

func ParseGraphqlDocumentString(input string) *ast.SchemaDocument {
	doc, report := astparser.ParseGraphqlDocumentString(input)
	if report.HasErrors() {
		panic(report.Error())
	}
	return doc
}

func ParseGraphqlDocumentFile(filePath string) *ast.SchemaDocument {
	fileBytes, err := os.ReadFile(filePath)
	if err != nil {
		panic(err)
	}
	doc, report := astparser.ParseGraphqlDocumentSource(&ast.Source{Name: filePath, Input: string(fileBytes)})
	if report.HasErrors() {
		panic(report.Error())
	}
	return doc
}
