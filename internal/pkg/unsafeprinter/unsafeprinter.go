// Package unsafeprinter is for testing purposes only.
package unsafeprinter

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/TykTechnologies/graphql-subgraph-extractor/internal/pkg/unsafeparser"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astprinter"
)

func Print(document *ast.SchemaDocument) string {
	str, err := astprinter.PrintString(document)
	if err != nil {
		panic(err)
	}
	return str
}

// Prettify parses and reprints a schema so that hand written fixtures compare equal to printer output.
func Prettify(document string) string {
	return Print(unsafeparser.ParseGraphqlDocumentString(document))
}
