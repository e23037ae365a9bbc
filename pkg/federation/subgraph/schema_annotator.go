package subgraph

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/asttransform"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astvisitor"
)

const linkDirectiveName = "link"

func newSchemaAnnotator(linkURL string) *schemaAnnotator {
	return &schemaAnnotator{
		linkURL: linkURL,
	}
}

// schemaAnnotator makes a single @link to the federation version the only schema level directive.
// The link is attached to the schema definition, or to a new schema extension if there is none.
type schemaAnnotator struct {
	*astvisitor.Walker
	linkURL             string
	hasSchemaDefinition bool
}

func (s *schemaAnnotator) Register(walker *astvisitor.Walker) {
	s.Walker = walker
	walker.RegisterEnterDocumentVisitor(s)
	walker.RegisterEnterSchemaDefinitionVisitor(s)
	walker.RegisterLeaveDocumentVisitor(s)
}

func (s *schemaAnnotator) EnterDocument(document *ast.SchemaDocument) {
	s.hasSchemaDefinition = len(document.Schema) > 0
}

func (s *schemaAnnotator) EnterSchemaDefinition(schema *ast.SchemaDefinition) astvisitor.Change[*ast.SchemaDefinition] {
	if !s.IsExtension() && s.Index() == 0 {
		return astvisitor.Replace(asttransform.SchemaWithDirectives(schema, ast.DirectiveList{s.link()}))
	}

	// an extension without operation types and directives is not valid
	if s.IsExtension() && len(schema.OperationTypes) == 0 {
		return astvisitor.Remove[*ast.SchemaDefinition]()
	}

	if len(schema.Directives) == 0 {
		return astvisitor.NoChange[*ast.SchemaDefinition]()
	}
	return astvisitor.Replace(asttransform.SchemaWithDirectives(schema, nil))
}

func (s *schemaAnnotator) LeaveDocument(document *ast.SchemaDocument) astvisitor.Change[*ast.SchemaDocument] {
	if s.hasSchemaDefinition {
		return astvisitor.NoChange[*ast.SchemaDocument]()
	}

	out := asttransform.CopyDocument(document)
	out.SchemaExtension = append(out.SchemaExtension, &ast.SchemaDefinition{
		Directives: ast.DirectiveList{s.link()},
	})
	return astvisitor.Replace(out)
}

func (s *schemaAnnotator) link() *ast.Directive {
	return asttransform.NewDirective(linkDirectiveName, asttransform.StringArgument("url", s.linkURL))
}
