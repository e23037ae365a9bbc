package subgraph

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/asttransform"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astvisitor"
)

func newRootSanitizer() *rootSanitizer {
	return &rootSanitizer{}
}

// rootSanitizer removes all directives from the root operation types.
// Federation directives are not allowed on them.
type rootSanitizer struct {
	rootTypeNames map[string]struct{}
}

func (r *rootSanitizer) Register(walker *astvisitor.Walker) {
	walker.RegisterEnterDocumentVisitor(r)
	walker.RegisterEnterObjectTypeDefinitionVisitor(r)
}

func (r *rootSanitizer) EnterDocument(document *ast.SchemaDocument) {
	r.rootTypeNames = make(map[string]struct{}, 3)
	for _, name := range rootOperationTypeNames(document) {
		r.rootTypeNames[name] = struct{}{}
	}
}

func (r *rootSanitizer) EnterObjectTypeDefinition(definition *ast.Definition) astvisitor.Change[*ast.Definition] {
	if _, ok := r.rootTypeNames[definition.Name]; !ok {
		return astvisitor.NoChange[*ast.Definition]()
	}
	if len(definition.Directives) == 0 {
		return astvisitor.NoChange[*ast.Definition]()
	}
	return astvisitor.Replace(asttransform.DefinitionWithDirectives(definition, ast.DirectiveList{}))
}

// rootOperationTypeNames returns the names of the root operation types.
// Operation types declared by schema definitions or extensions win over the default names.
func rootOperationTypeNames(document *ast.SchemaDocument) []string {
	declared := make(map[ast.Operation]string, 3)
	for _, schemas := range []ast.SchemaDefinitionList{document.Schema, document.SchemaExtension} {
		for _, schema := range schemas {
			for _, operationType := range schema.OperationTypes {
				declared[operationType.Operation] = operationType.Type
			}
		}
	}

	if len(declared) == 0 {
		return []string{"Query", "Mutation", "Subscription"}
	}

	names := make([]string, 0, len(declared))
	for _, operation := range []ast.Operation{ast.Query, ast.Mutation, ast.Subscription} {
		if name, ok := declared[operation]; ok {
			names = append(names, name)
		}
	}
	return names
}

// queryTypeName returns the name of the query root operation type
func queryTypeName(document *ast.SchemaDocument) string {
	for _, schemas := range []ast.SchemaDefinitionList{document.Schema, document.SchemaExtension} {
		for _, schema := range schemas {
			for _, operationType := range schema.OperationTypes {
				if operationType.Operation == ast.Query {
					return operationType.Type
				}
			}
		}
	}
	return "Query"
}
