package subgraph

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astvisitor"
)

func newTypeEliminator(run *extraction) *typeEliminator {
	return &typeEliminator{
		run: run,
	}
}

// typeEliminator removes the enums, scalars and directive definitions a composition step declared
type typeEliminator struct {
	run *extraction
}

func (t *typeEliminator) Register(walker *astvisitor.Walker) {
	walker.RegisterEnterEnumTypeDefinitionVisitor(t)
	walker.RegisterEnterScalarTypeDefinitionVisitor(t)
	walker.RegisterEnterDirectiveDefinitionVisitor(t)
}

func (t *typeEliminator) EnterEnumTypeDefinition(definition *ast.Definition) astvisitor.Change[*ast.Definition] {
	return t.eliminateType(definition)
}

func (t *typeEliminator) EnterScalarTypeDefinition(definition *ast.Definition) astvisitor.Change[*ast.Definition] {
	return t.eliminateType(definition)
}

func (t *typeEliminator) eliminateType(definition *ast.Definition) astvisitor.Change[*ast.Definition] {
	if !IsCompositionInternal(definition.Name) {
		return astvisitor.NoChange[*ast.Definition]()
	}
	t.run.summary.RemovedTypes = append(t.run.summary.RemovedTypes, definition.Name)
	return astvisitor.Remove[*ast.Definition]()
}

func (t *typeEliminator) EnterDirectiveDefinition(definition *ast.DirectiveDefinition) astvisitor.Change[*ast.DirectiveDefinition] {
	if !IsCompositionInternal(definition.Name) {
		return astvisitor.NoChange[*ast.DirectiveDefinition]()
	}
	t.run.summary.RemovedDirectiveDefinitions = append(t.run.summary.RemovedDirectiveDefinitions, definition.Name)
	return astvisitor.Remove[*ast.DirectiveDefinition]()
}
