package subgraph

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/asttransform"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astvisitor"
)

func newArtifactStripper(run *extraction) *artifactStripper {
	return &artifactStripper{
		run: run,
	}
}

// artifactStripper removes every composition internal directive usage.
// Nodes are kept, only their directive lists are filtered.
type artifactStripper struct {
	run *extraction
}

func (a *artifactStripper) Register(walker *astvisitor.Walker) {
	walker.RegisterEnterSchemaDefinitionVisitor(a)
	walker.RegisterEnterTypeDefinitionVisitor(a)
	walker.RegisterEnterFieldDefinitionVisitor(a)
	walker.RegisterEnterArgumentDefinitionVisitor(a)
	walker.RegisterEnterEnumValueDefinitionVisitor(a)
}

func isCompositionInternalDirective(directive *ast.Directive) bool {
	return IsCompositionInternal(directive.Name)
}

func (a *artifactStripper) strip(directives ast.DirectiveList) (ast.DirectiveList, bool) {
	out, removed := asttransform.RemoveDirectives(directives, isCompositionInternalDirective)
	if removed {
		a.run.summary.StrippedDirectiveUsages += len(directives) - len(out)
	}
	return out, removed
}

func (a *artifactStripper) EnterSchemaDefinition(schema *ast.SchemaDefinition) astvisitor.Change[*ast.SchemaDefinition] {
	directives, removed := a.strip(schema.Directives)
	if !removed {
		return astvisitor.NoChange[*ast.SchemaDefinition]()
	}
	return astvisitor.Replace(asttransform.SchemaWithDirectives(schema, directives))
}

func (a *artifactStripper) EnterTypeDefinition(definition *ast.Definition) astvisitor.Change[*ast.Definition] {
	directives, removed := a.strip(definition.Directives)
	if !removed {
		return astvisitor.NoChange[*ast.Definition]()
	}
	return astvisitor.Replace(asttransform.DefinitionWithDirectives(definition, directives))
}

func (a *artifactStripper) EnterFieldDefinition(field *ast.FieldDefinition) astvisitor.Change[*ast.FieldDefinition] {
	directives, removed := a.strip(field.Directives)
	if !removed {
		return astvisitor.NoChange[*ast.FieldDefinition]()
	}
	return astvisitor.Replace(asttransform.FieldWithDirectives(field, directives))
}

func (a *artifactStripper) EnterArgumentDefinition(argument *ast.ArgumentDefinition) astvisitor.Change[*ast.ArgumentDefinition] {
	directives, removed := a.strip(argument.Directives)
	if !removed {
		return astvisitor.NoChange[*ast.ArgumentDefinition]()
	}
	return astvisitor.Replace(asttransform.ArgumentWithDirectives(argument, directives))
}

func (a *artifactStripper) EnterEnumValueDefinition(value *ast.EnumValueDefinition) astvisitor.Change[*ast.EnumValueDefinition] {
	directives, removed := a.strip(value.Directives)
	if !removed {
		return astvisitor.NoChange[*ast.EnumValueDefinition]()
	}
	return astvisitor.Replace(asttransform.EnumValueWithDirectives(value, directives))
}
