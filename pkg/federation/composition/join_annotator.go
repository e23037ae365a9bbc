package composition

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/asttransform"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astvisitor"
)

const (
	joinGraphEnumName = "join__Graph"

	joinTypeDirectiveName        = "join__type"
	joinFieldDirectiveName       = "join__field"
	joinImplementsDirectiveName  = "join__implements"
	joinUnionMemberDirectiveName = "join__unionMember"
	joinEnumValueDirectiveName   = "join__enumValue"
	joinGraphDirectiveName       = "join__graph"
)

func newJoinAnnotator(graph graph, extended map[string]bool, join, prelude *ast.SchemaDocument) *joinAnnotator {
	return &joinAnnotator{
		graph:    graph,
		extended: extended,
		join:     join,
		prelude:  prelude,
		used:     make(map[string]struct{}),
	}
}

// joinAnnotator replaces the federation directives of a subgraph with the join__ markers of its graph
// and declares everything the markers refer to.
type joinAnnotator struct {
	*astvisitor.Walker
	graph          graph
	extended       map[string]bool
	join           *ast.SchemaDocument
	prelude        *ast.SchemaDocument
	used           map[string]struct{}
	operationTypes ast.OperationTypeDefinitionList
}

func (j *joinAnnotator) Register(walker *astvisitor.Walker) {
	j.Walker = walker
	walker.RegisterEnterDocumentVisitor(j)
	walker.RegisterEnterSchemaDefinitionVisitor(j)
	walker.RegisterEnterTypeDefinitionVisitor(j)
	walker.RegisterEnterFieldDefinitionVisitor(j)
	walker.RegisterEnterArgumentDefinitionVisitor(j)
	walker.RegisterEnterEnumValueDefinitionVisitor(j)
	walker.RegisterLeaveDocumentVisitor(j)
}

func (j *joinAnnotator) EnterDocument(document *ast.SchemaDocument) {
	j.operationTypes = rootOperationTypes(document)
}

// EnterSchemaDefinition drops all schema definitions, LeaveDocument declares the supergraph one
func (j *joinAnnotator) EnterSchemaDefinition(_ *ast.SchemaDefinition) astvisitor.Change[*ast.SchemaDefinition] {
	return astvisitor.Remove[*ast.SchemaDefinition]()
}

func (j *joinAnnotator) EnterTypeDefinition(definition *ast.Definition) astvisitor.Change[*ast.Definition] {
	directives := j.joinTypes(definition)

	switch definition.Kind {
	case ast.Object, ast.Interface:
		for _, name := range definition.Interfaces {
			directives = append(directives, asttransform.NewDirective(joinImplementsDirectiveName,
				j.graphArgument(),
				asttransform.StringArgument("interface", name),
			))
		}
	case ast.Union:
		for _, name := range definition.Types {
			directives = append(directives, asttransform.NewDirective(joinUnionMemberDirectiveName,
				j.graphArgument(),
				asttransform.StringArgument("member", name),
			))
		}
	}

	directives = append(directives, j.withoutFederationDirectives(definition.Directives)...)
	return astvisitor.Replace(asttransform.DefinitionWithDirectives(definition, directives))
}

// joinTypes returns one join__type per @key of an object or interface, or a single join__type without key
func (j *joinAnnotator) joinTypes(definition *ast.Definition) ast.DirectiveList {
	var trailing []*ast.Argument
	if j.extended[definition.Name] {
		trailing = append(trailing, asttransform.BooleanArgument("extension", true))
	}
	if definition.Kind == ast.Object && hasDirective(definition.Directives, interfaceObjectDirectiveName) {
		trailing = append(trailing, asttransform.BooleanArgument("isInterfaceObject", true))
	}

	var joinTypes ast.DirectiveList
	if definition.Kind == ast.Object || definition.Kind == ast.Interface {
		for _, directive := range definition.Directives {
			if federationDirectiveName(directive.Name) != keyDirectiveName {
				continue
			}
			fieldSet, _ := stringArgument(directive, fieldsArgument)
			arguments := []*ast.Argument{j.graphArgument(), asttransform.StringArgument("key", fieldSet)}
			if resolvable := directive.Arguments.ForName(resolvableArgument); resolvable != nil && resolvable.Value.Raw == "false" {
				arguments = append(arguments, asttransform.BooleanArgument(resolvableArgument, false))
			}
			joinTypes = append(joinTypes, asttransform.NewDirective(joinTypeDirectiveName, append(arguments, trailing...)...))
		}
	}
	if len(joinTypes) > 0 {
		return joinTypes
	}

	arguments := append([]*ast.Argument{j.graphArgument()}, trailing...)
	return ast.DirectiveList{asttransform.NewDirective(joinTypeDirectiveName, arguments...)}
}

func (j *joinAnnotator) EnterFieldDefinition(field *ast.FieldDefinition) astvisitor.Change[*ast.FieldDefinition] {
	arguments := []*ast.Argument{j.graphArgument()}
	for _, directive := range field.Directives {
		switch federationDirectiveName(directive.Name) {
		case requiresDirectiveName:
			fieldSet, _ := stringArgument(directive, fieldsArgument)
			arguments = append(arguments, asttransform.StringArgument("requires", fieldSet))
		case providesDirectiveName:
			fieldSet, _ := stringArgument(directive, fieldsArgument)
			arguments = append(arguments, asttransform.StringArgument("provides", fieldSet))
		case externalDirectiveName:
			arguments = append(arguments, asttransform.BooleanArgument("external", true))
		case overrideDirectiveName:
			from, _ := stringArgument(directive, fromArgument)
			arguments = append(arguments, asttransform.StringArgument("override", from))
		}
	}

	directives := j.withoutFederationDirectives(field.Directives)
	if len(arguments) > 1 {
		directives = append(ast.DirectiveList{asttransform.NewDirective(joinFieldDirectiveName, arguments...)}, directives...)
	} else if len(directives) == len(field.Directives) {
		return astvisitor.NoChange[*ast.FieldDefinition]()
	}
	return astvisitor.Replace(asttransform.FieldWithDirectives(field, directives))
}

func (j *joinAnnotator) EnterArgumentDefinition(argument *ast.ArgumentDefinition) astvisitor.Change[*ast.ArgumentDefinition] {
	directives := j.withoutFederationDirectives(argument.Directives)
	if len(directives) == len(argument.Directives) {
		return astvisitor.NoChange[*ast.ArgumentDefinition]()
	}
	return astvisitor.Replace(asttransform.ArgumentWithDirectives(argument, directives))
}

func (j *joinAnnotator) EnterEnumValueDefinition(value *ast.EnumValueDefinition) astvisitor.Change[*ast.EnumValueDefinition] {
	directives := ast.DirectiveList{asttransform.NewDirective(joinEnumValueDirectiveName, j.graphArgument())}
	directives = append(directives, j.withoutFederationDirectives(value.Directives)...)
	return astvisitor.Replace(asttransform.EnumValueWithDirectives(value, directives))
}

func (j *joinAnnotator) LeaveDocument(document *ast.SchemaDocument) astvisitor.Change[*ast.SchemaDocument] {
	out := asttransform.Merge(document, j.missingPreludeDirectives(document), j.join)
	out.Definitions = append(out.Definitions, j.graphEnum())

	links := ast.DirectiveList{
		asttransform.NewDirective(linkDirectiveName, asttransform.StringArgument("url", LinkSpecURL)),
		asttransform.NewDirective(linkDirectiveName, asttransform.StringArgument("url", JoinSpecURL), asttransform.EnumArgument("for", "EXECUTION")),
	}
	if len(j.operationTypes) == 0 {
		out.SchemaExtension = ast.SchemaDefinitionList{{Directives: links}}
	} else {
		out.Schema = ast.SchemaDefinitionList{{Directives: links, OperationTypes: j.operationTypes}}
	}

	return astvisitor.Replace(out)
}

// missingPreludeDirectives declares the kept federation directives the document uses without defining them
func (j *joinAnnotator) missingPreludeDirectives(document *ast.SchemaDocument) *ast.SchemaDocument {
	missing := &ast.SchemaDocument{}
	for _, name := range []string{tagDirectiveName, inaccessibleDirectiveName} {
		if _, ok := j.used[name]; !ok || document.Directives.ForName(name) != nil {
			continue
		}
		missing.Directives = append(missing.Directives, j.prelude.Directives.ForName(name))
	}
	return missing
}

func (j *joinAnnotator) graphEnum() *ast.Definition {
	return &ast.Definition{
		Kind: ast.Enum,
		Name: joinGraphEnumName,
		EnumValues: ast.EnumValueList{
			{
				Name: j.graph.enumValue,
				Directives: ast.DirectiveList{
					asttransform.NewDirective(joinGraphDirectiveName,
						asttransform.StringArgument("name", j.graph.name),
						asttransform.StringArgument("url", j.graph.url),
					),
				},
			},
		},
	}
}

func (j *joinAnnotator) graphArgument() *ast.Argument {
	return asttransform.EnumArgument("graph", j.graph.enumValue)
}

// withoutFederationDirectives returns the directives composition keeps and records their usage
func (j *joinAnnotator) withoutFederationDirectives(directives ast.DirectiveList) ast.DirectiveList {
	kept, _ := asttransform.RemoveDirectives(directives, func(directive *ast.Directive) bool {
		return isFederationDirective(directive.Name)
	})
	for _, directive := range kept {
		j.used[directive.Name] = struct{}{}
	}
	return kept
}

// rootOperationTypes returns the operation types of the schema definitions,
// or the default root types the document declares if there are none
func rootOperationTypes(document *ast.SchemaDocument) ast.OperationTypeDefinitionList {
	var operationTypes ast.OperationTypeDefinitionList
	seen := make(map[ast.Operation]struct{})
	for _, schemas := range []ast.SchemaDefinitionList{document.Schema, document.SchemaExtension} {
		for _, schema := range schemas {
			for _, operationType := range schema.OperationTypes {
				if _, ok := seen[operationType.Operation]; ok {
					continue
				}
				if document.Definitions.ForName(operationType.Type) == nil {
					continue
				}
				seen[operationType.Operation] = struct{}{}
				operationTypes = append(operationTypes, &ast.OperationTypeDefinition{
					Operation: operationType.Operation,
					Type:      operationType.Type,
				})
			}
		}
	}
	if len(operationTypes) > 0 {
		return operationTypes
	}

	for _, operationType := range []*ast.OperationTypeDefinition{
		{Operation: ast.Query, Type: "Query"},
		{Operation: ast.Mutation, Type: "Mutation"},
		{Operation: ast.Subscription, Type: "Subscription"},
	} {
		if definition := document.Definitions.ForName(operationType.Type); definition != nil && definition.Kind == ast.Object {
			operationTypes = append(operationTypes, operationType)
		}
	}
	return operationTypes
}
