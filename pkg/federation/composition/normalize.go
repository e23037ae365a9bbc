package composition

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/asttransform"
)

const (
	federationNamespace = "federation__"

	linkDirectiveName            = "link"
	keyDirectiveName             = "key"
	requiresDirectiveName        = "requires"
	providesDirectiveName        = "provides"
	externalDirectiveName        = "external"
	shareableDirectiveName       = "shareable"
	extendsDirectiveName         = "extends"
	overrideDirectiveName        = "override"
	interfaceObjectDirectiveName = "interfaceObject"
	composeDirectiveName         = "composeDirective"
	tagDirectiveName             = "tag"
	inaccessibleDirectiveName    = "inaccessible"

	fieldsArgument     = "fields"
	resolvableArgument = "resolvable"
	fromArgument       = "from"

	serviceFieldName  = "_service"
	entitiesFieldName = "_entities"
)

// federationDirectives are consumed by composition, @tag and @inaccessible survive it
var federationDirectives = map[string]struct{}{
	linkDirectiveName:            {},
	keyDirectiveName:             {},
	requiresDirectiveName:        {},
	providesDirectiveName:        {},
	externalDirectiveName:        {},
	shareableDirectiveName:       {},
	extendsDirectiveName:         {},
	overrideDirectiveName:        {},
	interfaceObjectDirectiveName: {},
	composeDirectiveName:         {},
}

var federationTypes = map[string]struct{}{
	"_Any":                 {},
	"_Entity":              {},
	"_Service":             {},
	"FieldSet":             {},
	"federation__FieldSet": {},
	"federation__Scope":    {},
	"link__Import":         {},
	"link__Purpose":        {},
}

// federationDirectiveName strips the federation__ namespace of an imported directive name
func federationDirectiveName(name string) string {
	return strings.TrimPrefix(name, federationNamespace)
}

func isFederationDirective(name string) bool {
	_, ok := federationDirectives[federationDirectiveName(name)]
	return ok
}

func isFederationType(name string) bool {
	_, ok := federationTypes[name]
	return ok
}

// foldExtensions merges every type extension into its base definition.
// An extension without a base definition becomes the definition.
// The returned set holds the names of types the subgraph only extends.
func foldExtensions(document *ast.SchemaDocument) (*ast.SchemaDocument, map[string]bool) {
	out := asttransform.CopyDocument(document)
	out.Extensions = nil
	extended := make(map[string]bool)

	for _, definition := range out.Definitions {
		if hasDirective(definition.Directives, extendsDirectiveName) {
			extended[definition.Name] = true
		}
	}

	for _, extension := range document.Extensions {
		base := out.Definitions.ForName(extension.Name)
		if base == nil {
			extended[extension.Name] = true
			copied := *extension
			out.Definitions = append(out.Definitions, &copied)
			continue
		}

		merged := *base
		merged.Directives = append(append(ast.DirectiveList(nil), base.Directives...), extension.Directives...)
		merged.Interfaces = append(append([]string(nil), base.Interfaces...), extension.Interfaces...)
		merged.Fields = append(append(ast.FieldList(nil), base.Fields...), extension.Fields...)
		merged.Types = append(append([]string(nil), base.Types...), extension.Types...)
		merged.EnumValues = append(append(ast.EnumValueList(nil), base.EnumValues...), extension.EnumValues...)
		out.Definitions = asttransform.ReplaceDefinition(out.Definitions, &merged)
	}

	return out, extended
}

// removeFederationDeclarations drops the federation types, directives and fields a subgraph declares.
// Composition declares its own versions of what the supergraph needs.
func removeFederationDeclarations(document *ast.SchemaDocument) *ast.SchemaDocument {
	out := asttransform.CopyDocument(document)

	out.Directives = out.Directives[:0]
	for _, directive := range document.Directives {
		if !isFederationDirective(directive.Name) {
			out.Directives = append(out.Directives, directive)
		}
	}

	out.Definitions = out.Definitions[:0]
	for _, definition := range document.Definitions {
		if isFederationType(definition.Name) {
			continue
		}
		if definition.Kind == ast.Object && (definition.Fields.ForName(serviceFieldName) != nil || definition.Fields.ForName(entitiesFieldName) != nil) {
			fields := make(ast.FieldList, 0, len(definition.Fields))
			for _, field := range definition.Fields {
				if field.Name != serviceFieldName && field.Name != entitiesFieldName {
					fields = append(fields, field)
				}
			}
			if len(fields) == 0 {
				continue
			}
			definition = asttransform.DefinitionWithFields(definition, fields)
		}
		out.Definitions = append(out.Definitions, definition)
	}

	return out
}

func hasDirective(directives ast.DirectiveList, name string) bool {
	for _, directive := range directives {
		if federationDirectiveName(directive.Name) == name {
			return true
		}
	}
	return false
}
