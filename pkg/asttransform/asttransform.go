// Package asttransform contains copy-on-write helpers for schema nodes.
//
// None of the helpers edit their input. They return shallow copies with fresh slices for
// everything they change so that the result may be edited further without aliasing the input.
package asttransform

import (
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
)

// DirectiveMatcher reports whether a directive usage should be affected by an edit
type DirectiveMatcher func(directive *ast.Directive) bool

// RemoveDirectives returns the directives not matched by match.
// The returned bool is false if nothing was removed, in which case directives itself is returned.
func RemoveDirectives(directives ast.DirectiveList, match DirectiveMatcher) (ast.DirectiveList, bool) {
	removed := false
	for _, directive := range directives {
		if match(directive) {
			removed = true
			break
		}
	}
	if !removed {
		return directives, false
	}

	out := make(ast.DirectiveList, 0, len(directives))
	for _, directive := range directives {
		if !match(directive) {
			out = append(out, directive)
		}
	}
	return out, true
}

// AppendDirectives returns a new list holding directives followed by additional
func AppendDirectives(directives ast.DirectiveList, additional ...*ast.Directive) ast.DirectiveList {
	out := make(ast.DirectiveList, 0, len(directives)+len(additional))
	out = append(out, directives...)
	return append(out, additional...)
}

func DefinitionWithDirectives(definition *ast.Definition, directives ast.DirectiveList) *ast.Definition {
	copied := *definition
	copied.Directives = directives
	return &copied
}

func DefinitionWithFields(definition *ast.Definition, fields ast.FieldList) *ast.Definition {
	copied := *definition
	copied.Fields = fields
	return &copied
}

func FieldWithDirectives(field *ast.FieldDefinition, directives ast.DirectiveList) *ast.FieldDefinition {
	copied := *field
	copied.Directives = directives
	return &copied
}

func ArgumentWithDirectives(argument *ast.ArgumentDefinition, directives ast.DirectiveList) *ast.ArgumentDefinition {
	copied := *argument
	copied.Directives = directives
	return &copied
}

func EnumValueWithDirectives(value *ast.EnumValueDefinition, directives ast.DirectiveList) *ast.EnumValueDefinition {
	copied := *value
	copied.Directives = directives
	return &copied
}

func SchemaWithDirectives(schema *ast.SchemaDefinition, directives ast.DirectiveList) *ast.SchemaDefinition {
	copied := *schema
	copied.Directives = directives
	return &copied
}

// CopyDocument returns a shallow copy of document whose top level lists may be appended to safely
func CopyDocument(document *ast.SchemaDocument) *ast.SchemaDocument {
	return &ast.SchemaDocument{
		Schema:          append(ast.SchemaDefinitionList(nil), document.Schema...),
		SchemaExtension: append(ast.SchemaDefinitionList(nil), document.SchemaExtension...),
		Directives:      append(ast.DirectiveDefinitionList(nil), document.Directives...),
		Definitions:     append(ast.DefinitionList(nil), document.Definitions...),
		Extensions:      append(ast.DefinitionList(nil), document.Extensions...),
		Position:        document.Position,
		Comment:         document.Comment,
	}
}

// Merge concatenates the top level lists of all documents into a new document
func Merge(documents ...*ast.SchemaDocument) *ast.SchemaDocument {
	out := &ast.SchemaDocument{}
	for _, document := range documents {
		if document == nil {
			continue
		}
		out.Merge(document)
	}
	return out
}

// ReplaceDefinition returns a copy of definitions where the definition named like replacement is swapped.
// replacement is appended if no definition has its name.
func ReplaceDefinition(definitions ast.DefinitionList, replacement *ast.Definition) ast.DefinitionList {
	out := make(ast.DefinitionList, 0, len(definitions)+1)
	replaced := false
	for _, definition := range definitions {
		if definition.Name == replacement.Name && !replaced {
			out = append(out, replacement)
			replaced = true
			continue
		}
		out = append(out, definition)
	}
	if !replaced {
		out = append(out, replacement)
	}
	return out
}

func NewDirective(name string, arguments ...*ast.Argument) *ast.Directive {
	return &ast.Directive{
		Name:      name,
		Arguments: arguments,
	}
}

func StringArgument(name, value string) *ast.Argument {
	return &ast.Argument{
		Name:  name,
		Value: &ast.Value{Kind: ast.StringValue, Raw: value},
	}
}

func BooleanArgument(name string, value bool) *ast.Argument {
	return &ast.Argument{
		Name:  name,
		Value: &ast.Value{Kind: ast.BooleanValue, Raw: strconv.FormatBool(value)},
	}
}

func EnumArgument(name, value string) *ast.Argument {
	return &ast.Argument{
		Name:  name,
		Value: &ast.Value{Kind: ast.EnumValue, Raw: value},
	}
}
