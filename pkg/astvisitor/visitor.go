// Package astvisitor walks a schema document and rebuilds it from the changes its visitors return.
//
// The walker never edits the document it is given. Every list that is walked is copied into the
// resulting document; nodes which were not changed by any visitor are shared between the input and
// the output. Visitors registered for the same node are called in registration order, each one
// receiving the node as left by the previous visitor.
package astvisitor

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/operationreport"
)

// Walker visits the nodes of a schema document
type Walker struct {
	// Report holds all errors collected during the last walk
	Report *operationreport.Report

	document                     *ast.SchemaDocument
	stop                         bool
	inExtension                  bool
	index                        int
	enclosingDefinition          *ast.Definition
	enclosingFieldDefinition     *ast.FieldDefinition
	enclosingDirectiveDefinition *ast.DirectiveDefinition

	visitors visitors
}

type visitors struct {
	enterDocument                  []EnterDocumentVisitor
	leaveDocument                  []LeaveDocumentVisitor
	enterSchemaDefinition          []EnterSchemaDefinitionVisitor
	enterDirectiveDefinition       []EnterDirectiveDefinitionVisitor
	enterTypeDefinition            []EnterTypeDefinitionVisitor
	enterObjectTypeDefinition      []EnterObjectTypeDefinitionVisitor
	enterInterfaceTypeDefinition   []EnterInterfaceTypeDefinitionVisitor
	enterUnionTypeDefinition       []EnterUnionTypeDefinitionVisitor
	enterEnumTypeDefinition        []EnterEnumTypeDefinitionVisitor
	enterScalarTypeDefinition      []EnterScalarTypeDefinitionVisitor
	enterInputObjectTypeDefinition []EnterInputObjectTypeDefinitionVisitor
	enterFieldDefinition           []EnterFieldDefinitionVisitor
	enterArgumentDefinition        []EnterArgumentDefinitionVisitor
	enterEnumValueDefinition       []EnterEnumValueDefinitionVisitor
}

// NewWalker returns a walker without any registered visitors
func NewWalker() Walker {
	return Walker{}
}

// EnterDocumentVisitor is called before the walk starts. The document is the walker input.
type EnterDocumentVisitor interface {
	EnterDocument(document *ast.SchemaDocument)
}

// LeaveDocumentVisitor is called with the rebuilt document once all nodes have been walked.
// Returning a replacement is the only way to add top level nodes.
type LeaveDocumentVisitor interface {
	LeaveDocument(document *ast.SchemaDocument) Change[*ast.SchemaDocument]
}

// EnterSchemaDefinitionVisitor is called for schema definitions and schema extensions
type EnterSchemaDefinitionVisitor interface {
	EnterSchemaDefinition(schema *ast.SchemaDefinition) Change[*ast.SchemaDefinition]
}

type EnterDirectiveDefinitionVisitor interface {
	EnterDirectiveDefinition(definition *ast.DirectiveDefinition) Change[*ast.DirectiveDefinition]
}

// EnterTypeDefinitionVisitor is called for every type definition regardless of its kind,
// before any of the kind specific visitors.
type EnterTypeDefinitionVisitor interface {
	EnterTypeDefinition(definition *ast.Definition) Change[*ast.Definition]
}

type EnterObjectTypeDefinitionVisitor interface {
	EnterObjectTypeDefinition(definition *ast.Definition) Change[*ast.Definition]
}

type EnterInterfaceTypeDefinitionVisitor interface {
	EnterInterfaceTypeDefinition(definition *ast.Definition) Change[*ast.Definition]
}

type EnterUnionTypeDefinitionVisitor interface {
	EnterUnionTypeDefinition(definition *ast.Definition) Change[*ast.Definition]
}

type EnterEnumTypeDefinitionVisitor interface {
	EnterEnumTypeDefinition(definition *ast.Definition) Change[*ast.Definition]
}

type EnterScalarTypeDefinitionVisitor interface {
	EnterScalarTypeDefinition(definition *ast.Definition) Change[*ast.Definition]
}

type EnterInputObjectTypeDefinitionVisitor interface {
	EnterInputObjectTypeDefinition(definition *ast.Definition) Change[*ast.Definition]
}

// EnterFieldDefinitionVisitor is called for the fields of objects, interfaces and input objects
type EnterFieldDefinitionVisitor interface {
	EnterFieldDefinition(field *ast.FieldDefinition) Change[*ast.FieldDefinition]
}

// EnterArgumentDefinitionVisitor is called for the arguments of fields and directive definitions
type EnterArgumentDefinitionVisitor interface {
	EnterArgumentDefinition(argument *ast.ArgumentDefinition) Change[*ast.ArgumentDefinition]
}

type EnterEnumValueDefinitionVisitor interface {
	EnterEnumValueDefinition(value *ast.EnumValueDefinition) Change[*ast.EnumValueDefinition]
}

func (w *Walker) RegisterEnterDocumentVisitor(visitor EnterDocumentVisitor) {
	w.visitors.enterDocument = append(w.visitors.enterDocument, visitor)
}

func (w *Walker) RegisterLeaveDocumentVisitor(visitor LeaveDocumentVisitor) {
	w.visitors.leaveDocument = append(w.visitors.leaveDocument, visitor)
}

func (w *Walker) RegisterEnterSchemaDefinitionVisitor(visitor EnterSchemaDefinitionVisitor) {
	w.visitors.enterSchemaDefinition = append(w.visitors.enterSchemaDefinition, visitor)
}

func (w *Walker) RegisterEnterDirectiveDefinitionVisitor(visitor EnterDirectiveDefinitionVisitor) {
	w.visitors.enterDirectiveDefinition = append(w.visitors.enterDirectiveDefinition, visitor)
}

func (w *Walker) RegisterEnterTypeDefinitionVisitor(visitor EnterTypeDefinitionVisitor) {
	w.visitors.enterTypeDefinition = append(w.visitors.enterTypeDefinition, visitor)
}

func (w *Walker) RegisterEnterObjectTypeDefinitionVisitor(visitor EnterObjectTypeDefinitionVisitor) {
	w.visitors.enterObjectTypeDefinition = append(w.visitors.enterObjectTypeDefinition, visitor)
}

func (w *Walker) RegisterEnterInterfaceTypeDefinitionVisitor(visitor EnterInterfaceTypeDefinitionVisitor) {
	w.visitors.enterInterfaceTypeDefinition = append(w.visitors.enterInterfaceTypeDefinition, visitor)
}

func (w *Walker) RegisterEnterUnionTypeDefinitionVisitor(visitor EnterUnionTypeDefinitionVisitor) {
	w.visitors.enterUnionTypeDefinition = append(w.visitors.enterUnionTypeDefinition, visitor)
}

func (w *Walker) RegisterEnterEnumTypeDefinitionVisitor(visitor EnterEnumTypeDefinitionVisitor) {
	w.visitors.enterEnumTypeDefinition = append(w.visitors.enterEnumTypeDefinition, visitor)
}

func (w *Walker) RegisterEnterScalarTypeDefinitionVisitor(visitor EnterScalarTypeDefinitionVisitor) {
	w.visitors.enterScalarTypeDefinition = append(w.visitors.enterScalarTypeDefinition, visitor)
}

func (w *Walker) RegisterEnterInputObjectTypeDefinitionVisitor(visitor EnterInputObjectTypeDefinitionVisitor) {
	w.visitors.enterInputObjectTypeDefinition = append(w.visitors.enterInputObjectTypeDefinition, visitor)
}

func (w *Walker) RegisterEnterFieldDefinitionVisitor(visitor EnterFieldDefinitionVisitor) {
	w.visitors.enterFieldDefinition = append(w.visitors.enterFieldDefinition, visitor)
}

func (w *Walker) RegisterEnterArgumentDefinitionVisitor(visitor EnterArgumentDefinitionVisitor) {
	w.visitors.enterArgumentDefinition = append(w.visitors.enterArgumentDefinition, visitor)
}

func (w *Walker) RegisterEnterEnumValueDefinitionVisitor(visitor EnterEnumValueDefinitionVisitor) {
	w.visitors.enterEnumValueDefinition = append(w.visitors.enterEnumValueDefinition, visitor)
}

// Document returns the document passed to Walk
func (w *Walker) Document() *ast.SchemaDocument {
	return w.document
}

// IsExtension reports whether the node currently visited is part of an extension list
func (w *Walker) IsExtension() bool {
	return w.inExtension
}

// Index returns the position of the current top level node within its list in the input document
func (w *Walker) Index() int {
	return w.index
}

// EnclosingDefinition returns the type definition the current field or enum value belongs to.
// It is nil while no type definition is being walked.
func (w *Walker) EnclosingDefinition() *ast.Definition {
	return w.enclosingDefinition
}

// EnclosingFieldDefinition returns the field the current argument belongs to
func (w *Walker) EnclosingFieldDefinition() *ast.FieldDefinition {
	return w.enclosingFieldDefinition
}

// EnclosingDirectiveDefinition returns the directive definition the current argument belongs to
func (w *Walker) EnclosingDirectiveDefinition() *ast.DirectiveDefinition {
	return w.enclosingDirectiveDefinition
}

// Stop aborts the walk. Walk returns nil after the walk was stopped.
func (w *Walker) Stop() {
	w.stop = true
}

// StopWithInternalErr aborts the walk and records an invariant violation
func (w *Walker) StopWithInternalErr(err error) {
	w.stop = true
	w.Report.AddInternalError(err)
}

// StopWithExternalErr aborts the walk and records an error caused by the input document
func (w *Walker) StopWithExternalErr(err operationreport.ExternalError) {
	w.stop = true
	w.Report.AddExternalError(err)
}

// Walk visits document and returns the rebuilt document.
// If a visitor stopped the walk nil is returned and the reason, if any, is recorded in report.
func (w *Walker) Walk(document *ast.SchemaDocument, report *operationreport.Report) *ast.SchemaDocument {
	if report == nil {
		w.Report = &operationreport.Report{}
	} else {
		w.Report = report
	}
	w.stop = false
	w.document = document

	if document == nil {
		w.StopWithInternalErr(errors.New("walk: document must not be nil"))
		return nil
	}

	for _, visitor := range w.visitors.enterDocument {
		visitor.EnterDocument(document)
		if w.stop {
			return nil
		}
	}

	out := &ast.SchemaDocument{
		Position: document.Position,
		Comment:  document.Comment,
	}

	out.Schema = w.walkSchemaDefinitions(document.Schema, false)
	if w.stop {
		return nil
	}
	out.SchemaExtension = w.walkSchemaDefinitions(document.SchemaExtension, true)
	if w.stop {
		return nil
	}
	out.Directives = w.walkDirectiveDefinitions(document.Directives)
	if w.stop {
		return nil
	}
	out.Definitions = w.walkDefinitions(document.Definitions, false)
	if w.stop {
		return nil
	}
	out.Extensions = w.walkDefinitions(document.Extensions, true)
	if w.stop {
		return nil
	}

	for _, visitor := range w.visitors.leaveDocument {
		next, keep := visitor.LeaveDocument(out).apply(out)
		if w.stop {
			return nil
		}
		if !keep || next == nil {
			w.StopWithInternalErr(errors.New("walk: the document must not be removed"))
			return nil
		}
		out = next
	}

	return out
}

// enter calls every visitor in order and threads the node through their changes.
// It returns false if the node was removed or the walk was stopped.
func enter[T any, V any](w *Walker, node T, visitors []V, call func(V, T) Change[T]) (T, bool) {
	for _, visitor := range visitors {
		next, keep := call(visitor, node).apply(node)
		if w.stop || !keep {
			return node, false
		}
		node = next
	}
	return node, true
}

func (w *Walker) walkSchemaDefinitions(schemas ast.SchemaDefinitionList, extension bool) ast.SchemaDefinitionList {
	w.inExtension = extension
	defer func() { w.inExtension = false }()

	out := make(ast.SchemaDefinitionList, 0, len(schemas))
	for i, schema := range schemas {
		w.index = i
		current, keep := enter(w, schema, w.visitors.enterSchemaDefinition, EnterSchemaDefinitionVisitor.EnterSchemaDefinition)
		if w.stop {
			return nil
		}
		if keep {
			out = append(out, current)
		}
	}
	return out
}

func (w *Walker) walkDirectiveDefinitions(definitions ast.DirectiveDefinitionList) ast.DirectiveDefinitionList {
	out := make(ast.DirectiveDefinitionList, 0, len(definitions))
	for i, definition := range definitions {
		w.index = i
		current, keep := enter(w, definition, w.visitors.enterDirectiveDefinition, EnterDirectiveDefinitionVisitor.EnterDirectiveDefinition)
		if w.stop {
			return nil
		}
		if !keep {
			continue
		}

		w.enclosingDirectiveDefinition = current
		arguments, changed := w.walkArgumentDefinitions(current.Arguments)
		w.enclosingDirectiveDefinition = nil
		if w.stop {
			return nil
		}
		if changed {
			copied := *current
			copied.Arguments = arguments
			current = &copied
		}
		out = append(out, current)
	}
	return out
}

func (w *Walker) walkDefinitions(definitions ast.DefinitionList, extension bool) ast.DefinitionList {
	w.inExtension = extension
	defer func() { w.inExtension = false }()

	out := make(ast.DefinitionList, 0, len(definitions))
	for i, definition := range definitions {
		w.index = i
		current, keep := w.walkDefinition(definition)
		if w.stop {
			return nil
		}
		if keep {
			out = append(out, current)
		}
	}
	return out
}

func (w *Walker) walkDefinition(definition *ast.Definition) (*ast.Definition, bool) {
	current, keep := enter(w, definition, w.visitors.enterTypeDefinition, EnterTypeDefinitionVisitor.EnterTypeDefinition)
	if !keep {
		return definition, false
	}

	switch current.Kind {
	case ast.Object:
		current, keep = enter(w, current, w.visitors.enterObjectTypeDefinition, EnterObjectTypeDefinitionVisitor.EnterObjectTypeDefinition)
	case ast.Interface:
		current, keep = enter(w, current, w.visitors.enterInterfaceTypeDefinition, EnterInterfaceTypeDefinitionVisitor.EnterInterfaceTypeDefinition)
	case ast.Union:
		current, keep = enter(w, current, w.visitors.enterUnionTypeDefinition, EnterUnionTypeDefinitionVisitor.EnterUnionTypeDefinition)
	case ast.Enum:
		current, keep = enter(w, current, w.visitors.enterEnumTypeDefinition, EnterEnumTypeDefinitionVisitor.EnterEnumTypeDefinition)
	case ast.Scalar:
		current, keep = enter(w, current, w.visitors.enterScalarTypeDefinition, EnterScalarTypeDefinitionVisitor.EnterScalarTypeDefinition)
	case ast.InputObject:
		current, keep = enter(w, current, w.visitors.enterInputObjectTypeDefinition, EnterInputObjectTypeDefinitionVisitor.EnterInputObjectTypeDefinition)
	default:
		w.StopWithInternalErr(fmt.Errorf("walk: type '%s' has unknown kind '%s'", current.Name, current.Kind))
		return definition, false
	}
	if !keep {
		return definition, false
	}

	return w.walkDefinitionChildren(current), true
}

func (w *Walker) walkDefinitionChildren(definition *ast.Definition) *ast.Definition {
	w.enclosingDefinition = definition
	defer func() { w.enclosingDefinition = nil }()

	fields, fieldsChanged := w.walkFieldDefinitions(definition.Fields)
	if w.stop {
		return definition
	}
	enumValues, enumValuesChanged := w.walkEnumValueDefinitions(definition.EnumValues)
	if w.stop {
		return definition
	}
	if !fieldsChanged && !enumValuesChanged {
		return definition
	}

	copied := *definition
	copied.Fields = fields
	copied.EnumValues = enumValues
	return &copied
}

func (w *Walker) walkFieldDefinitions(fields ast.FieldList) (ast.FieldList, bool) {
	if len(fields) == 0 || (len(w.visitors.enterFieldDefinition) == 0 && len(w.visitors.enterArgumentDefinition) == 0) {
		return fields, false
	}

	changed := false
	out := make(ast.FieldList, 0, len(fields))
	for _, field := range fields {
		current, keep := enter(w, field, w.visitors.enterFieldDefinition, EnterFieldDefinitionVisitor.EnterFieldDefinition)
		if w.stop {
			return fields, false
		}
		if !keep {
			changed = true
			continue
		}

		w.enclosingFieldDefinition = current
		arguments, argumentsChanged := w.walkArgumentDefinitions(current.Arguments)
		w.enclosingFieldDefinition = nil
		if w.stop {
			return fields, false
		}
		if argumentsChanged {
			copied := *current
			copied.Arguments = arguments
			current = &copied
		}

		if current != field {
			changed = true
		}
		out = append(out, current)
	}
	return out, changed
}

func (w *Walker) walkArgumentDefinitions(arguments ast.ArgumentDefinitionList) (ast.ArgumentDefinitionList, bool) {
	if len(arguments) == 0 || len(w.visitors.enterArgumentDefinition) == 0 {
		return arguments, false
	}

	changed := false
	out := make(ast.ArgumentDefinitionList, 0, len(arguments))
	for _, argument := range arguments {
		current, keep := enter(w, argument, w.visitors.enterArgumentDefinition, EnterArgumentDefinitionVisitor.EnterArgumentDefinition)
		if w.stop {
			return arguments, false
		}
		if !keep {
			changed = true
			continue
		}
		if current != argument {
			changed = true
		}
		out = append(out, current)
	}
	return out, changed
}

func (w *Walker) walkEnumValueDefinitions(values ast.EnumValueList) (ast.EnumValueList, bool) {
	if len(values) == 0 || len(w.visitors.enterEnumValueDefinition) == 0 {
		return values, false
	}

	changed := false
	out := make(ast.EnumValueList, 0, len(values))
	for _, value := range values {
		current, keep := enter(w, value, w.visitors.enterEnumValueDefinition, EnterEnumValueDefinitionVisitor.EnterEnumValueDefinition)
		if w.stop {
			return values, false
		}
		if !keep {
			changed = true
			continue
		}
		if current != value {
			changed = true
		}
		out = append(out, current)
	}
	return out, changed
}
