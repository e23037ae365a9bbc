package composition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astprinter"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/operationreport"
)

// validateSubgraph validates source together with the federation declarations it does not declare itself
func validateSubgraph(source *ast.Source, document *ast.SchemaDocument, prelude *ast.SchemaDocument, report *operationreport.Report) bool {
	missing := &ast.SchemaDocument{}
	for _, directive := range prelude.Directives {
		if document.Directives.ForName(directive.Name) == nil {
			missing.Directives = append(missing.Directives, directive)
		}
	}
	for _, definition := range prelude.Definitions {
		if document.Definitions.ForName(definition.Name) == nil {
			missing.Definitions = append(missing.Definitions, definition)
		}
	}

	printed, err := astprinter.PrintString(missing)
	if err != nil {
		report.AddInternalError(fmt.Errorf("print federation prelude: %w", err))
		return false
	}

	if _, err := validator.LoadSchema(validator.Prelude, &ast.Source{Name: "federation_prelude.graphql", Input: printed}, source); err != nil {
		report.AddGQLError(err)
		return false
	}
	return true
}

// validateKeys checks that the field set of every @key selects fields of the annotated type
func validateKeys(document *ast.SchemaDocument, report *operationreport.Report) bool {
	for _, definition := range document.Definitions {
		if definition.Kind != ast.Object && definition.Kind != ast.Interface {
			continue
		}
		for _, directive := range definition.Directives {
			if federationDirectiveName(directive.Name) != keyDirectiveName {
				continue
			}
			fieldSet, ok := stringArgument(directive, fieldsArgument)
			if !ok {
				report.AddExternalError(operationreport.ErrDirectiveArgumentMustBeString(directive.Name, fieldsArgument, definition.Name))
				return false
			}
			if err := validateFieldSet(document, definition, fieldSet); err != nil {
				report.AddExternalError(*err)
				return false
			}
		}
	}
	return true
}

func validateFieldSet(document *ast.SchemaDocument, definition *ast.Definition, fieldSet string) *operationreport.ExternalError {
	if strings.TrimSpace(fieldSet) == "" {
		err := operationreport.ErrKeyFieldSetInvalid(definition.Name, fieldSet, "the field set is empty")
		return &err
	}

	query, parseErr := parser.ParseQuery(&ast.Source{Input: "{" + fieldSet + "}"})
	if parseErr != nil {
		err := operationreport.ErrKeyFieldSetInvalid(definition.Name, fieldSet, syntaxErrorMessage(parseErr))
		return &err
	}
	if len(query.Operations) != 1 || len(query.Fragments) != 0 {
		err := operationreport.ErrKeyFieldSetInvalid(definition.Name, fieldSet, "the field set must be a plain selection")
		return &err
	}

	return validateSelections(document, definition, fieldSet, query.Operations[0].SelectionSet)
}

func validateSelections(document *ast.SchemaDocument, definition *ast.Definition, fieldSet string, selections ast.SelectionSet) *operationreport.ExternalError {
	for _, selection := range selections {
		field, ok := selection.(*ast.Field)
		if !ok || field.Alias != field.Name || len(field.Arguments) != 0 || len(field.Directives) != 0 {
			err := operationreport.ErrKeyFieldSetInvalid(definition.Name, fieldSet, "only fields without alias, arguments and directives may be selected")
			return &err
		}

		fieldDefinition := definition.Fields.ForName(field.Name)
		if fieldDefinition == nil {
			err := operationreport.ErrKeyFieldUndefined(definition.Name, fieldSet, field.Name)
			return &err
		}

		fieldType := document.Definitions.ForName(fieldDefinition.Type.Name())
		composite := fieldType != nil && (fieldType.Kind == ast.Object || fieldType.Kind == ast.Interface)

		switch {
		case composite && len(field.SelectionSet) == 0:
			err := operationreport.ErrKeyFieldSetInvalid(definition.Name, fieldSet, fmt.Sprintf("field '%s' must select sub fields", field.Name))
			return &err
		case !composite && len(field.SelectionSet) != 0:
			err := operationreport.ErrKeyFieldSetInvalid(definition.Name, fieldSet, fmt.Sprintf("field '%s' has no sub fields", field.Name))
			return &err
		case composite:
			if err := validateSelections(document, fieldType, fieldSet, field.SelectionSet); err != nil {
				return err
			}
		}
	}
	return nil
}

func stringArgument(directive *ast.Directive, name string) (string, bool) {
	argument := directive.Arguments.ForName(name)
	if argument == nil || argument.Value == nil {
		return "", false
	}
	if argument.Value.Kind != ast.StringValue && argument.Value.Kind != ast.BlockValue {
		return "", false
	}
	return argument.Value.Raw, true
}

func syntaxErrorMessage(err error) string {
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		return gqlErr.Message
	}
	return err.Error()
}
