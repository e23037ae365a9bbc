package operationreport

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ExternalError is an error caused by the input schema.
type ExternalError struct {
	Message   string     `json:"message"`
	Locations []Location `json:"locations,omitempty"`
}

func (e ExternalError) Error() string {
	return e.Message
}

// LocationsFromGQLError converts the locations of a gqlparser error.
func LocationsFromGQLError(err *gqlerror.Error) []Location {
	if err == nil || len(err.Locations) == 0 {
		return nil
	}
	locations := make([]Location, 0, len(err.Locations))
	for _, location := range err.Locations {
		locations = append(locations, Location{
			Line:   location.Line,
			Column: location.Column,
		})
	}
	return locations
}

// AddGQLError records the errors returned by the gqlparser parser or validator as external errors.
// Errors of any other type are recorded as internal errors.
func (r *Report) AddGQLError(err error) {
	if err == nil {
		return
	}

	var list gqlerror.List
	if errors.As(err, &list) {
		for _, gqlErr := range list {
			r.addGQLError(gqlErr)
		}
		return
	}

	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		r.addGQLError(gqlErr)
		return
	}

	r.AddInternalError(err)
}

func (r *Report) addGQLError(err *gqlerror.Error) {
	if err == nil {
		return
	}
	r.AddExternalError(ExternalError{
		Message:   err.Message,
		Locations: LocationsFromGQLError(err),
	})
}

func ErrSynthesizedTypeCollision(typeName string) (err ExternalError) {
	err.Message = fmt.Sprintf("type '%s' is reserved for the federation subgraph schema and must not be declared by the supergraph", typeName)
	return err
}

func ErrSynthesizedDirectiveCollision(directiveName string) (err ExternalError) {
	err.Message = fmt.Sprintf("directive '@%s' is reserved for the federation subgraph schema and must not be declared by the supergraph", directiveName)
	return err
}

func ErrSynthesizedFieldCollision(typeName, fieldName string) (err ExternalError) {
	err.Message = fmt.Sprintf("field '%s.%s' is reserved for the federation subgraph schema and must not be declared by the supergraph", typeName, fieldName)
	return err
}

func ErrSynthesizedTypeKindMismatch(typeName, expectedKind, actualKind string) (err ExternalError) {
	err.Message = fmt.Sprintf("type '%s' must be of kind %s to receive federation fields, got %s", typeName, expectedKind, actualKind)
	return err
}

func ErrKeyFieldSetInvalid(typeName, fieldSet, reason string) (err ExternalError) {
	err.Message = fmt.Sprintf("@key(fields: \"%s\") on type '%s' is invalid: %s", fieldSet, typeName, reason)
	return err
}

func ErrKeyFieldUndefined(typeName, fieldSet, fieldName string) (err ExternalError) {
	err.Message = fmt.Sprintf("@key(fields: \"%s\") on type '%s' references undefined field '%s'", fieldSet, typeName, fieldName)
	return err
}

func ErrDirectiveArgumentMustBeString(directiveName, argumentName, typeName string) (err ExternalError) {
	err.Message = fmt.Sprintf("argument '%s' of @%s on '%s' must be a string", argumentName, directiveName, typeName)
	return err
}

func ErrExtensionOrphansMustResolveInSupergraph(typeName string) (err ExternalError) {
	err.Message = fmt.Sprintf("the extension of type '%s' has no base type definition", typeName)
	return err
}

func ErrEmptySchema() (err ExternalError) {
	err.Message = "the schema does not declare any type"
	return err
}

func ErrInvalidGraphName(graphName string) (err ExternalError) {
	err.Message = fmt.Sprintf("graph name '%s' does not form a valid GraphQL enum value", graphName)
	return err
}

func ErrNotASupergraph() (err ExternalError) {
	err.Message = "the schema is not a supergraph, it does not declare the @join__type directive"
	return err
}
