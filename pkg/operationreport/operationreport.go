// Package operationreport collects the errors produced while loading, composing and rewriting a schema.
//
// External errors describe a problem with the user's input, internal errors describe a broken invariant
// inside this module.
package operationreport

import (
	"errors"
	"fmt"
)

type Report struct {
	InternalErrors []error
	ExternalErrors []ExternalError
}

func (r Report) Error() string {
	out := ""
	for i := range r.InternalErrors {
		if i != 0 {
			out += "\n"
		}
		out += fmt.Sprintf("internal: %s", r.InternalErrors[i].Error())
	}
	if len(out) > 0 && len(r.ExternalErrors) > 0 {
		out += "\n"
	}
	for i := range r.ExternalErrors {
		if i != 0 {
			out += "\n"
		}
		out += fmt.Sprintf("external: %s, locations: %+v", r.ExternalErrors[i].Message, r.ExternalErrors[i].Locations)
	}
	return out
}

func (r *Report) HasErrors() bool {
	return len(r.InternalErrors) > 0 || len(r.ExternalErrors) > 0
}

// HasInternalErrors reports whether at least one invariant violation was recorded.
func (r *Report) HasInternalErrors() bool {
	return len(r.InternalErrors) > 0
}

func (r *Report) Reset() {
	r.InternalErrors = r.InternalErrors[:0]
	r.ExternalErrors = r.ExternalErrors[:0]
}

func (r *Report) AddInternalError(err error) {
	r.InternalErrors = append(r.InternalErrors, err)
}

func (r *Report) AddExternalError(gqlError ExternalError) {
	r.ExternalErrors = append(r.ExternalErrors, gqlError)
}

// Merge appends all errors of other to r.
func (r *Report) Merge(other Report) {
	r.InternalErrors = append(r.InternalErrors, other.InternalErrors...)
	r.ExternalErrors = append(r.ExternalErrors, other.ExternalErrors...)
}

type FormatExternalErrorMessage func(report *Report) string

func ExternalErrorMessage(err error, formatFunction FormatExternalErrorMessage) (message string, ok bool) {
	var report Report
	if errors.As(err, &report) {
		msg := formatFunction(&report)
		return msg, true
	}
	return "", false
}

// IsInternal reports whether err carries a Report with internal errors.
// Errors that are not a Report are treated as internal as well.
func IsInternal(err error) bool {
	if err == nil {
		return false
	}
	var report Report
	if errors.As(err, &report) {
		return report.HasInternalErrors()
	}
	return true
}

func UnwrappedErrorMessage(err error) string {
	for result := err; result != nil; result = errors.Unwrap(result) {
		err = result
	}
	return err.Error()
}
