package common

import "strings"

// ValidationError carries field-level messages for malformed input. The HTTP
// layer surfaces Details as the "details" array of a 400 response.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation error: " + strings.Join(e.Details, "; ")
}

// NewValidationError builds a ValidationError from one message per violated
// field.
func NewValidationError(details ...string) *ValidationError {
	return &ValidationError{Details: details}
}
