package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced user or income record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is the class of all input validation failures.
	ErrValidation = errors.New("validation failed")
	// ErrRendering is returned when an invoice document could not be produced.
	ErrRendering = errors.New("invoice rendering failed")
	// ErrDependencyUnavailable marks failures of an external collaborator such as the record store.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
