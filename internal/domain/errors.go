package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Every field-level validation error wraps it, so callers can check
	// errors.Is(err, ErrValidation) regardless of the specific cause.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when a task ID is malformed or not positive.
	ErrInvalidID = fmt.Errorf("%w: invalid ID", ErrValidation)
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string // The offending field as it appears on the wire (e.g., "title")
	Message string // Human-readable reason, safe to return to clients
	Err     error  // Underlying sentinel
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
// A ValidationError without an explicit cause unwraps to ErrValidation.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
