package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/store"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrors validator.ValidationErrors

	switch {
	// Not found errors
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrInvalidRequestBody),
		errors.As(err, &validationErrors):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return unexpectedErrorMessage
	}

	var (
		validationErr    *domain.ValidationError
		validationErrors validator.ValidationErrors
	)

	switch {
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return "Task not found"

	case errors.Is(err, shared.ErrInvalidRequestBody):
		return "Invalid request format"

	case errors.As(err, &validationErrors):
		return SanitizeValidationError(validationErrors)

	case errors.As(err, &validationErr):
		if validationErr.Field == "" {
			return "Invalid request: " + validationErr.Message
		}
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid task data"

	default:
		return unexpectedErrorMessage
	}
}

// SanitizeValidationError turns validator errors into a user-friendly message
// naming the first offending JSON field.
func SanitizeValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "Validation error"
	}

	first := validationErrors[0]
	return fmt.Sprintf("Invalid %s: %s", first.Field(), getValidationTagMessage(first.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for err: status from MapErrorToStatusCode,
// body from GetSafeErrorMessage. A non-empty fallback replaces the generic
// message for 5xx responses. The detailed error is only logged.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status >= http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
