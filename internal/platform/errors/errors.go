// Package errors provides structured error handling with HTTP status code mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for logging and response formatting.
type ErrorType string

const (
	// TypeValidation indicates invalid input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeNotFound indicates a missing entity (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeInternal indicates a server-side or store failure (HTTP 500)
	TypeInternal ErrorType = "internal"
)

// Categories sent to clients in the "error" field.
const (
	CategoryValidation = "Validation error"
	CategoryNotFound   = "Task not found"
	CategoryInternal   = "Server error"
)

// GenericInternalMessage replaces the cause of internal errors in client responses.
const GenericInternalMessage = "internal server error"

// Error represents a structured error with type, message, and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Category returns the client-facing error category.
func (e *Error) Category() string {
	switch e.Type {
	case TypeValidation:
		return CategoryValidation
	case TypeNotFound:
		return CategoryNotFound
	default:
		return CategoryInternal
	}
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return &Error{
		Type:    TypeValidation,
		Message: message,
		Context: make(map[string]any),
	}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{
		Type:    TypeNotFound,
		Message: message,
		Context: make(map[string]any),
	}
}

// InternalError creates a new internal error (HTTP 500).
func InternalError(message string, cause error) *Error {
	return &Error{
		Type:    TypeInternal,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WithField adds a context field used when logging the error (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse represents the JSON structure sent to clients.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ToResponse converts an Error to its client representation. Internal errors
// carry a generic message unless exposeDetails is set, in which case the
// cause text is passed through.
func (e *Error) ToResponse(exposeDetails bool) ErrorResponse {
	message := e.Message
	if e.Type == TypeInternal {
		message = GenericInternalMessage
		if exposeDetails && e.Cause != nil {
			message = e.Cause.Error()
		}
	}
	return ErrorResponse{
		Error:   e.Category(),
		Message: message,
	}
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as an internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("unexpected error", err)
}
