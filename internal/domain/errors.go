package domain

import "errors"

var (
	ErrTaskNotFound = errors.New("task not found")

	// ErrSchemaValidation is returned by stores when a record violates a
	// storage-level constraint (e.g. a CHECK on title or duration).
	ErrSchemaValidation = errors.New("schema validation failed")
)

// ValidationError reports invalid client input on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
