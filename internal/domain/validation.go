package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NormalizeTitle trims surrounding whitespace and rejects blank titles.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", newValidationError("title", "title must not be blank")
	}
	return trimmed, nil
}

// ParseID parses an identifier in the store-native UUID format.
func ParseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// RequiredFieldError reports a missing required field.
func RequiredFieldError(field string) *ValidationError {
	return newValidationError(field, field+" is required")
}

// InvalidFieldError reports a field that is present but malformed.
func InvalidFieldError(field, reason string) *ValidationError {
	return newValidationError(field, field+" "+reason)
}
