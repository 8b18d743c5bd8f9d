package repository

import (
	"errors"
)

// ErrNotFound is returned when a record does not exist or is owned by a
// different user. Callers cannot tell the two apart.
var ErrNotFound = errors.New("record not found")

// ValidationError reports an invalid or missing field on a write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
