// Package service provides business logic for the application.
package service

import "errors"

// Cross-cutting service errors.
var (
	// ErrForbidden is returned when a caller explicitly addresses another
	// user's collection. Single-resource lookups return not-found instead
	// so ownership probes cannot distinguish absent from foreign records.
	ErrForbidden = errors.New("access to this resource is forbidden")
)

// ValidationError carries a user-facing message for rejected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// invalidInput builds a ValidationError.
func invalidInput(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
