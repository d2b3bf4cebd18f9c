package model

import "errors"

var (
	// ErrNotFound signals that a resource is absent or owned by another
	// user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken signals a duplicate registration.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password so responses cannot be used for user enumeration.
	ErrInvalidCredentials = errors.New("Invalid Credentials")
	// ErrInvalidToken signals a missing, malformed, expired or forged token.
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError signals rejected input. The message is safe to surface.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
