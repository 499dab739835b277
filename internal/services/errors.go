package services

import "errors"

var (
	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password; the wording must not reveal which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidToken   = errors.New("invalid or revoked token")
	ErrReportNotFound = errors.New("report not found")
)

// ValidationError rejects malformed input with per-field messages before any
// persistent effect. Handlers render it as a 422.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "The given data was invalid."
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}
