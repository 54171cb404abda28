package totp

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSecret is returned when a secret is not valid Base32.
	ErrInvalidSecret = errors.New("invalid secret")
	// ErrInvalidURI is returned when an otpauth URI cannot be parsed.
	ErrInvalidURI = errors.New("invalid otpauth uri")
	// ErrUnsupportedAlgorithm is returned for algorithms other than SHA1, SHA256 and SHA512.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	// ErrValidationFailed is matched by every *ValidationError.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError reports which account field was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func invalidField(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
