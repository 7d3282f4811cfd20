// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the request conflicts with the current state of a resource.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated identity doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a remote collaborator failed to complete the operation.
	ErrUnavailable = errors.New("unavailable")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Coded is a domain error carrying a stable machine-readable code and a message
// that is safe to show to an operator or customer. Kind is one of the sentinels
// above and drives the HTTP status mapping.
type Coded struct {
	Kind    error
	Code    string
	Message string
}

// NewCoded creates a coded error of the given kind.
func NewCoded(kind error, code, message string) *Coded {
	return &Coded{Kind: kind, Code: code, Message: message}
}

// Error returns the user-facing message.
func (e *Coded) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel kind to errors.Is.
func (e *Coded) Unwrap() error {
	return e.Kind
}

// Is matches any coded error with the same code, so a coded error rebuilt with
// a more specific message still compares equal to its declared variable.
func (e *Coded) Is(target error) bool {
	t, ok := target.(*Coded)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of the coded error with a different message.
func (e *Coded) WithMessage(message string) *Coded {
	return &Coded{Kind: e.Kind, Code: e.Code, Message: message}
}
