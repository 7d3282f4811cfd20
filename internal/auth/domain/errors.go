package domain

import (
	"github.com/nailbliss/stampcard/internal/errors"
)

// Identity errors.
var (
	// ErrInvalidSession indicates a missing, malformed, expired or unverifiable session token.
	ErrInvalidSession = errors.Wrap(errors.ErrUnauthorized, "invalid session")

	// ErrNotSignedIn indicates an operation that needs an identity ran without one.
	ErrNotSignedIn = errors.Wrap(errors.ErrUnauthorized, "not signed in")

	// ErrAccountNotFound indicates no profile exists for the session subject.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrCapabilityDenied indicates the identity's role lacks the required capability.
	ErrCapabilityDenied = errors.Wrap(errors.ErrForbidden, "capability denied")

	// ErrUnknownRole indicates a stored role tag outside the known set.
	ErrUnknownRole = errors.Wrap(errors.ErrInvalidInput, "unknown role")
)
