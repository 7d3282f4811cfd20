package domain

import (
	"github.com/nailbliss/stampcard/internal/errors"
)

// Invalid and expired tokens share the operator-facing message; the code tells them apart.
var (
	// ErrMalformedToken indicates a string that is not a token this service issued.
	ErrMalformedToken = errors.NewCoded(errors.ErrInvalidInput, "invalid_code", "Invalid or expired code")

	// ErrExpiredToken indicates a well-formed token older than the freshness window.
	ErrExpiredToken = errors.NewCoded(errors.ErrInvalidInput, "expired_code", "Invalid or expired code")

	// ErrUnknownFormat indicates a configured token format outside the known set.
	ErrUnknownFormat = errors.Wrap(errors.ErrInvalidInput, "unknown token format")

	// ErrInvalidPolicy indicates a freshness window or clock skew that cannot be enforced.
	ErrInvalidPolicy = errors.Wrap(errors.ErrInvalidInput, "invalid token freshness policy")

	// ErrInvalidKey indicates sealing key material of the wrong size or encoding.
	ErrInvalidKey = errors.Wrap(errors.ErrInvalidInput, "invalid token sealing key")
)
