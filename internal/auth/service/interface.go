// Package service verifies and mints the session tokens the authentication provider hands to
// signed-in users.
package service

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
)

// SessionTokenService verifies session tokens and, for development tooling, mints them.
type SessionTokenService interface {
	// Verify checks signature, expiry and the configured issuer and audience.
	// Any failure is reported as authDomain.ErrInvalidSession.
	Verify(rawToken string) (*authDomain.SessionClaims, error)

	// Mint signs a token for userID valid for ttl.
	Mint(userID uuid.UUID, email string, ttl time.Duration) (string, error)
}
