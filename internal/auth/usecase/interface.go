// Package usecase resolves session tokens into identities.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
)

// AccountRepository loads the account behind a session subject.
type AccountRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*authDomain.Account, error)
}

// IdentityUseCase turns bearer tokens into identities.
type IdentityUseCase interface {
	// Resolve verifies the token and loads the account role. Unknown accounts and bad tokens
	// both yield authDomain.ErrInvalidSession.
	Resolve(ctx context.Context, rawToken string) (*authDomain.Identity, error)

	// MintSession issues a session token for an existing account.
	MintSession(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error)
}
