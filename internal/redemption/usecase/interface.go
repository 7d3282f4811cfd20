// Package usecase runs redemption attempts: a scanned token is decoded, the customer is
// looked up for the operator, and a confirmation credits one stamp.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	loyaltyDomain "github.com/nailbliss/stampcard/internal/loyalty/domain"
	redemptionDomain "github.com/nailbliss/stampcard/internal/redemption/domain"
)

// IdentitySource is the identity context a coordinator acts as. *session.Session satisfies it.
type IdentitySource interface {
	Current() (*authDomain.Identity, bool)
}

// LoyaltyService reads customer snapshots and credits stamps.
type LoyaltyService interface {
	Snapshot(ctx context.Context, customerID uuid.UUID) (*loyaltyDomain.CustomerSnapshot, error)
	AddPoint(ctx context.Context, customerID, staffID uuid.UUID) error
}

// ReplayGuard records which attempt holds a scanned token.
type ReplayGuard interface {
	Claim(ctx context.Context, token, owner string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, token, owner string) error
}

// RedemptionUseCase runs one redemption flow per staff member.
type RedemptionUseCase interface {
	// Scan decodes raw and looks up the customer. The attempt then awaits confirmation.
	Scan(ctx context.Context, staff *authDomain.Identity, raw string) (*redemptionDomain.Attempt, error)

	// Current returns the attempt awaiting confirmation, or ErrNoAttempt.
	Current(ctx context.Context, staff *authDomain.Identity) (*redemptionDomain.Attempt, error)

	// Confirm credits the attempt's customer once.
	Confirm(ctx context.Context, staff *authDomain.Identity) (*redemptionDomain.Result, error)

	// Cancel drops the attempt without crediting.
	Cancel(ctx context.Context, staff *authDomain.Identity) (*redemptionDomain.Attempt, error)
}
