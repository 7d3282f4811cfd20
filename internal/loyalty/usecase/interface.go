// Package usecase reads customer snapshots for display and credits stamps.
package usecase

import (
	"context"

	"github.com/google/uuid"

	loyaltyDomain "github.com/nailbliss/stampcard/internal/loyalty/domain"
)

// LoyaltyRepository is the loyalty store.
type LoyaltyRepository interface {
	GetProfile(ctx context.Context, customerID uuid.UUID) (*loyaltyDomain.Profile, error)
	GetLoyaltyCard(ctx context.Context, customerID uuid.UUID) (*loyaltyDomain.LoyaltyCard, error)
	AddLoyaltyPoint(ctx context.Context, customerID, staffID uuid.UUID) error
}

// CardUseCase reads and credits stamp cards.
type CardUseCase interface {
	// Snapshot reads the customer's profile and card. A missing profile is
	// ErrCustomerNotFound; a missing card is the zero card.
	Snapshot(ctx context.Context, customerID uuid.UUID) (*loyaltyDomain.CustomerSnapshot, error)

	// AddPoint credits one stamp. It is never retried.
	AddPoint(ctx context.Context, customerID, staffID uuid.UUID) error
}
