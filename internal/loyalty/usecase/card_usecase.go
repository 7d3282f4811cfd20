package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/nailbliss/stampcard/internal/errors"
	loyaltyDomain "github.com/nailbliss/stampcard/internal/loyalty/domain"
)

type cardUseCase struct {
	repo LoyaltyRepository
	now  func() time.Time
}

func (c *cardUseCase) Snapshot(
	ctx context.Context,
	customerID uuid.UUID,
) (*loyaltyDomain.CustomerSnapshot, error) {
	var profile *loyaltyDomain.Profile
	var card *loyaltyDomain.LoyaltyCard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = c.repo.GetProfile(gctx, customerID)
		return err
	})
	g.Go(func() error {
		var err error
		card, err = c.repo.GetLoyaltyCard(gctx, customerID)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, loyaltyDomain.ErrCustomerNotFound) {
			return nil, loyaltyDomain.ErrCustomerNotFound
		}
		return nil, apperrors.Wrapf(loyaltyDomain.ErrLookupFailed, "snapshot %s: %v", customerID, err)
	}

	return &loyaltyDomain.CustomerSnapshot{
		Profile:   profile,
		Card:      card,
		FetchedAt: c.now().UTC(),
	}, nil
}

func (c *cardUseCase) AddPoint(ctx context.Context, customerID, staffID uuid.UUID) error {
	return c.repo.AddLoyaltyPoint(ctx, customerID, staffID)
}

// NewCardUseCase creates a CardUseCase.
func NewCardUseCase(repo LoyaltyRepository) CardUseCase {
	return &cardUseCase{repo: repo, now: time.Now}
}
