package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	"github.com/nailbliss/stampcard/internal/metrics"
)

type identityUseCaseWithMetrics struct {
	next    IdentityUseCase
	metrics metrics.BusinessMetrics
}

// NewIdentityUseCaseWithMetrics wraps an IdentityUseCase with metrics recording.
func NewIdentityUseCaseWithMetrics(useCase IdentityUseCase, m metrics.BusinessMetrics) IdentityUseCase {
	return &identityUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (i *identityUseCaseWithMetrics) Resolve(ctx context.Context, rawToken string) (*authDomain.Identity, error) {
	start := time.Now()
	identity, err := i.next.Resolve(ctx, rawToken)
	i.record(ctx, "identity_resolve", start, err)
	return identity, err
}

func (i *identityUseCaseWithMetrics) MintSession(
	ctx context.Context,
	userID uuid.UUID,
	ttl time.Duration,
) (string, error) {
	start := time.Now()
	token, err := i.next.MintSession(ctx, userID, ttl)
	i.record(ctx, "session_mint", start, err)
	return token, err
}

func (i *identityUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	i.metrics.RecordOperation(ctx, "auth", operation, status)
	i.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}
