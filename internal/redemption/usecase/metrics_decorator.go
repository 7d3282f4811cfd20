package usecase

import (
	"context"
	"time"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	"github.com/nailbliss/stampcard/internal/metrics"
	redemptionDomain "github.com/nailbliss/stampcard/internal/redemption/domain"
)

type redemptionUseCaseWithMetrics struct {
	next    RedemptionUseCase
	metrics metrics.BusinessMetrics
}

// NewRedemptionUseCaseWithMetrics wraps a RedemptionUseCase with metrics recording.
func NewRedemptionUseCaseWithMetrics(useCase RedemptionUseCase, m metrics.BusinessMetrics) RedemptionUseCase {
	return &redemptionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (r *redemptionUseCaseWithMetrics) Scan(
	ctx context.Context,
	staff *authDomain.Identity,
	raw string,
) (*redemptionDomain.Attempt, error) {
	start := time.Now()
	attempt, err := r.next.Scan(ctx, staff, raw)
	r.record(ctx, "scan", start, err)
	return attempt, err
}

func (r *redemptionUseCaseWithMetrics) Current(
	ctx context.Context,
	staff *authDomain.Identity,
) (*redemptionDomain.Attempt, error) {
	return r.next.Current(ctx, staff)
}

func (r *redemptionUseCaseWithMetrics) Confirm(
	ctx context.Context,
	staff *authDomain.Identity,
) (*redemptionDomain.Result, error) {
	start := time.Now()
	result, err := r.next.Confirm(ctx, staff)
	r.record(ctx, "confirm", start, err)
	return result, err
}

func (r *redemptionUseCaseWithMetrics) Cancel(
	ctx context.Context,
	staff *authDomain.Identity,
) (*redemptionDomain.Attempt, error) {
	start := time.Now()
	attempt, err := r.next.Cancel(ctx, staff)
	r.record(ctx, "cancel", start, err)
	return attempt, err
}

func (r *redemptionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	r.metrics.RecordOperation(ctx, "redemption", operation, status)
	r.metrics.RecordDuration(ctx, "redemption", operation, time.Since(start), status)
}
