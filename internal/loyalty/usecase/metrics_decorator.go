package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	loyaltyDomain "github.com/nailbliss/stampcard/internal/loyalty/domain"
	"github.com/nailbliss/stampcard/internal/metrics"
)

type cardUseCaseWithMetrics struct {
	next    CardUseCase
	metrics metrics.BusinessMetrics
}

// NewCardUseCaseWithMetrics wraps a CardUseCase with metrics recording.
func NewCardUseCaseWithMetrics(useCase CardUseCase, m metrics.BusinessMetrics) CardUseCase {
	return &cardUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *cardUseCaseWithMetrics) Snapshot(
	ctx context.Context,
	customerID uuid.UUID,
) (*loyaltyDomain.CustomerSnapshot, error) {
	start := time.Now()
	snapshot, err := c.next.Snapshot(ctx, customerID)
	c.record(ctx, "snapshot", start, err)
	return snapshot, err
}

func (c *cardUseCaseWithMetrics) AddPoint(ctx context.Context, customerID, staffID uuid.UUID) error {
	start := time.Now()
	err := c.next.AddPoint(ctx, customerID, staffID)
	c.record(ctx, "add_point", start, err)
	return err
}

func (c *cardUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	c.metrics.RecordOperation(ctx, "loyalty", operation, status)
	c.metrics.RecordDuration(ctx, "loyalty", operation, time.Since(start), status)
}
