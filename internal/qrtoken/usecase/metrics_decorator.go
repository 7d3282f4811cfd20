package usecase

import (
	"context"
	"time"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	"github.com/nailbliss/stampcard/internal/metrics"
)

type presenterUseCaseWithMetrics struct {
	next    PresenterUseCase
	metrics metrics.BusinessMetrics
}

// NewPresenterUseCaseWithMetrics wraps a PresenterUseCase with metrics recording.
func NewPresenterUseCaseWithMetrics(useCase PresenterUseCase, m metrics.BusinessMetrics) PresenterUseCase {
	return &presenterUseCaseWithMetrics{next: useCase, metrics: m}
}

func (p *presenterUseCaseWithMetrics) Issue(ctx context.Context, identity *authDomain.Identity) (*Frame, error) {
	start := time.Now()
	frame, err := p.next.Issue(ctx, identity)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	p.metrics.RecordOperation(ctx, "qrtoken", "issue", status)
	p.metrics.RecordDuration(ctx, "qrtoken", "issue", time.Since(start), status)

	return frame, err
}

func (p *presenterUseCaseWithMetrics) Run(ctx context.Context, source IdentitySource, display Display) error {
	err := p.next.Run(ctx, source, display)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	p.metrics.RecordOperation(ctx, "qrtoken", "present", status)

	return err
}
