package usecase

import (
	"context"
	"sync"
	"time"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	qrtokenService "github.com/nailbliss/stampcard/internal/qrtoken/service"
	"github.com/nailbliss/stampcard/internal/qrtoken/render"
	"github.com/nailbliss/stampcard/internal/schedule"
)

// DefaultCountdownInterval is the countdown granularity.
const DefaultCountdownInterval = time.Second

type presenterUseCase struct {
	tokens            qrtokenService.TokenService
	renderer          render.Renderer
	refreshInterval   time.Duration
	countdownInterval time.Duration
}

// PresenterOption customises a presenter.
type PresenterOption func(*presenterUseCase)

// WithRefreshInterval overrides the refresh cadence, which defaults to the freshness window.
func WithRefreshInterval(d time.Duration) PresenterOption {
	return func(p *presenterUseCase) { p.refreshInterval = d }
}

// WithCountdownInterval overrides the one second countdown tick.
func WithCountdownInterval(d time.Duration) PresenterOption {
	return func(p *presenterUseCase) { p.countdownInterval = d }
}

// NewPresenterUseCase creates a PresenterUseCase.
func NewPresenterUseCase(
	tokens qrtokenService.TokenService,
	renderer render.Renderer,
	opts ...PresenterOption,
) PresenterUseCase {
	p := &presenterUseCase{
		tokens:            tokens,
		renderer:          renderer,
		refreshInterval:   tokens.Policy().Window,
		countdownInterval: DefaultCountdownInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *presenterUseCase) Issue(ctx context.Context, identity *authDomain.Identity) (*Frame, error) {
	if identity == nil {
		return nil, authDomain.ErrNotSignedIn
	}
	if !identity.Can(authDomain.PresentCapability) {
		return nil, authDomain.ErrCapabilityDenied
	}

	raw, token, err := p.tokens.Issue(identity.ID.String())
	if err != nil {
		return nil, err
	}
	image, err := p.renderer.Render(raw)
	if err != nil {
		return nil, err
	}

	return &Frame{
		Token:     raw,
		Image:     image,
		IssuedAt:  token.IssuedAt,
		ExpiresAt: p.tokens.Policy().ExpiresAt(token),
	}, nil
}

func (p *presenterUseCase) Run(ctx context.Context, source IdentitySource, display Display) error {
	// Read Changed before Current so a sign-out between the two is not missed.
	changed := source.Changed()
	identity, ok := source.Current()
	if !ok {
		return authDomain.ErrNotSignedIn
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu        sync.Mutex
		remaining time.Duration
		failOnce  sync.Once
		runErr    error
	)
	fail := func(err error) {
		failOnce.Do(func() { runErr = err })
		cancel()
	}

	show := func(ctx context.Context) error {
		frame, err := p.Issue(ctx, identity)
		if err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		remaining = p.refreshInterval
		if err := display.ShowToken(ctx, frame); err != nil {
			return err
		}
		return display.ShowCountdown(ctx, remaining)
	}

	if err := show(runCtx); err != nil {
		return err
	}

	countdown := schedule.NewTask(p.countdownInterval, func(ctx context.Context) {
		mu.Lock()
		defer mu.Unlock()
		remaining = max(remaining-p.countdownInterval, 0)
		if err := display.ShowCountdown(ctx, remaining); err != nil {
			fail(err)
		}
	})
	refresh := schedule.NewTask(p.refreshInterval, func(ctx context.Context) {
		if err := show(ctx); err != nil {
			fail(err)
			return
		}
		countdown.Reset()
	})

	refresh.Start(runCtx)
	countdown.Start(runCtx)

	select {
	case <-runCtx.Done():
	case <-changed:
	}

	cancel()
	refresh.Stop()
	countdown.Stop()

	return runErr
}
