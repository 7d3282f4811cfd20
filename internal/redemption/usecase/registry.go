package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	"github.com/nailbliss/stampcard/internal/auth/session"
	"github.com/nailbliss/stampcard/internal/metrics"
	qrtokenService "github.com/nailbliss/stampcard/internal/qrtoken/service"
	redemptionDomain "github.com/nailbliss/stampcard/internal/redemption/domain"
	"github.com/nailbliss/stampcard/internal/schedule"
)

const (
	minSweepInterval = time.Second
	maxSweepInterval = time.Minute
)

// Registry keeps one Coordinator per staff member, created on first scan and torn down after
// it has been idle for the configured timeout.
type Registry struct {
	tokens      qrtokenService.TokenService
	loyalty     LoyaltyService
	guard       ReplayGuard
	metrics     metrics.BusinessMetrics
	logger      *slog.Logger
	idleTimeout time.Duration
	now         func() time.Time

	mu      sync.Mutex
	entries map[uuid.UUID]*registryEntry
	closed  bool
	sweeper *schedule.Task
}

type registryEntry struct {
	coordinator *Coordinator
	session     *session.Session
}

// NewRegistry creates a Registry. Call Start to enable idle eviction.
func NewRegistry(
	tokens qrtokenService.TokenService,
	loyalty LoyaltyService,
	guard ReplayGuard,
	businessMetrics metrics.BusinessMetrics,
	idleTimeout time.Duration,
	logger *slog.Logger,
) *Registry {
	r := &Registry{
		tokens:      tokens,
		loyalty:     loyalty,
		guard:       guard,
		metrics:     businessMetrics,
		logger:      logger,
		idleTimeout: idleTimeout,
		now:         time.Now,
		entries:     make(map[uuid.UUID]*registryEntry),
	}
	r.sweeper = schedule.NewTask(sweepInterval(idleTimeout), r.sweep)
	return r
}

// Start runs idle eviction until ctx ends or Close is called.
func (r *Registry) Start(ctx context.Context) {
	r.sweeper.Start(ctx)
}

// Close stops eviction and tears down every coordinator.
func (r *Registry) Close() error {
	r.sweeper.Stop()

	r.mu.Lock()
	r.closed = true
	entries := r.entries
	r.entries = make(map[uuid.UUID]*registryEntry)
	r.mu.Unlock()

	for _, entry := range entries {
		entry.coordinator.Close()
	}
	if len(entries) > 0 {
		r.metrics.AddActiveCoordinators(context.Background(), -int64(len(entries)))
	}
	return nil
}

func (r *Registry) Scan(
	ctx context.Context,
	staff *authDomain.Identity,
	raw string,
) (*redemptionDomain.Attempt, error) {
	coordinator, err := r.coordinator(ctx, staff, true)
	if err != nil {
		return nil, err
	}
	return coordinator.Scan(ctx, raw)
}

func (r *Registry) Current(ctx context.Context, staff *authDomain.Identity) (*redemptionDomain.Attempt, error) {
	coordinator, err := r.coordinator(ctx, staff, false)
	if err != nil {
		return nil, err
	}
	attempt, ok := coordinator.Current()
	if !ok {
		return nil, redemptionDomain.ErrNoAttempt
	}
	return attempt, nil
}

func (r *Registry) Confirm(ctx context.Context, staff *authDomain.Identity) (*redemptionDomain.Result, error) {
	coordinator, err := r.coordinator(ctx, staff, false)
	if err != nil {
		return nil, err
	}
	return coordinator.Confirm(ctx)
}

func (r *Registry) Cancel(ctx context.Context, staff *authDomain.Identity) (*redemptionDomain.Attempt, error) {
	coordinator, err := r.coordinator(ctx, staff, false)
	if err != nil {
		return nil, err
	}
	return coordinator.Cancel(ctx)
}

// coordinator finds the caller's coordinator, creating it when create is set. The caller's
// latest identity replaces the one the coordinator acts as, so a revoked role takes effect
// on the next operation.
func (r *Registry) coordinator(
	ctx context.Context,
	staff *authDomain.Identity,
	create bool,
) (*Coordinator, error) {
	if staff == nil {
		return nil, authDomain.ErrNotSignedIn
	}
	if !staff.Can(authDomain.ScanCapability) {
		return nil, redemptionDomain.ErrStaffOnly
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, redemptionDomain.ErrCoordinatorClosed
	}

	entry, ok := r.entries[staff.ID]
	if !ok {
		if !create {
			return nil, redemptionDomain.ErrNoAttempt
		}
		sess := session.New()
		sess.SignIn(staff)
		coordinator := NewCoordinator(sess, r.tokens, r.loyalty, r.guard, r.metrics, r.logger, r.now)
		entry = &registryEntry{coordinator: coordinator, session: sess}
		r.entries[staff.ID] = entry
		r.metrics.AddActiveCoordinators(ctx, 1)
		return coordinator, nil
	}

	if current, ok := entry.session.Current(); !ok || *current != *staff {
		entry.session.SignIn(staff)
	}
	// A sweep must not close a coordinator that was just handed out.
	entry.coordinator.markActive()
	return entry.coordinator, nil
}

func (r *Registry) sweep(ctx context.Context) {
	r.mu.Lock()
	var idle []*Coordinator
	for id, entry := range r.entries {
		if entry.coordinator.IdleFor(r.idleTimeout) {
			idle = append(idle, entry.coordinator)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, coordinator := range idle {
		coordinator.Close()
	}
	if len(idle) > 0 {
		r.metrics.AddActiveCoordinators(ctx, -int64(len(idle)))
		r.logger.Debug("evicted idle redemption coordinators", slog.Int("count", len(idle)))
	}
}

func sweepInterval(idleTimeout time.Duration) time.Duration {
	interval := idleTimeout / 2
	if interval < minSweepInterval {
		return minSweepInterval
	}
	if interval > maxSweepInterval {
		return maxSweepInterval
	}
	return interval
}
