package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	apperrors "github.com/nailbliss/stampcard/internal/errors"
	loyaltyDomain "github.com/nailbliss/stampcard/internal/loyalty/domain"
	"github.com/nailbliss/stampcard/internal/metrics"
	qrtokenDomain "github.com/nailbliss/stampcard/internal/qrtoken/domain"
	qrtokenService "github.com/nailbliss/stampcard/internal/qrtoken/service"
	redemptionDomain "github.com/nailbliss/stampcard/internal/redemption/domain"
)

// Token age outcomes.
const (
	tokenFresh     = "fresh"
	tokenExpired   = "expired"
	tokenMalformed = "malformed"
)

// Coordinator drives one operator's redemption attempts. At most one operation is in flight
// at a time; a scan never interleaves with a lookup or a credit.
type Coordinator struct {
	identity IdentitySource
	tokens   qrtokenService.TokenService
	loyalty  LoyaltyService
	guard    ReplayGuard
	metrics  metrics.BusinessMetrics
	logger   *slog.Logger
	now      func() time.Time

	mu           sync.Mutex
	state        redemptionDomain.State
	attempt      *redemptionDomain.Attempt
	closed       bool
	lastActivity time.Time

	credits sync.WaitGroup
}

// NewCoordinator creates an idle Coordinator acting as the identity in source and reading time
// from now.
func NewCoordinator(
	identity IdentitySource,
	tokens qrtokenService.TokenService,
	loyalty LoyaltyService,
	guard ReplayGuard,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
	now func() time.Time,
) *Coordinator {
	return &Coordinator{
		identity:     identity,
		tokens:       tokens,
		loyalty:      loyalty,
		guard:        guard,
		metrics:      businessMetrics,
		logger:       logger,
		now:          now,
		state:        redemptionDomain.StateIdle,
		lastActivity: now(),
	}
}

// Scan decodes raw, claims the token and looks up the customer. On success the attempt awaits
// confirmation; on any failure the coordinator is idle again.
func (c *Coordinator) Scan(ctx context.Context, raw string) (*redemptionDomain.Attempt, error) {
	staff, err := c.beginScan()
	if err != nil {
		return nil, err
	}

	raw = strings.TrimSpace(raw)
	token, age, err := c.decode(ctx, raw)
	if err != nil {
		c.abandon()
		return nil, err
	}

	customerID, err := uuid.Parse(token.CustomerID)
	if err != nil {
		c.abandon()
		return nil, qrtokenDomain.ErrMalformedToken
	}

	attemptID := uuid.Must(uuid.NewV7())
	policy := c.tokens.Policy()
	claimed, err := c.guard.Claim(ctx, raw, attemptID.String(), policy.Window+policy.MaxSkew)
	if err != nil {
		c.abandon()
		return nil, err
	}
	if !claimed {
		c.abandon()
		return nil, redemptionDomain.ErrTokenAlreadyUsed
	}

	if !c.advance(redemptionDomain.StateDecoding, redemptionDomain.StateResolvingCustomer) {
		c.release(ctx, raw, attemptID)
		return nil, redemptionDomain.ErrCoordinatorClosed
	}

	snapshot, err := c.loyalty.Snapshot(ctx, customerID)
	if err != nil {
		c.release(ctx, raw, attemptID)
		c.abandon()
		return nil, err
	}

	attempt := &redemptionDomain.Attempt{
		ID:         attemptID,
		CustomerID: customerID,
		StaffID:    staff.ID,
		Status:     redemptionDomain.StatusPendingConfirmation,
		IssuedAt:   token.IssuedAt,
		TokenAge:   age,
		ScannedAt:  c.now().UTC(),
		Snapshot:   snapshot,
		Token:      raw,
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.release(ctx, raw, attemptID)
		return nil, redemptionDomain.ErrCoordinatorClosed
	}
	c.state = redemptionDomain.StateAwaitingConfirmation
	c.attempt = attempt
	c.touch()
	c.mu.Unlock()

	c.logger.Info("redemption awaiting confirmation",
		slog.String("attempt_id", attemptID.String()),
		slog.String("customer_id", customerID.String()),
		slog.String("staff_id", staff.ID.String()),
		slog.Duration("token_age", age))
	return attempt.Clone(), nil
}

// Confirm credits the pending attempt's customer exactly once. The credit is not cancelled
// with ctx: if ctx ends first Confirm returns ctx.Err() and the credit's outcome is still
// applied when it arrives. A failed credit leaves the attempt awaiting confirmation so the
// operator may retry; an authorization failure ends the attempt.
func (c *Coordinator) Confirm(ctx context.Context) (*redemptionDomain.Result, error) {
	c.mu.Lock()
	if err := c.pendingLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}

	staff, ok := c.identity.Current()
	if !ok || !staff.Can(authDomain.CreditCapability) {
		attempt := c.endLocked(redemptionDomain.StatusFailed)
		c.mu.Unlock()
		c.release(ctx, attempt.Token, attempt.ID)
		return nil, loyaltyDomain.ErrStaffNotAuthorized
	}

	c.state = redemptionDomain.StateCrediting
	attempt := c.attempt.Clone()
	c.touch()
	c.credits.Add(1)
	c.mu.Unlock()

	done := make(chan creditOutcome, 1)
	go func() {
		defer c.credits.Done()
		done <- c.credit(context.WithoutCancel(ctx), attempt, staff.ID)
	}()

	select {
	case outcome := <-done:
		return outcome.result, outcome.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel drops the pending attempt. No stamp is credited.
func (c *Coordinator) Cancel(ctx context.Context) (*redemptionDomain.Attempt, error) {
	c.mu.Lock()
	if err := c.pendingLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	attempt := c.endLocked(redemptionDomain.StatusCancelled)
	c.mu.Unlock()

	c.release(ctx, attempt.Token, attempt.ID)
	c.logger.Info("redemption cancelled",
		slog.String("attempt_id", attempt.ID.String()),
		slog.String("customer_id", attempt.CustomerID.String()))
	return attempt, nil
}

// Current returns a copy of the attempt awaiting or undergoing confirmation.
func (c *Coordinator) Current() (*redemptionDomain.Attempt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attempt == nil {
		return nil, false
	}
	return c.attempt.Clone(), true
}

// State returns the current state.
func (c *Coordinator) State() redemptionDomain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IdleFor reports whether nothing is in flight and nothing has happened for at least d.
func (c *Coordinator) IdleFor(d time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.state.Busy() && c.now().Sub(c.lastActivity) >= d
}

// Close tears the coordinator down and waits for an outstanding credit to finish. Outcomes
// that arrive after Close are not applied. Safe to call more than once.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	c.state = redemptionDomain.StateIdle
	c.attempt = nil
	c.mu.Unlock()

	c.credits.Wait()
}

type creditOutcome struct {
	result *redemptionDomain.Result
	err    error
}

func (c *Coordinator) credit(
	ctx context.Context,
	attempt *redemptionDomain.Attempt,
	staffID uuid.UUID,
) creditOutcome {
	err := c.loyalty.AddPoint(ctx, attempt.CustomerID, staffID)
	authFailure := errors.Is(err, loyaltyDomain.ErrStaffNotAuthorized)

	switch {
	case err == nil:
		attempt.Status = redemptionDomain.StatusConfirmed
	case authFailure:
		attempt.Status = redemptionDomain.StatusFailed
		attempt.LastError = userMessage(err)
	default:
		attempt.LastError = userMessage(err)
	}

	c.mu.Lock()
	live := !c.closed && c.attempt != nil && c.attempt.ID == attempt.ID
	if live {
		if err != nil && !authFailure {
			c.attempt.LastError = attempt.LastError
			c.state = redemptionDomain.StateAwaitingConfirmation
		} else {
			c.attempt = nil
			c.state = redemptionDomain.StateIdle
		}
		c.touch()
	}
	c.mu.Unlock()

	logger := c.logger.With(
		slog.String("attempt_id", attempt.ID.String()),
		slog.String("customer_id", attempt.CustomerID.String()),
		slog.String("staff_id", staffID.String()),
		slog.Bool("applied", live))

	if err != nil {
		logger.Warn("redemption credit failed", slog.Any("error", err))
		if authFailure {
			c.release(ctx, attempt.Token, attempt.ID)
		}
		return creditOutcome{err: err}
	}
	logger.Info("redemption credited")

	// The pre-credit snapshot is stale now.
	snapshot, err := c.loyalty.Snapshot(ctx, attempt.CustomerID)
	if err != nil {
		logger.Warn("failed to refresh customer after credit", slog.Any("error", err))
		snapshot = nil
	}
	return creditOutcome{result: &redemptionDomain.Result{Attempt: attempt, Snapshot: snapshot}}
}

func (c *Coordinator) beginScan() (*authDomain.Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return nil, redemptionDomain.ErrCoordinatorClosed
	case c.state.Busy():
		return nil, redemptionDomain.ErrRedemptionBusy
	case c.state == redemptionDomain.StateAwaitingConfirmation:
		return nil, redemptionDomain.ErrAttemptPending
	}

	staff, ok := c.identity.Current()
	if !ok {
		return nil, authDomain.ErrNotSignedIn
	}
	if !staff.Can(authDomain.ScanCapability) {
		return nil, redemptionDomain.ErrStaffOnly
	}

	c.state = redemptionDomain.StateDecoding
	c.touch()
	return staff, nil
}

// decode applies the freshness policy at the moment of decoding and records the token's age.
func (c *Coordinator) decode(ctx context.Context, raw string) (*qrtokenDomain.Token, time.Duration, error) {
	token, err := c.tokens.Parse(raw)
	if err != nil {
		c.metrics.RecordTokenAge(ctx, tokenMalformed, 0)
		return nil, 0, err
	}

	now := c.now()
	age := token.Age(now)
	if err := c.tokens.Policy().Check(token, now); err != nil {
		outcome := tokenExpired
		if errors.Is(err, qrtokenDomain.ErrMalformedToken) {
			outcome = tokenMalformed
		}
		c.metrics.RecordTokenAge(ctx, outcome, max(age, 0))
		return nil, 0, err
	}

	c.metrics.RecordTokenAge(ctx, tokenFresh, max(age, 0))
	return token, age, nil
}

func (c *Coordinator) advance(from, to redemptionDomain.State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state != from {
		return false
	}
	c.state = to
	c.touch()
	return true
}

func (c *Coordinator) abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = redemptionDomain.StateIdle
	c.touch()
}

// pendingLocked checks that an attempt awaits confirmation. c.mu must be held.
func (c *Coordinator) pendingLocked() error {
	switch {
	case c.closed:
		return redemptionDomain.ErrCoordinatorClosed
	case c.state.Busy():
		return redemptionDomain.ErrRedemptionBusy
	case c.attempt == nil:
		return redemptionDomain.ErrNoAttempt
	}
	return nil
}

// endLocked finishes the pending attempt with status. c.mu must be held.
func (c *Coordinator) endLocked(status redemptionDomain.Status) *redemptionDomain.Attempt {
	attempt := c.attempt
	attempt.Status = status
	c.attempt = nil
	c.state = redemptionDomain.StateIdle
	c.touch()
	return attempt
}

func (c *Coordinator) release(ctx context.Context, token string, attemptID uuid.UUID) {
	if err := c.guard.Release(ctx, token, attemptID.String()); err != nil {
		c.logger.Warn("failed to release token claim",
			slog.String("attempt_id", attemptID.String()),
			slog.Any("error", err))
	}
}

// touch records activity. c.mu must be held.
func (c *Coordinator) touch() {
	c.lastActivity = c.now()
}

func (c *Coordinator) markActive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
}

func userMessage(err error) string {
	var coded *apperrors.Coded
	if apperrors.As(err, &coded) {
		return coded.Message
	}
	return loyaltyDomain.ErrCreditFailed.Message
}
