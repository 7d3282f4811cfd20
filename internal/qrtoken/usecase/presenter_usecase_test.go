package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	"github.com/nailbliss/stampcard/internal/auth/session"
	qrtokenDomain "github.com/nailbliss/stampcard/internal/qrtoken/domain"
	qrtokenService "github.com/nailbliss/stampcard/internal/qrtoken/service"
	"github.com/nailbliss/stampcard/internal/qrtoken/render"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingDisplay struct {
	mu         sync.Mutex
	frames     []*Frame
	countdowns []time.Duration
	failAfter  int
	inFlight   int
	overlapped bool
}

func (d *recordingDisplay) enter() {
	d.mu.Lock()
	d.inFlight++
	if d.inFlight > 1 {
		d.overlapped = true
	}
	d.mu.Unlock()
}

func (d *recordingDisplay) leave() {
	d.mu.Lock()
	d.inFlight--
	d.mu.Unlock()
}

func (d *recordingDisplay) ShowToken(ctx context.Context, frame *Frame) error {
	d.enter()
	defer d.leave()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, frame)
	if d.failAfter > 0 && len(d.frames) >= d.failAfter {
		return errors.New("display closed")
	}
	return nil
}

func (d *recordingDisplay) ShowCountdown(ctx context.Context, remaining time.Duration) error {
	d.enter()
	defer d.leave()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.countdowns = append(d.countdowns, remaining)
	return nil
}

func (d *recordingDisplay) frameCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

func (d *recordingDisplay) snapshot() ([]*Frame, []time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Frame(nil), d.frames...), append([]time.Duration(nil), d.countdowns...)
}

func newPresenter(t *testing.T, opts ...PresenterOption) PresenterUseCase {
	t.Helper()
	tokens := qrtokenService.NewTokenService(qrtokenService.NewLegacyCodec(""), qrtokenDomain.DefaultFreshnessPolicy())
	return NewPresenterUseCase(tokens, render.NewLocalRenderer(64), opts...)
}

func signedIn(role authDomain.Role) (*session.Session, *authDomain.Identity) {
	s := session.New()
	identity := &authDomain.Identity{ID: uuid.New(), Role: role}
	s.SignIn(identity)
	return s, identity
}

func TestPresenterUseCase_Issue(t *testing.T) {
	presenter := newPresenter(t)
	_, customer := signedIn(authDomain.RoleCustomer)

	frame, err := presenter.Issue(context.Background(), customer)
	require.NoError(t, err)

	assert.NotEmpty(t, frame.Token)
	assert.Equal(t, render.MediaTypePNG, frame.Image.MediaType)
	assert.Equal(t, frame.IssuedAt.Add(time.Minute), frame.ExpiresAt)

	decoded, err := qrtokenService.NewLegacyCodec("").Decode(frame.Token)
	require.NoError(t, err)
	assert.Equal(t, customer.ID.String(), decoded.CustomerID)
}

func TestPresenterUseCase_IssueRequiresPresentCapability(t *testing.T) {
	presenter := newPresenter(t)

	_, err := presenter.Issue(context.Background(), nil)
	assert.ErrorIs(t, err, authDomain.ErrNotSignedIn)

	_, staff := signedIn(authDomain.RoleStaff)
	_, err = presenter.Issue(context.Background(), staff)
	assert.ErrorIs(t, err, authDomain.ErrCapabilityDenied)
}

func TestPresenterUseCase_RunShowsImmediatelyAndRefreshes(t *testing.T) {
	presenter := newPresenter(t,
		WithRefreshInterval(60*time.Millisecond),
		WithCountdownInterval(10*time.Millisecond))
	source, _ := signedIn(authDomain.RoleCustomer)
	display := &recordingDisplay{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- presenter.Run(ctx, source, display) }()

	require.Eventually(t, func() bool { return display.frameCount() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	frames, countdowns := display.snapshot()
	assert.False(t, display.overlapped)
	assert.Equal(t, 60*time.Millisecond, countdowns[0])
	for _, remaining := range countdowns {
		assert.GreaterOrEqual(t, remaining, time.Duration(0))
		assert.LessOrEqual(t, remaining, 60*time.Millisecond)
	}
	assert.Contains(t, countdowns, 50*time.Millisecond)
	assert.False(t, frames[0].IssuedAt.After(frames[len(frames)-1].IssuedAt))
}

func TestPresenterUseCase_RunStopsOnSignOut(t *testing.T) {
	presenter := newPresenter(t,
		WithRefreshInterval(20*time.Millisecond),
		WithCountdownInterval(5*time.Millisecond))
	source, _ := signedIn(authDomain.RoleCustomer)
	display := &recordingDisplay{}

	done := make(chan error, 1)
	go func() { done <- presenter.Run(context.Background(), source, display) }()

	require.Eventually(t, func() bool { return display.frameCount() >= 1 }, time.Second, time.Millisecond)
	source.SignOut()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("presenter kept running after sign-out")
	}

	stopped := display.frameCount()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, stopped, display.frameCount())
}

func TestPresenterUseCase_RunStopsOnDisplayFailure(t *testing.T) {
	presenter := newPresenter(t,
		WithRefreshInterval(10*time.Millisecond),
		WithCountdownInterval(time.Hour))
	source, _ := signedIn(authDomain.RoleCustomer)
	display := &recordingDisplay{failAfter: 2}

	err := presenter.Run(context.Background(), source, display)

	assert.EqualError(t, err, "display closed")
	assert.Equal(t, 2, display.frameCount())
}

func TestPresenterUseCase_RunRequiresCustomer(t *testing.T) {
	presenter := newPresenter(t)

	err := presenter.Run(context.Background(), session.New(), &recordingDisplay{})
	assert.ErrorIs(t, err, authDomain.ErrNotSignedIn)

	staffSession, _ := signedIn(authDomain.RoleStaff)
	err = presenter.Run(context.Background(), staffSession, &recordingDisplay{})
	assert.ErrorIs(t, err, authDomain.ErrCapabilityDenied)
}
