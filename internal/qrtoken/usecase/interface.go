// Package usecase issues QR tokens for signed-in customers and keeps a displayed token fresh.
package usecase

import (
	"context"
	"time"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	"github.com/nailbliss/stampcard/internal/qrtoken/render"
)

// Frame is one issued token ready for display.
type Frame struct {
	Token     string        `json:"token"`
	Image     *render.Image `json:"image"`
	IssuedAt  time.Time     `json:"issued_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Display shows frames and the countdown to the next refresh. Calls are never concurrent.
// An error from either method stops the presenter.
type Display interface {
	ShowToken(ctx context.Context, frame *Frame) error
	ShowCountdown(ctx context.Context, remaining time.Duration) error
}

// IdentitySource is the identity context a presenter is bound to. *session.Session
// satisfies it.
type IdentitySource interface {
	Current() (*authDomain.Identity, bool)
	Changed() <-chan struct{}
}

// PresenterUseCase issues tokens for customers.
type PresenterUseCase interface {
	// Issue encodes and renders one token for identity.
	Issue(ctx context.Context, identity *authDomain.Identity) (*Frame, error)

	// Run shows a token immediately and keeps it fresh until ctx ends, the identity in
	// source changes or display fails. Only display failures are returned as errors.
	Run(ctx context.Context, source IdentitySource, display Display) error
}
