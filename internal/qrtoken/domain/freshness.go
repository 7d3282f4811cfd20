package domain

import (
	"fmt"
	"time"
)

const (
	// DefaultFreshnessWindow is the maximum accepted token age.
	DefaultFreshnessWindow = 60 * time.Second

	// DefaultMaxClockSkew is how far into the future an issuance time may lie before the
	// token is treated as forged.
	DefaultMaxClockSkew = 5 * time.Second
)

// FreshnessPolicy decides whether a decoded token may still be redeemed.
type FreshnessPolicy struct {
	Window  time.Duration
	MaxSkew time.Duration
}

// DefaultFreshnessPolicy returns the 60 second window with 5 seconds of tolerated skew.
func DefaultFreshnessPolicy() FreshnessPolicy {
	return FreshnessPolicy{Window: DefaultFreshnessWindow, MaxSkew: DefaultMaxClockSkew}
}

// Validate rejects a non-positive window or skew. The window doubles as the presenter's refresh
// interval.
func (p FreshnessPolicy) Validate() error {
	if p.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %s", ErrInvalidPolicy, p.Window)
	}
	if p.MaxSkew <= 0 {
		return fmt.Errorf("%w: max clock skew must be positive, got %s", ErrInvalidPolicy, p.MaxSkew)
	}
	return nil
}

// Check accepts tokens whose age at now is at most Window. Age is measured at
// millisecond resolution.
func (p FreshnessPolicy) Check(token *Token, now time.Time) error {
	ageMillis := now.UnixMilli() - token.IssuedAt.UnixMilli()
	if ageMillis > p.Window.Milliseconds() {
		return ErrExpiredToken
	}
	if -ageMillis > p.MaxSkew.Milliseconds() {
		return ErrMalformedToken
	}
	return nil
}

// ExpiresAt is the last instant at which token is still fresh.
func (p FreshnessPolicy) ExpiresAt(token *Token) time.Time {
	return token.IssuedAt.Add(p.Window)
}
