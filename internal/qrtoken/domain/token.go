// Package domain defines the short-lived QR token a customer presents to staff and the
// rules deciding whether a scanned token is still acceptable.
package domain

import (
	"time"
)

// Token binds a customer identity to the moment it was issued. Tokens are never stored.
type Token struct {
	CustomerID string
	IssuedAt   time.Time
}

// NewToken creates a token truncated to millisecond resolution, the resolution carried on
// the wire.
func NewToken(customerID string, issuedAt time.Time) *Token {
	return &Token{
		CustomerID: customerID,
		IssuedAt:   time.UnixMilli(issuedAt.UnixMilli()),
	}
}

// Age is how long ago the token was issued, relative to now.
func (t *Token) Age(now time.Time) time.Duration {
	return now.Sub(t.IssuedAt)
}

// Format names a wire encoding for tokens.
type Format string

const (
	// FormatLegacy is base64 of a JSON payload followed by an obfuscation suffix. It keeps
	// codes printed by older clients scannable but offers no integrity.
	FormatLegacy Format = "legacy"

	// FormatSealed is an authenticated, encrypted payload prefixed with "v2.".
	FormatSealed Format = "sealed"
)

// ParseFormat maps a configured format name to a Format.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatLegacy, FormatSealed:
		return Format(value), nil
	default:
		return "", ErrUnknownFormat
	}
}
