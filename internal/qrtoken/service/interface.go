// Package service encodes QR tokens to strings and back, and applies the freshness policy.
package service

import (
	"time"

	qrtokenDomain "github.com/nailbliss/stampcard/internal/qrtoken/domain"
)

// Codec is a reversible wire encoding. Decode checks structure only, never freshness, and
// reports every structural failure as qrtokenDomain.ErrMalformedToken.
type Codec interface {
	Format() qrtokenDomain.Format
	Encode(token *qrtokenDomain.Token) (string, error)
	Decode(raw string) (*qrtokenDomain.Token, error)
}

// TokenService issues tokens for a customer and validates scanned ones against the clock.
type TokenService interface {
	// Issue encodes a token for customerID stamped with the current time.
	Issue(customerID string) (string, *qrtokenDomain.Token, error)

	// Decode parses raw and checks freshness at the current time.
	Decode(raw string) (*qrtokenDomain.Token, error)

	// Parse decodes raw without checking freshness.
	Parse(raw string) (*qrtokenDomain.Token, error)

	// DecodeAt parses raw and checks freshness at now.
	DecodeAt(raw string, now time.Time) (*qrtokenDomain.Token, error)

	// Policy returns the freshness policy applied by Decode.
	Policy() qrtokenDomain.FreshnessPolicy
}
