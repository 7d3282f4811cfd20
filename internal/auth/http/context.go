// Package http provides the gin middleware that authenticates, authorizes and rate limits
// requests by identity.
package http

import (
	"context"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
)

type identityKey struct{}

// WithIdentity stores an authenticated identity in the context.
func WithIdentity(ctx context.Context, identity *authDomain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity retrieves the authenticated identity from the context.
func GetIdentity(ctx context.Context) (*authDomain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*authDomain.Identity)
	return identity, ok && identity != nil
}
