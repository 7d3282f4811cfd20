package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Identity is the authenticated account on whose behalf an operation runs.
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  Role
}

// Can reports whether the identity's role grants the capability.
func (i *Identity) Can(capability Capability) bool {
	if i == nil {
		return false
	}
	return slices.Contains(roleCapabilities[i.Role], capability)
}

// IsStaff reports whether the identity belongs to a staff member.
func (i *Identity) IsStaff() bool {
	return i != nil && i.Role == RoleStaff
}

// Account is the subset of a profile row needed to build an Identity.
type Account struct {
	ID    uuid.UUID
	Email string
	Role  Role
}

// SessionClaims is what a verified session token asserts.
type SessionClaims struct {
	UserID    uuid.UUID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
