package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_Can(t *testing.T) {
	customer := &Identity{ID: uuid.New(), Role: RoleCustomer}
	staff := &Identity{ID: uuid.New(), Role: RoleStaff}

	tests := []struct {
		name       string
		identity   *Identity
		capability Capability
		want       bool
	}{
		{"customer presents", customer, PresentCapability, true},
		{"customer views card", customer, ViewCardCapability, true},
		{"customer cannot scan", customer, ScanCapability, false},
		{"customer cannot credit", customer, CreditCapability, false},
		{"staff scans", staff, ScanCapability, true},
		{"staff credits", staff, CreditCapability, true},
		{"staff views card", staff, ViewCardCapability, true},
		{"staff does not present", staff, PresentCapability, false},
		{"nil identity", nil, ViewCardCapability, false},
		{"unknown role", &Identity{Role: Role("owner")}, ScanCapability, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.identity.Can(tt.capability))
		})
	}
}

func TestIdentity_IsStaff(t *testing.T) {
	assert.True(t, (&Identity{Role: RoleStaff}).IsStaff())
	assert.False(t, (&Identity{Role: RoleCustomer}).IsStaff())

	var missing *Identity
	assert.False(t, missing.IsStaff())
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("staff")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, role)

	role, err = ParseRole("customer")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, role)

	_, err = ParseRole("admin")
	assert.ErrorIs(t, err, ErrUnknownRole)
}
