// Package domain defines identities, roles and the capabilities each role grants.
package domain

// Role is the kind of account signed in to the application.
type Role string

const (
	// RoleCustomer collects stamps and presents QR codes.
	RoleCustomer Role = "customer"

	// RoleStaff scans customer QR codes and credits visits.
	RoleStaff Role = "staff"
)

// Capability names an action an identity may perform.
type Capability string

const (
	// PresentCapability allows issuing and displaying a QR token for oneself.
	PresentCapability Capability = "present"

	// ViewCardCapability allows reading one's own loyalty card.
	ViewCardCapability Capability = "view_card"

	// ScanCapability allows starting a redemption attempt from a scanned code.
	ScanCapability Capability = "scan"

	// CreditCapability allows confirming a redemption attempt and crediting a visit.
	CreditCapability Capability = "credit"
)

var roleCapabilities = map[Role][]Capability{
	RoleCustomer: {PresentCapability, ViewCardCapability},
	RoleStaff:    {ScanCapability, CreditCapability, ViewCardCapability},
}

// ParseRole maps a stored role tag to a Role. Unknown tags are rejected.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleCustomer, RoleStaff:
		return Role(value), nil
	default:
		return "", ErrUnknownRole
	}
}
