package domain

import (
	"github.com/nailbliss/stampcard/internal/errors"
)

// Loyalty errors.
var (
	// ErrCustomerNotFound indicates no profile exists for the customer id.
	ErrCustomerNotFound = errors.NewCoded(errors.ErrNotFound, "customer_not_found", "Customer not found")

	// ErrStaffNotAuthorized indicates the store refused the credit because the acting identity
	// is not staff.
	ErrStaffNotAuthorized = errors.NewCoded(
		errors.ErrForbidden,
		"not_authorized",
		"You are not authorized to add stamps",
	)

	// ErrCreditFailed indicates the crediting procedure failed. The point was not added.
	ErrCreditFailed = errors.NewCoded(
		errors.ErrUnavailable,
		"credit_failed",
		"Failed to add loyalty point. Please try again.",
	)

	// ErrLookupFailed indicates the customer's profile or card could not be read.
	ErrLookupFailed = errors.NewCoded(
		errors.ErrUnavailable,
		"lookup_failed",
		"Could not load customer details. Please try again.",
	)
)
