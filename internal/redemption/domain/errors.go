package domain

import (
	"github.com/nailbliss/stampcard/internal/errors"
)

// Redemption errors.
var (
	// ErrRedemptionBusy indicates a scan or confirmation while another operation is in flight.
	ErrRedemptionBusy = errors.NewCoded(
		errors.ErrConflict,
		"redemption_in_progress",
		"A redemption is already in progress",
	)

	// ErrAttemptPending indicates a scan while a customer awaits confirmation.
	ErrAttemptPending = errors.NewCoded(
		errors.ErrConflict,
		"attempt_pending",
		"Confirm or cancel the current customer before scanning again",
	)

	// ErrNoAttempt indicates a confirm or cancel with nothing awaiting confirmation.
	ErrNoAttempt = errors.NewCoded(errors.ErrNotFound, "no_attempt", "No redemption is awaiting confirmation")

	// ErrStaffOnly indicates a scan by an identity without the scan capability.
	ErrStaffOnly = errors.NewCoded(errors.ErrForbidden, "staff_only", "Only staff members can scan QR codes")

	// ErrTokenAlreadyUsed indicates a token that was already scanned by another attempt.
	ErrTokenAlreadyUsed = errors.NewCoded(errors.ErrConflict, "code_already_used", "This code has already been used")

	// ErrCoordinatorClosed indicates the coordinator was torn down.
	ErrCoordinatorClosed = errors.NewCoded(
		errors.ErrUnavailable,
		"redemption_closed",
		"The redemption session has ended",
	)
)
