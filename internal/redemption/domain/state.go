// Package domain defines the redemption state machine: a scanned token becomes an attempt
// that staff confirm or cancel, and a confirmed attempt credits exactly one stamp.
package domain

// State is the coordinator state.
type State string

// Coordinator states. Decoding, ResolvingCustomer and Crediting are busy states in which new
// scans are rejected.
const (
	StateIdle                 State = "idle"
	StateDecoding             State = "decoding"
	StateResolvingCustomer    State = "resolving_customer"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateCrediting            State = "crediting"
)

// Busy reports whether an operation is in flight.
func (s State) Busy() bool {
	switch s {
	case StateDecoding, StateResolvingCustomer, StateCrediting:
		return true
	default:
		return false
	}
}

// Status is the outcome of an attempt.
type Status string

// Attempt statuses.
const (
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusConfirmed           Status = "confirmed"
	StatusCancelled           Status = "cancelled"
	StatusFailed              Status = "failed"
)
