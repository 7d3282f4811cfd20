package domain

import (
	"time"

	"github.com/google/uuid"

	loyaltyDomain "github.com/nailbliss/stampcard/internal/loyalty/domain"
)

// Attempt is a scanned customer awaiting the operator's decision. The snapshot is read once
// at scan time and is not refreshed.
type Attempt struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	StaffID    uuid.UUID
	Status     Status
	IssuedAt   time.Time
	TokenAge   time.Duration
	ScannedAt  time.Time
	Snapshot   *loyaltyDomain.CustomerSnapshot

	// LastError is the message of the most recent failed credit, kept so the operator can
	// decide whether to confirm again.
	LastError string

	// Token is the raw scanned string, needed to release a replay claim.
	Token string
}

// Clone returns a copy that does not share mutable state with the original.
func (a *Attempt) Clone() *Attempt {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

// Result is the outcome of a confirmation.
type Result struct {
	Attempt *Attempt

	// Snapshot is re-read after a successful credit. Nil when the re-read failed.
	Snapshot *loyaltyDomain.CustomerSnapshot
}
