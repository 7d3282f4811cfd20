package domain

import (
	"time"

	"github.com/google/uuid"
)

// RewardThreshold is the number of stamps that unlocks a reward.
const RewardThreshold = 5

// LoyaltyCard holds a customer's stamp counters. A customer without a stored card has the
// zero card.
type LoyaltyCard struct {
	CustomerID  uuid.UUID
	Points      int
	TotalVisits int
	LastVisitAt *time.Time
}

// RewardReady reports whether the card has reached the reward threshold.
func (c *LoyaltyCard) RewardReady() bool {
	return c.Points >= RewardThreshold
}

// StampsRemaining is the number of stamps still needed for the next reward.
func (c *LoyaltyCard) StampsRemaining() int {
	if c.Points >= RewardThreshold {
		return 0
	}
	return RewardThreshold - c.Points
}

// CustomerSnapshot is a point-in-time read of a customer's profile and card. It is not
// refreshed; a credit makes it stale.
type CustomerSnapshot struct {
	Profile   *Profile
	Card      *LoyaltyCard
	FetchedAt time.Time
}
