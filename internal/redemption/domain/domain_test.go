package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestState_Busy(t *testing.T) {
	busy := map[State]bool{
		StateIdle:                 false,
		StateDecoding:             true,
		StateResolvingCustomer:    true,
		StateAwaitingConfirmation: false,
		StateCrediting:            true,
	}
	for state, want := range busy {
		assert.Equal(t, want, state.Busy(), string(state))
	}
}

func TestAttempt_Clone(t *testing.T) {
	attempt := &Attempt{ID: uuid.New(), Status: StatusPendingConfirmation}

	clone := attempt.Clone()
	clone.Status = StatusConfirmed

	assert.Equal(t, StatusPendingConfirmation, attempt.Status)
	assert.Equal(t, attempt.ID, clone.ID)
	assert.Nil(t, (*Attempt)(nil).Clone())
}
