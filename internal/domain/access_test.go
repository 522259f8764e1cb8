package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from AccessStatus
		to   AccessStatus
		want bool
	}{
		{"pending to approved", AccessStatusPending, AccessStatusApproved, true},
		{"pending to declined", AccessStatusPending, AccessStatusDeclined, true},
		{"declined to pending", AccessStatusDeclined, AccessStatusPending, true},
		{"approved to declined", AccessStatusApproved, AccessStatusDeclined, false},
		{"approved to pending", AccessStatusApproved, AccessStatusPending, false},
		{"declined to approved", AccessStatusDeclined, AccessStatusApproved, false},
		{"pending to pending", AccessStatusPending, AccessStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestAccessRequestTransition(t *testing.T) {
	req := &AccessRequest{ID: "r1", Status: AccessStatusPending}

	err := req.Transition(AccessStatusApproved)
	assert.NoError(t, err)
	assert.Equal(t, AccessStatusApproved, req.Status)

	// Approved is terminal.
	err = req.Transition(AccessStatusDeclined)
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.Equal(t, AccessStatusApproved, req.Status, "failed transition must not mutate status")
}

func TestAccessRequestDeclineReopen(t *testing.T) {
	req := &AccessRequest{ID: "r1", Status: AccessStatusPending}

	assert.NoError(t, req.Transition(AccessStatusDeclined))
	assert.NoError(t, req.Transition(AccessStatusPending))
	assert.NoError(t, req.Transition(AccessStatusApproved))
}

func TestAccessRequestDeletable(t *testing.T) {
	assert.False(t, (&AccessRequest{Status: AccessStatusPending}).Deletable())
	assert.False(t, (&AccessRequest{Status: AccessStatusApproved}).Deletable())
	assert.True(t, (&AccessRequest{Status: AccessStatusDeclined}).Deletable())
}

func TestAccessStatusValid(t *testing.T) {
	assert.True(t, AccessStatusPending.Valid())
	assert.True(t, AccessStatusApproved.Valid())
	assert.True(t, AccessStatusDeclined.Valid())
	assert.False(t, AccessStatus("granted").Valid())
}
