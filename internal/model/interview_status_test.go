package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus_LegalTransitions(t *testing.T) {
	tests := []struct {
		from  InterviewStatus
		event InterviewEvent
		to    InterviewStatus
	}{
		{StatusPending, EventSlotSelected, StatusWaitingApproval},
		{StatusWaitingApproval, EventApproved, StatusScheduled},
		{StatusWaitingApproval, EventRejected, StatusPendingReschedule},
		{StatusPendingReschedule, EventRescheduleAccepted, StatusScheduled},
		{StatusPendingReschedule, EventRescheduleDeclined, StatusPending},
		{StatusScheduled, EventCompleted, StatusCompleted},
		{StatusPending, EventDeclined, StatusDeclined},
		{StatusScheduled, EventCancelled, StatusCancelled},
		{StatusPendingReschedule, EventCancelled, StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.event), func(t *testing.T) {
			to, err := NextStatus(tt.from, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestNextStatus_PendingOnlyAcceptsSlotSelection(t *testing.T) {
	for _, ev := range []InterviewEvent{EventApproved, EventRejected, EventRescheduleAccepted, EventRescheduleDeclined, EventCompleted} {
		_, err := NextStatus(StatusPending, ev)
		assert.ErrorIs(t, err, ErrInvalidTransition, "event %s", ev)
	}
}

func TestNextStatus_TerminalStatesAreFinal(t *testing.T) {
	events := []InterviewEvent{
		EventSlotSelected, EventApproved, EventRejected, EventRescheduleAccepted,
		EventRescheduleDeclined, EventCompleted, EventCancelled, EventDeclined,
	}
	for _, s := range []InterviewStatus{StatusCompleted, StatusCancelled, StatusDeclined} {
		assert.True(t, s.IsTerminal())
		for _, ev := range events {
			_, err := NextStatus(s, ev)
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s on %s", ev, s)
		}
	}
}

func TestInterviewApply(t *testing.T) {
	iv := &Interview{Status: StatusWaitingApproval}

	from, err := iv.Apply(EventApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusWaitingApproval, from)
	assert.Equal(t, StatusScheduled, iv.Status)

	_, err = iv.Apply(EventSlotSelected)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusScheduled, iv.Status)
}

func TestIsActive(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusCompleted.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, StatusDeclined.IsActive())
}
