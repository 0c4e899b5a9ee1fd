package model

import (
	"errors"
	"fmt"
)

type InterviewStatus string

const (
	StatusPending           InterviewStatus = "pending"
	StatusWaitingApproval   InterviewStatus = "waiting_approval"
	StatusScheduled         InterviewStatus = "scheduled"
	StatusCompleted         InterviewStatus = "completed"
	StatusPendingReschedule InterviewStatus = "pending_reschedule"
	StatusCancelled         InterviewStatus = "cancelled"
	StatusDeclined          InterviewStatus = "declined"
)

// AllStatuses is ordered along the happy path, for dashboards.
var AllStatuses = []InterviewStatus{
	StatusPending,
	StatusWaitingApproval,
	StatusPendingReschedule,
	StatusScheduled,
	StatusCompleted,
	StatusCancelled,
	StatusDeclined,
}

type InterviewEvent string

const (
	EventSlotSelected       InterviewEvent = "slot_selected"
	EventApproved           InterviewEvent = "approved"
	EventRejected           InterviewEvent = "rejected"
	EventRescheduleAccepted InterviewEvent = "reschedule_accepted"
	EventRescheduleDeclined InterviewEvent = "reschedule_declined"
	EventCompleted          InterviewEvent = "completed"
	EventCancelled          InterviewEvent = "cancelled"
	EventDeclined           InterviewEvent = "declined"
)

var ErrInvalidTransition = errors.New("invalid interview status transition")

type transitionKey struct {
	from  InterviewStatus
	event InterviewEvent
}

var transitions = map[transitionKey]InterviewStatus{
	{StatusPending, EventSlotSelected}:                 StatusWaitingApproval,
	{StatusWaitingApproval, EventApproved}:             StatusScheduled,
	{StatusWaitingApproval, EventRejected}:             StatusPendingReschedule,
	{StatusPendingReschedule, EventRescheduleAccepted}: StatusScheduled,
	{StatusPendingReschedule, EventRescheduleDeclined}: StatusPending,
	{StatusScheduled, EventCompleted}:                  StatusCompleted,
}

func init() {
	for _, s := range []InterviewStatus{StatusPending, StatusWaitingApproval, StatusPendingReschedule, StatusScheduled} {
		transitions[transitionKey{s, EventCancelled}] = StatusCancelled
		transitions[transitionKey{s, EventDeclined}] = StatusDeclined
	}
}

// NextStatus is the only place interview transitions are decided.
func NextStatus(from InterviewStatus, event InterviewEvent) (InterviewStatus, error) {
	to, ok := transitions[transitionKey{from, event}]
	if !ok {
		return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, from)
	}
	return to, nil
}

func (s InterviewStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusDeclined
}

// IsActive reports whether the interview still blocks a new one for the same outreach and round.
func (s InterviewStatus) IsActive() bool {
	return s != StatusCancelled && s != StatusDeclined
}

func (s InterviewStatus) Valid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}
