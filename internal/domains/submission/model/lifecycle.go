package model

import (
	"math"
	"time"
)

type transitionRule struct {
	from []Status
	to   Status // empty: the event keeps the current status
}

// transitions is the single source of truth for which events each status accepts.
var transitions = map[Event]transitionRule{
	EventSubmit:          {from: []Status{StatusDraft, StatusChangesRequested}, to: StatusUnderReview},
	EventApprove:         {from: []Status{StatusUnderReview}, to: StatusApproved},
	EventReject:          {from: []Status{StatusUnderReview}, to: StatusRejected},
	EventRequestChanges:  {from: []Status{StatusUnderReview}, to: StatusChangesRequested},
	EventPublish:         {from: []Status{StatusApproved}, to: StatusPublished},
	EventExpire:          {from: []Status{StatusDraft, StatusChangesRequested}, to: StatusExpired},
	EventReactivate:      {from: []Status{StatusExpired, StatusRejected}, to: StatusDraft},
	EventExtendExpiry:    {from: []Status{StatusDraft, StatusChangesRequested}},
	EventRegenerateToken: {from: []Status{StatusDraft, StatusChangesRequested}},
}

// Transition returns the status a submission in from moves to when event happens.
// Events that do not change the status return from unchanged. A status that does
// not accept the event yields an invalid-transition error naming that status.
func Transition(from Status, event Event) (Status, error) {
	rule, ok := transitions[event]
	if !ok {
		return from, NewUnknownEventError(event)
	}

	for _, s := range rule.from {
		if s == from {
			if rule.to == "" {
				return from, nil
			}
			return rule.to, nil
		}
	}

	return from, NewInvalidTransitionError(from, event)
}

// CanApply reports whether event is allowed from status.
func CanApply(from Status, event Event) bool {
	_, err := Transition(from, event)
	return err == nil
}

// AllowedEvents lists the events status accepts, in a stable order.
func AllowedEvents(from Status) []Event {
	order := []Event{
		EventSubmit, EventApprove, EventReject, EventRequestChanges, EventPublish,
		EventExpire, EventReactivate, EventExtendExpiry, EventRegenerateToken,
	}
	events := make([]Event, 0, len(order))
	for _, e := range order {
		if CanApply(from, e) {
			events = append(events, e)
		}
	}
	return events
}

// CanEdit is true iff status is DRAFT or CHANGES_REQUESTED and now is before expiresAt.
func CanEdit(status Status, expiresAt *time.Time, now time.Time) bool {
	if !status.IsEditable() || expiresAt == nil {
		return false
	}
	return now.Before(*expiresAt)
}

// DaysUntilExpiry rounds up, so anything left of the last day counts as one.
// It returns nil when the submission has no running deadline.
func DaysUntilExpiry(status Status, expiresAt *time.Time, now time.Time) *int {
	if !status.IsEditable() || expiresAt == nil {
		return nil
	}
	days := 0
	if remaining := expiresAt.Sub(now); remaining > 0 {
		days = int(math.Ceil(remaining.Hours() / 24))
	}
	return &days
}
