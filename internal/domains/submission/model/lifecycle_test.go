package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_Table(t *testing.T) {
	tests := []struct {
		from  Status
		event Event
		want  Status
	}{
		{StatusDraft, EventSubmit, StatusUnderReview},
		{StatusChangesRequested, EventSubmit, StatusUnderReview},
		{StatusUnderReview, EventApprove, StatusApproved},
		{StatusUnderReview, EventReject, StatusRejected},
		{StatusUnderReview, EventRequestChanges, StatusChangesRequested},
		{StatusApproved, EventPublish, StatusPublished},
		{StatusDraft, EventExpire, StatusExpired},
		{StatusChangesRequested, EventExpire, StatusExpired},
		{StatusExpired, EventReactivate, StatusDraft},
		{StatusRejected, EventReactivate, StatusDraft},
		{StatusDraft, EventExtendExpiry, StatusDraft},
		{StatusChangesRequested, EventRegenerateToken, StatusChangesRequested},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.event), func(t *testing.T) {
			got, err := Transition(tt.from, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_PublishOnlyFromApproved(t *testing.T) {
	for _, s := range AllStatuses {
		got, err := Transition(s, EventPublish)
		if s == StatusApproved {
			require.NoError(t, err)
			assert.Equal(t, StatusPublished, got)
			continue
		}

		require.Error(t, err, "publish from %s", s)
		assert.True(t, errors.Is(err, ErrInvalidTransition))
		assert.Equal(t, s, got, "status must be unchanged on a refused transition")
		assert.Contains(t, err.Error(), "only approved submissions can be published")
		assert.Contains(t, err.Error(), string(s))
	}
}

func TestTransition_TerminalStatesStayTerminal(t *testing.T) {
	terminal := []Status{StatusPublished, StatusRejected, StatusExpired}
	editable := []Event{EventSubmit, EventApprove, EventRequestChanges, EventPublish, EventExpire, EventExtendExpiry, EventRegenerateToken}

	for _, s := range terminal {
		for _, e := range editable {
			_, err := Transition(s, e)
			assert.Error(t, err, "%s should refuse %s", s, e)
		}
	}

	// reactivate is the only way back
	for _, s := range []Status{StatusRejected, StatusExpired} {
		got, err := Transition(s, EventReactivate)
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, got)
	}
	_, err := Transition(StatusPublished, EventReactivate)
	assert.Error(t, err)
}

func TestTransition_GuardErrorNamesCurrentStatus(t *testing.T) {
	_, err := Transition(StatusPublished, EventApprove)
	require.Error(t, err)

	var subErr *SubmissionError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, ErrCodeInvalidTransition, subErr.Code)
	assert.Contains(t, subErr.Message, "PUBLISHED")
}

func TestTransition_UnknownEvent(t *testing.T) {
	_, err := Transition(StatusDraft, Event("archive"))
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestAllowedEvents(t *testing.T) {
	assert.Equal(t, []Event{EventApprove, EventReject, EventRequestChanges}, AllowedEvents(StatusUnderReview))
	assert.Equal(t, []Event{EventPublish}, AllowedEvents(StatusApproved))
	assert.Empty(t, AllowedEvents(StatusPublished))
}

func TestCanEdit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Second)

	for _, s := range AllStatuses {
		want := s == StatusDraft || s == StatusChangesRequested
		assert.Equal(t, want, CanEdit(s, &future, now), "status %s with future deadline", s)
		assert.False(t, CanEdit(s, &past, now), "status %s with past deadline", s)
		assert.False(t, CanEdit(s, nil, now), "status %s without deadline", s)
	}

	// the instant the deadline is reached editing stops
	assert.False(t, CanEdit(StatusDraft, &now, now))
}

func TestDaysUntilExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	in36h := now.Add(36 * time.Hour)
	got := DaysUntilExpiry(StatusDraft, &in36h, now)
	require.NotNil(t, got)
	assert.Equal(t, 2, *got)

	past := now.Add(-time.Hour)
	got = DaysUntilExpiry(StatusChangesRequested, &past, now)
	require.NotNil(t, got)
	assert.Equal(t, 0, *got)

	assert.Nil(t, DaysUntilExpiry(StatusApproved, &in36h, now))
}
