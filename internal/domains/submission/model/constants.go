package model

import "time"

// Status is the lifecycle state of a submission.
type Status string

const (
	StatusDraft            Status = "DRAFT"
	StatusUnderReview      Status = "UNDER_REVIEW"
	StatusChangesRequested Status = "CHANGES_REQUESTED"
	StatusApproved         Status = "APPROVED"
	StatusPublished        Status = "PUBLISHED"
	StatusRejected         Status = "REJECTED"
	StatusExpired          Status = "EXPIRED"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusDraft,
	StatusUnderReview,
	StatusChangesRequested,
	StatusApproved,
	StatusPublished,
	StatusRejected,
	StatusExpired,
}

func (s Status) IsValid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsEditable reports whether authors may edit in this status (expiry aside).
func (s Status) IsEditable() bool {
	return s == StatusDraft || s == StatusChangesRequested
}

func (s Status) String() string {
	return string(s)
}

// Event is something that happens to a submission.
type Event string

const (
	EventSubmit          Event = "submit"
	EventApprove         Event = "approve"
	EventReject          Event = "reject"
	EventRequestChanges  Event = "request_changes"
	EventPublish         Event = "publish"
	EventExpire          Event = "expire"
	EventReactivate      Event = "reactivate"
	EventExtendExpiry    Event = "extend_expiry"
	EventRegenerateToken Event = "regenerate_token"
)

// Review actions accepted by the single-item review endpoint.
const (
	ReviewActionApprove        = string(EventApprove)
	ReviewActionReject         = string(EventReject)
	ReviewActionRequestChanges = string(EventRequestChanges)
)

// Bulk actions.
const (
	BulkActionApprove      = string(EventApprove)
	BulkActionReject       = string(EventReject)
	BulkActionExtendExpiry = string(EventExtendExpiry)
)

// Field and batch limits.
const (
	TitleMinLength      = 5
	TitleMaxLength      = 200
	SummaryMaxLength    = 1000
	ContentMinLength    = 100
	ContentMaxLength    = 50000
	MaxKeywords         = 10
	KeywordMaxLength    = 50
	CategoryMaxLength   = 100
	AuthorNameMaxLength = 255
	NotesMaxLength      = 5000
	BulkActionMaxIDs    = 50
	ExtendMinDays       = 1
	ExtendMaxDays       = 90
	ExportMaxRows       = 10000
	DefaultPageLimit    = 20
	MaxPageLimit        = 100
)

// Day is the unit the lifecycle counts expiry in.
const Day = 24 * time.Hour
