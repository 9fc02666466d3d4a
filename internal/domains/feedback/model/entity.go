package model

import (
	"time"

	"github.com/google/uuid"
)

const TableName = "feedback"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAddressed Status = "ADDRESSED"
	StatusResolved  Status = "RESOLVED"
)

// allowed lists the statuses each status may move to.
var allowed = map[Status][]Status{
	StatusPending:   {StatusAddressed, StatusResolved},
	StatusAddressed: {StatusResolved},
}

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusAddressed || s == StatusResolved
}

// CanTransition reports whether feedback in from may move to to.
func CanTransition(from, to Status) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Feedback is an editor's comment on a submission under review.
type Feedback struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	SubmissionID uuid.UUID  `db:"submission_id" json:"submission_id"`
	AdminID      *uuid.UUID `db:"admin_id" json:"admin_id,omitempty"`
	Content      string     `db:"content" json:"content"`
	Status       Status     `db:"status" json:"status"`
	AddressedAt  *time.Time `db:"addressed_at" json:"addressed_at,omitempty"`
	ResolvedAt   *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
