package model

import (
	"time"

	"github.com/google/uuid"
)

// TableName is the submissions table.
const TableName = "submissions"

// Submission maps every column of the submissions table.
type Submission struct {
	ID     uuid.UUID `db:"id" json:"id"`
	Token  string    `db:"token" json:"token"`
	Status Status    `db:"status" json:"status"`

	// Author
	AuthorName        string  `db:"author_name" json:"author_name"`
	AuthorEmail       string  `db:"author_email" json:"author_email"`
	AuthorInstitution *string `db:"author_institution" json:"author_institution,omitempty"`

	// Content
	Title    string   `db:"title" json:"title"`
	Summary  string   `db:"summary" json:"summary"`
	Content  string   `db:"content" json:"content"`
	Keywords []string `db:"keywords" json:"keywords"`
	Category string   `db:"category" json:"category"`

	// Review
	ReviewedBy      *uuid.UUID `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewNotes     *string    `db:"review_notes" json:"review_notes,omitempty"`
	RejectionReason *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`

	// Timestamps
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	ExpiresAt   *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	SubmittedAt *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// CanEdit applies the editability rule at now.
func (s *Submission) CanEdit(now time.Time) bool {
	return CanEdit(s.Status, s.ExpiresAt, now)
}

// ExpiredSubmission is a row moved to EXPIRED by the sweep.
type ExpiredSubmission struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Token       string    `db:"token" json:"token"`
	Title       string    `db:"title" json:"title"`
	AuthorName  string    `db:"author_name" json:"author_name"`
	AuthorEmail string    `db:"author_email" json:"author_email"`
	ExpiresAt   time.Time `db:"expires_at" json:"expires_at"`
}
