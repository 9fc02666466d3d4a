package model

import (
	"time"

	"github.com/google/uuid"
)

// Communication is the append-only audit row written for every outbound email.
type Communication struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	SubmissionID   *uuid.UUID       `db:"submission_id" json:"submission_id,omitempty"`
	Type           Type             `db:"type" json:"type"`
	RecipientEmail string           `db:"recipient_email" json:"recipient_email"`
	Subject        string           `db:"subject" json:"subject"`
	AdminID        *uuid.UUID       `db:"admin_id" json:"admin_id,omitempty"`
	Status         DeliveryStatus   `db:"status" json:"status"`
	ErrorMessage   *string          `db:"error_message" json:"error_message,omitempty"`
	Data           NotificationData `db:"data" json:"data"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}

// SubmissionRef is a compact reference used in list-style emails.
type SubmissionRef struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// NotificationData is the template input; it is also stored as the row's JSON payload.
type NotificationData struct {
	SubmissionTitle string          `json:"submission_title,omitempty"`
	Token           string          `json:"token,omitempty"`
	AuthorName      string          `json:"author_name,omitempty"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	FeedbackContent string          `json:"feedback_content,omitempty"`
	ArticleSlug     string          `json:"article_slug,omitempty"`
	Message         string          `json:"message,omitempty"`
	ExpiredCount    int             `json:"expired_count,omitempty"`
	Items           []SubmissionRef `json:"items,omitempty"`
}

// Notification is one email to one recipient, queued after the triggering change commits.
type Notification struct {
	Type           Type             `json:"type"`
	RecipientEmail string           `json:"recipient_email"`
	RecipientName  string           `json:"recipient_name,omitempty"`
	SubmissionID   *uuid.UUID       `json:"submission_id,omitempty"`
	AdminID        *uuid.UUID       `json:"admin_id,omitempty"`
	Data           NotificationData `json:"data"`
}
