package model

// Type identifies the lifecycle event an email was sent for.
type Type string

const (
	TypeTokenIssued          Type = "TOKEN_ISSUED"
	TypeTokenResent          Type = "TOKEN_RESENT"
	TypeTokenRegenerated     Type = "TOKEN_REGENERATED"
	TypeExpiringSoon         Type = "EXPIRING_SOON"
	TypeExpired              Type = "EXPIRED"
	TypeFeedbackPosted       Type = "FEEDBACK_POSTED"
	TypeApproved             Type = "APPROVED"
	TypeRejected             Type = "REJECTED"
	TypeChangesRequested     Type = "CHANGES_REQUESTED"
	TypePublished            Type = "PUBLISHED"
	TypeCustomReminder       Type = "CUSTOM_REMINDER"
	TypeAdminExpirationAlert Type = "ADMIN_EXPIRATION_ALERT"
)

var AllTypes = []Type{
	TypeTokenIssued, TypeTokenResent, TypeTokenRegenerated, TypeExpiringSoon, TypeExpired,
	TypeFeedbackPosted, TypeApproved, TypeRejected, TypeChangesRequested, TypePublished,
	TypeCustomReminder, TypeAdminExpirationAlert,
}

func (t Type) IsValid() bool {
	for _, v := range AllTypes {
		if v == t {
			return true
		}
	}
	return false
}

// DeliveryStatus is the outcome recorded on the audit row.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "SENT"
	DeliveryFailed DeliveryStatus = "FAILED"
)

const (
	TableName         = "communications"
	ReminderMaxIDs    = 50
	ReminderMaxLength = 5000
	DefaultPageLimit  = 20
	MaxPageLimit      = 100
)
