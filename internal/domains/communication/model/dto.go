package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"editorial-backend/internal/shared/utils"
)

type ListCommunicationsRequest struct {
	SubmissionID string `form:"submission_id"`
	Type         string `form:"type"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
}

func (r ListCommunicationsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SubmissionID, validation.When(r.SubmissionID != "", validation.By(func(interface{}) error {
			if _, err := uuid.Parse(r.SubmissionID); err != nil {
				return validation.NewError("validation_uuid", "must be a valid UUID")
			}
			return nil
		}))),
		validation.Field(&r.Type, validation.When(r.Type != "", validation.By(func(interface{}) error {
			if !Type(r.Type).IsValid() {
				return validation.NewError("validation_type", "unknown communication type")
			}
			return nil
		}))),
		validation.Field(&r.Page, validation.Min(0), validation.Max(utils.MaxPage)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(MaxPageLimit)),
	)
}

// ReminderRequest sends one custom reminder to the author of each listed submission.
type ReminderRequest struct {
	SubmissionIDs []uuid.UUID `json:"submission_ids"`
	Message       string      `json:"message"`
}

func (r ReminderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SubmissionIDs,
			validation.Required,
			validation.Length(1, ReminderMaxIDs).Error("between 1 and 50 submission ids are allowed"),
		),
		validation.Field(&r.Message,
			validation.Required.Error("message is required"),
			validation.RuneLength(1, ReminderMaxLength),
		),
	)
}

type ReminderFailure struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

type ReminderResult struct {
	Queued []uuid.UUID       `json:"queued"`
	Failed []ReminderFailure `json:"failed"`
}

type ListCommunicationsResponse struct {
	Communications []*Communication `json:"communications"`
	Total          int              `json:"total"`
	Page           int              `json:"page"`
	Limit          int              `json:"limit"`
}
