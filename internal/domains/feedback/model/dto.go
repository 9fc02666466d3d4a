package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	ContentMinLength = 1
	ContentMaxLength = 10000
)

type CreateFeedbackRequest struct {
	Content string `json:"content"`
}

func (r *CreateFeedbackRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

func (r CreateFeedbackRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
			validation.RuneLength(ContentMinLength, ContentMaxLength),
		),
	)
}

type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.Required.Error("status is required"),
			validation.In(StatusAddressed, StatusResolved).Error("status must be ADDRESSED or RESOLVED"),
		),
	)
}
