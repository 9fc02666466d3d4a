package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	commmodel "editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/domains/communication/dispatcher"
	"editorial-backend/internal/domains/submission/model"
	"editorial-backend/internal/shared/utils"
	"editorial-backend/pkg/database"
)

// withFreshToken runs write with newly minted tokens until one does not collide.
func withFreshToken(write func(token string) (*model.Submission, error)) (*model.Submission, error) {
	var lastErr error
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := utils.GenerateSubmissionToken()
		if err != nil {
			return nil, fmt.Errorf("generate token: %w", err)
		}

		sub, err := write(token)
		if err == nil {
			return sub, nil
		}
		if !database.IsUniqueViolation(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("token collision after %d attempts: %w", maxTokenAttempts, lastErr)
}

// checkToken rejects malformed tokens before any query runs.
func checkToken(token string) error {
	if !utils.IsValidTokenFormat(token) {
		return model.NewInvalidTokenError()
	}
	return nil
}

// notifyAuthor sends one lifecycle email to the submission's author.
func notifyAuthor(ctx context.Context, n dispatcher.Notifier, typ commmodel.Type, sub *model.Submission, adminID *uuid.UUID, data commmodel.NotificationData) {
	if data.SubmissionTitle == "" {
		data.SubmissionTitle = sub.Title
	}
	if data.AuthorName == "" {
		data.AuthorName = sub.AuthorName
	}
	subID := sub.ID
	n.Notify(ctx, commmodel.Notification{
		Type:           typ,
		RecipientEmail: sub.AuthorEmail,
		RecipientName:  sub.AuthorName,
		SubmissionID:   &subID,
		AdminID:        adminID,
		Data:           data,
	})
}

// linkData carries the edit link and deadline for emails that let the author act.
func linkData(sub *model.Submission) commmodel.NotificationData {
	return commmodel.NotificationData{
		Token:     sub.Token,
		ExpiresAt: sub.ExpiresAt,
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// failureReason is the per-item message reported in batch results.
func failureReason(err error) string {
	var subErr *model.SubmissionError
	if errors.As(err, &subErr) {
		return subErr.Message
	}
	return "internal error"
}
