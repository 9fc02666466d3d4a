package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/communication/dispatcher"
	"editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/domains/communication/repository"
	submodel "editorial-backend/internal/domains/submission/model"
	subrepo "editorial-backend/internal/domains/submission/repository"
	"editorial-backend/internal/shared/utils"
)

type ServiceInterface interface {
	List(ctx context.Context, req model.ListCommunicationsRequest) (*model.ListCommunicationsResponse, error)

	// SendReminders queues one CUSTOM_REMINDER per submission author. Items fail independently.
	SendReminders(ctx context.Context, adminID uuid.UUID, req model.ReminderRequest) (*model.ReminderResult, error)
}

type CommunicationService struct {
	repo        repository.Repository
	submissions subrepo.Repository
	notifier    dispatcher.Notifier
}

func NewService(repo repository.Repository, submissions subrepo.Repository, notifier dispatcher.Notifier) *CommunicationService {
	return &CommunicationService{
		repo:        repo,
		submissions: submissions,
		notifier:    notifier,
	}
}

func (s *CommunicationService) List(ctx context.Context, req model.ListCommunicationsRequest) (*model.ListCommunicationsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	page, limit, offset := utils.Pagination(req.Page, req.Limit, model.DefaultPageLimit, model.MaxPageLimit)
	filter := repository.ListFilter{
		Type:   model.Type(req.Type),
		Limit:  limit,
		Offset: offset,
	}
	if req.SubmissionID != "" {
		id := uuid.MustParse(req.SubmissionID)
		filter.SubmissionID = &id
	}

	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.ListCommunicationsResponse{Communications: list, Total: total, Page: page, Limit: limit}, nil
}

func (s *CommunicationService) SendReminders(ctx context.Context, adminID uuid.UUID, req model.ReminderRequest) (*model.ReminderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	result := &model.ReminderResult{
		Queued: make([]uuid.UUID, 0, len(req.SubmissionIDs)),
		Failed: make([]model.ReminderFailure, 0),
	}
	seen := make(map[uuid.UUID]struct{}, len(req.SubmissionIDs))

	for _, id := range req.SubmissionIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		sub, err := s.submissions.FindByID(ctx, id)
		if err != nil {
			reason := "internal error"
			if errors.Is(err, submodel.ErrSubmissionNotFound) {
				reason = "submission not found"
			} else {
				log.Error().Err(err).Str("submission_id", id.String()).Msg("[CommunicationService] Reminder lookup failed")
			}
			result.Failed = append(result.Failed, model.ReminderFailure{ID: id, Reason: reason})
			continue
		}

		data := model.NotificationData{
			SubmissionTitle: sub.Title,
			AuthorName:      sub.AuthorName,
			Message:         req.Message,
		}
		// Only editable submissions get a working link.
		if sub.Status.IsEditable() {
			data.Token = sub.Token
			data.ExpiresAt = sub.ExpiresAt
		}

		admin := adminID
		subID := sub.ID
		s.notifier.Notify(ctx, model.Notification{
			Type:           model.TypeCustomReminder,
			RecipientEmail: sub.AuthorEmail,
			RecipientName:  sub.AuthorName,
			SubmissionID:   &subID,
			AdminID:        &admin,
			Data:           data,
		})
		result.Queued = append(result.Queued, id)
	}

	log.Info().
		Str("admin_id", adminID.String()).
		Int("queued", len(result.Queued)).
		Int("failed", len(result.Failed)).
		Msg("[CommunicationService] Reminders processed")

	return result, nil
}
