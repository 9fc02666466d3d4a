package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	commmodel "editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/domains/communication/dispatcher"
	"editorial-backend/internal/domains/feedback/model"
	"editorial-backend/internal/domains/feedback/repository"
	submodel "editorial-backend/internal/domains/submission/model"
	subrepo "editorial-backend/internal/domains/submission/repository"
	"editorial-backend/internal/shared/utils"
)

type ServiceInterface interface {
	// Admin
	Create(ctx context.Context, adminID, submissionID uuid.UUID, req model.CreateFeedbackRequest) (*model.Feedback, error)
	ListForSubmission(ctx context.Context, submissionID uuid.UUID) ([]*model.Feedback, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req model.UpdateStatusRequest) (*model.Feedback, error)

	// Author (token holder)
	ListForToken(ctx context.Context, token string) ([]*model.Feedback, error)
	MarkAddressed(ctx context.Context, token string, id uuid.UUID) (*model.Feedback, error)
}

type FeedbackService struct {
	repo        repository.Repository
	submissions subrepo.Repository
	notifier    dispatcher.Notifier
	now         func() time.Time
}

func NewService(repo repository.Repository, submissions subrepo.Repository, notifier dispatcher.Notifier) *FeedbackService {
	return &FeedbackService{
		repo:        repo,
		submissions: submissions,
		notifier:    notifier,
		now:         time.Now,
	}
}

func (s *FeedbackService) Create(ctx context.Context, adminID, submissionID uuid.UUID, req model.CreateFeedbackRequest) (*model.Feedback, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	sub, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.Status != submodel.StatusUnderReview && sub.Status != submodel.StatusChangesRequested {
		return nil, model.NewSubmissionNotReadyError(string(sub.Status))
	}

	admin := adminID
	f, err := s.repo.Create(ctx, &model.Feedback{
		SubmissionID: sub.ID,
		AdminID:      &admin,
		Content:      req.Content,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("submission_id", sub.ID.String()).
		Str("feedback_id", f.ID.String()).
		Msg("[FeedbackService] Feedback posted")

	subID := sub.ID
	s.notifier.Notify(ctx, commmodel.Notification{
		Type:           commmodel.TypeFeedbackPosted,
		RecipientEmail: sub.AuthorEmail,
		RecipientName:  sub.AuthorName,
		SubmissionID:   &subID,
		AdminID:        &admin,
		Data: commmodel.NotificationData{
			SubmissionTitle: sub.Title,
			Token:           sub.Token,
			FeedbackContent: f.Content,
		},
	})

	return f, nil
}

func (s *FeedbackService) ListForSubmission(ctx context.Context, submissionID uuid.UUID) ([]*model.Feedback, error) {
	if _, err := s.submissions.FindByID(ctx, submissionID); err != nil {
		return nil, err
	}
	return s.repo.ListBySubmission(ctx, submissionID)
}

func (s *FeedbackService) UpdateStatus(ctx context.Context, id uuid.UUID, req model.UpdateStatusRequest) (*model.Feedback, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, f, req.Status)
}

func (s *FeedbackService) ListForToken(ctx context.Context, token string) ([]*model.Feedback, error) {
	sub, err := s.submissionByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.repo.ListBySubmission(ctx, sub.ID)
}

func (s *FeedbackService) MarkAddressed(ctx context.Context, token string, id uuid.UUID) (*model.Feedback, error) {
	sub, err := s.submissionByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// A token only reaches feedback on its own submission.
	if f.SubmissionID != sub.ID {
		return nil, model.NewFeedbackNotFoundError()
	}

	return s.transition(ctx, f, model.StatusAddressed)
}

func (s *FeedbackService) transition(ctx context.Context, f *model.Feedback, to model.Status) (*model.Feedback, error) {
	if !model.CanTransition(f.Status, to) {
		return nil, model.NewInvalidTransitionError(f.Status, to)
	}
	return s.repo.UpdateStatus(ctx, f.ID, f.Status, to, s.now())
}

func (s *FeedbackService) submissionByToken(ctx context.Context, token string) (*submodel.Submission, error) {
	if !utils.IsValidTokenFormat(token) {
		return nil, submodel.NewInvalidTokenError()
	}
	return s.submissions.FindByToken(ctx, token)
}
