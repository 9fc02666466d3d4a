package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	commmodel "editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/domains/communication/dispatcher"
	"editorial-backend/internal/domains/submission/model"
	"editorial-backend/internal/domains/submission/repository"
	"editorial-backend/internal/infrastructure/metrics"
)

type authorService struct {
	repo     repository.Repository
	notifier dispatcher.Notifier
	metrics  *metrics.Metrics
	settings Settings
	now      func() time.Time
}

func NewAuthorService(repo repository.Repository, notifier dispatcher.Notifier, m *metrics.Metrics, settings Settings) AuthorService {
	return &authorService{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		settings: settings,
		now:      time.Now,
	}
}

func (s *authorService) Create(ctx context.Context, req model.CreateSubmissionRequest) (*model.AuthorSubmissionResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	now := s.now()
	expiresAt := now.Add(s.settings.TokenTTL)
	keywords := req.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	sub, err := withFreshToken(func(token string) (*model.Submission, error) {
		return s.repo.Create(ctx, map[string]interface{}{
			"token":              token,
			"status":             model.StatusDraft,
			"author_name":        req.AuthorName,
			"author_email":       req.AuthorEmail,
			"author_institution": req.AuthorInstitution,
			"title":              req.Title,
			"summary":            req.Summary,
			"content":            req.Content,
			"keywords":           keywords,
			"category":           req.Category,
			"expires_at":         expiresAt,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("submission_id", sub.ID.String()).
		Time("expires_at", expiresAt).
		Msg("[AuthorService] Draft created")
	s.metrics.RecordTransition("create", "", string(model.StatusDraft))

	notifyAuthor(ctx, s.notifier, commmodel.TypeTokenIssued, sub, nil, linkData(sub))

	return model.NewAuthorSubmissionResponse(sub, now), nil
}

func (s *authorService) GetByToken(ctx context.Context, token string) (*model.AuthorSubmissionResponse, error) {
	if err := checkToken(token); err != nil {
		return nil, err
	}

	sub, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return model.NewAuthorSubmissionResponse(sub, s.now()), nil
}

func (s *authorService) Update(ctx context.Context, token string, req model.UpdateSubmissionRequest) (*model.AuthorSubmissionResponse, error) {
	if err := checkToken(token); err != nil {
		return nil, err
	}

	sub, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !sub.CanEdit(now) {
		return nil, model.NewNotEditableError(sub.Status)
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}
	if req.IsEmpty() {
		return model.NewAuthorSubmissionResponse(sub, now), nil
	}

	// The statement re-checks editability, so a concurrent sweep or submit wins cleanly.
	updated, err := s.repo.UpdateEditable(ctx, sub.ID, now, req.Columns())
	if err != nil {
		return nil, err
	}
	return model.NewAuthorSubmissionResponse(updated, now), nil
}

func (s *authorService) Submit(ctx context.Context, token string) (*model.AuthorSubmissionResponse, error) {
	if err := checkToken(token); err != nil {
		return nil, err
	}

	sub, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	to, err := model.Transition(sub.Status, model.EventSubmit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	// Past the deadline but not yet swept still counts as expired.
	if !sub.CanEdit(now) {
		return nil, model.NewNotEditableError(sub.Status)
	}
	if err := model.ValidateForSubmission(sub); err != nil {
		return nil, model.NewIncompleteError(err)
	}

	updated, err := s.repo.UpdateStatus(ctx, sub.ID, sub.Status, map[string]interface{}{
		"status":       to,
		"submitted_at": now,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("submission_id", sub.ID.String()).
		Str("from", string(sub.Status)).
		Msg("[AuthorService] Submitted for review")
	s.metrics.RecordTransition(string(model.EventSubmit), string(sub.Status), string(to))

	return model.NewAuthorSubmissionResponse(updated, now), nil
}

func (s *authorService) ResendToken(ctx context.Context, req model.ResendTokenRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return model.NewValidationError(err)
	}

	subs, err := s.repo.ListEditableByEmail(ctx, req.Email, s.now())
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		log.Debug().Msg("[AuthorService] Resend requested for address without editable submissions")
		return nil
	}

	items := make([]commmodel.SubmissionRef, 0, len(subs))
	for _, sub := range subs {
		items = append(items, commmodel.SubmissionRef{
			ID:        sub.ID,
			Title:     sub.Title,
			Token:     sub.Token,
			ExpiresAt: sub.ExpiresAt,
		})
	}

	first := subs[0]
	n := commmodel.Notification{
		Type:           commmodel.TypeTokenResent,
		RecipientEmail: first.AuthorEmail,
		RecipientName:  first.AuthorName,
		Data:           commmodel.NotificationData{AuthorName: first.AuthorName, Items: items},
	}
	if len(subs) == 1 {
		id := first.ID
		n.SubmissionID = &id
		n.Data.SubmissionTitle = first.Title
	}
	s.notifier.Notify(ctx, n)

	return nil
}

func (s *authorService) ValidateToken(ctx context.Context, token string) (*model.ValidateTokenResponse, error) {
	if checkToken(token) != nil {
		return &model.ValidateTokenResponse{Valid: false}, nil
	}

	sub, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrSubmissionNotFound) {
			return &model.ValidateTokenResponse{Valid: false}, nil
		}
		return nil, err
	}

	return &model.ValidateTokenResponse{
		Valid:     true,
		Status:    sub.Status,
		CanEdit:   sub.CanEdit(s.now()),
		ExpiresAt: sub.ExpiresAt,
	}, nil
}
