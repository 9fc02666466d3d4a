package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	artmodel "editorial-backend/internal/domains/article/model"
	artrepo "editorial-backend/internal/domains/article/repository"
	commmodel "editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/domains/communication/dispatcher"
	"editorial-backend/internal/domains/submission/model"
	"editorial-backend/internal/domains/submission/repository"
	"editorial-backend/internal/infrastructure/metrics"
	"editorial-backend/internal/shared/utils"
	"editorial-backend/pkg/database"
)

const maxSlugSuffix = 50

type reviewService struct {
	repo         repository.Repository
	articles     artrepo.Repository
	tx           database.TxManager
	notifier     dispatcher.Notifier
	articleCache ArticleCache
	metrics      *metrics.Metrics
	settings     Settings
	now          func() time.Time
}

func NewReviewService(
	repo repository.Repository,
	articles artrepo.Repository,
	tx database.TxManager,
	notifier dispatcher.Notifier,
	articleCache ArticleCache,
	m *metrics.Metrics,
	settings Settings,
) ReviewService {
	return &reviewService{
		repo:         repo,
		articles:     articles,
		tx:           tx,
		notifier:     notifier,
		articleCache: articleCache,
		metrics:      m,
		settings:     settings,
		now:          time.Now,
	}
}

// =====================================================
// QUERIES
// =====================================================

func (s *reviewService) List(ctx context.Context, req model.ListSubmissionsRequest) (*model.ListSubmissionsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	page, limit, offset := utils.Pagination(req.Page, req.Limit, model.DefaultPageLimit, model.MaxPageLimit)
	subs, total, err := s.repo.List(ctx, repository.ListFilter{
		Status: model.Status(req.Status),
		Search: req.Search,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]*model.AdminSubmissionResponse, 0, len(subs))
	for _, sub := range subs {
		items = append(items, model.NewAdminSubmissionResponse(sub, now))
	}

	return &model.ListSubmissionsResponse{Submissions: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *reviewService) Get(ctx context.Context, id uuid.UUID) (*model.AdminSubmissionResponse, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.NewAdminSubmissionResponse(sub, s.now()), nil
}

func (s *reviewService) Stats(ctx context.Context) (*model.SubmissionStats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiring, err := s.repo.CountExpiring(ctx, now, now.Add(s.settings.WarningWindow))
	if err != nil {
		return nil, err
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	return &model.SubmissionStats{ByStatus: counts, Total: total, ExpiringSoon: expiring}, nil
}

// =====================================================
// REVIEW DECISIONS
// =====================================================

func (s *reviewService) Review(ctx context.Context, adminID, id uuid.UUID, req model.ReviewRequest) (*model.AdminSubmissionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	sub, err := s.review(ctx, adminID, id, model.Event(req.Action), req.Notes, req.RejectionReason)
	if err != nil {
		return nil, err
	}
	return model.NewAdminSubmissionResponse(sub, s.now()), nil
}

// review applies approve, reject or request_changes to one submission and emails the author.
func (s *reviewService) review(ctx context.Context, adminID, id uuid.UUID, event model.Event, notes, reason *string) (*model.Submission, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	to, err := model.Transition(sub.Status, event)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cols := map[string]interface{}{
		"status":       to,
		"reviewed_by":  adminID,
		"reviewed_at":  now,
		"review_notes": trimmedOrNil(notes),
	}

	var commType commmodel.Type
	switch event {
	case model.EventApprove:
		commType = commmodel.TypeApproved
	case model.EventReject:
		commType = commmodel.TypeRejected
		cols["rejection_reason"] = trimmedOrNil(reason)
	case model.EventRequestChanges:
		commType = commmodel.TypeChangesRequested
		// The author gets a full editing window again.
		cols["expires_at"] = now.Add(s.settings.TokenTTL)
	default:
		return nil, model.NewUnknownEventError(event)
	}

	updated, err := s.repo.UpdateStatus(ctx, sub.ID, sub.Status, cols)
	if err != nil {
		return nil, err
	}

	s.logTransition(adminID, updated.ID, event, sub.Status, to)

	data := commmodel.NotificationData{
		Notes:           deref(updated.ReviewNotes),
		RejectionReason: deref(updated.RejectionReason),
	}
	if event == model.EventRequestChanges {
		data.Token = updated.Token
		data.ExpiresAt = updated.ExpiresAt
	}
	admin := adminID
	notifyAuthor(ctx, s.notifier, commType, updated, &admin, data)

	return updated, nil
}

// =====================================================
// PUBLISH
// =====================================================

// Publish flips APPROVED to PUBLISHED and creates the article in one transaction.
// Either both rows change or neither does.
func (s *reviewService) Publish(ctx context.Context, adminID, id uuid.UUID, req model.PublishRequest) (*model.PublishResponse, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	to, err := model.Transition(sub.Status, model.EventPublish)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var article *artmodel.Article
	err = s.tx.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.repo.UpdateStatusWithTx(ctx, tx, sub.ID, sub.Status, map[string]interface{}{
			"status": to,
		}); err != nil {
			return err
		}

		slug, err := s.uniqueSlug(ctx, tx, sub.Title)
		if err != nil {
			return err
		}

		keywords := sub.Keywords
		if keywords == nil {
			keywords = []string{}
		}

		article, err = s.articles.CreateWithTx(ctx, tx, map[string]interface{}{
			"submission_id":      sub.ID,
			"slug":               slug,
			"title":              sub.Title,
			"summary":            sub.Summary,
			"content":            sub.Content,
			"keywords":           keywords,
			"category":           sub.Category,
			"author_name":        sub.AuthorName,
			"author_institution": sub.AuthorInstitution,
			"is_featured":        req.IsFeatured,
			"published_at":       now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(adminID, sub.ID, model.EventPublish, sub.Status, to)

	if s.articleCache != nil {
		s.articleCache.InvalidateCache(ctx)
	}

	admin := adminID
	notifyAuthor(ctx, s.notifier, commmodel.TypePublished, sub, &admin, commmodel.NotificationData{
		ArticleSlug: article.Slug,
	})

	return &model.PublishResponse{
		SubmissionID: sub.ID,
		ArticleID:    article.ID,
		Slug:         article.Slug,
		PublishedAt:  article.PublishedAt,
	}, nil
}

// uniqueSlug derives a slug from title and suffixes -2, -3, ... until it is free.
func (s *reviewService) uniqueSlug(ctx context.Context, tx pgx.Tx, title string) (string, error) {
	base := utils.GenerateSlug(title)
	if base == "" {
		base = "article"
	}

	for i := 1; i <= maxSlugSuffix; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		exists, err := s.articles.SlugExistsWithTx(ctx, tx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return fmt.Sprintf("%s-%s", base, strings.SplitN(uuid.NewString(), "-", 2)[0]), nil
}

// =====================================================
// TOKEN AND DEADLINE MANAGEMENT
// =====================================================

// Reactivate returns an EXPIRED or REJECTED submission to DRAFT with a new token and deadline.
// The old token stops working and the review fields are cleared.
func (s *reviewService) Reactivate(ctx context.Context, adminID, id uuid.UUID) (*model.AdminSubmissionResponse, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	to, err := model.Transition(sub.Status, model.EventReactivate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := withFreshToken(func(token string) (*model.Submission, error) {
		return s.repo.UpdateStatus(ctx, sub.ID, sub.Status, map[string]interface{}{
			"status":           to,
			"token":            token,
			"expires_at":       now.Add(s.settings.TokenTTL),
			"reviewed_by":      nil,
			"reviewed_at":      nil,
			"review_notes":     nil,
			"rejection_reason": nil,
			"submitted_at":     nil,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(adminID, sub.ID, model.EventReactivate, sub.Status, to)

	admin := adminID
	notifyAuthor(ctx, s.notifier, commmodel.TypeTokenRegenerated, updated, &admin, linkData(updated))

	return model.NewAdminSubmissionResponse(updated, now), nil
}

// RegenerateToken replaces the token of an editable submission and restarts its deadline.
func (s *reviewService) RegenerateToken(ctx context.Context, adminID, id uuid.UUID) (*model.AdminSubmissionResponse, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := model.Transition(sub.Status, model.EventRegenerateToken); err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := withFreshToken(func(token string) (*model.Submission, error) {
		return s.repo.UpdateStatus(ctx, sub.ID, sub.Status, map[string]interface{}{
			"token":      token,
			"expires_at": now.Add(s.settings.TokenTTL),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(adminID, sub.ID, model.EventRegenerateToken, sub.Status, sub.Status)

	admin := adminID
	notifyAuthor(ctx, s.notifier, commmodel.TypeTokenRegenerated, updated, &admin, linkData(updated))

	return model.NewAdminSubmissionResponse(updated, now), nil
}

func (s *reviewService) ExtendExpiry(ctx context.Context, adminID, id uuid.UUID, req model.ExtendExpiryRequest) (*model.AdminSubmissionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}
	if err := s.validateDays(req.Days); err != nil {
		return nil, err
	}

	updated, err := s.extend(ctx, adminID, id, req.Days)
	if err != nil {
		return nil, err
	}
	return model.NewAdminSubmissionResponse(updated, s.now()), nil
}

// extend pushes the deadline by days, counted from the later of now and the current deadline.
func (s *reviewService) extend(ctx context.Context, adminID, id uuid.UUID, days int) (*model.Submission, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := model.Transition(sub.Status, model.EventExtendExpiry); err != nil {
		return nil, err
	}

	base := s.now()
	if sub.ExpiresAt != nil && sub.ExpiresAt.After(base) {
		base = *sub.ExpiresAt
	}

	updated, err := s.repo.UpdateStatus(ctx, sub.ID, sub.Status, map[string]interface{}{
		"expires_at": base.Add(time.Duration(days) * model.Day),
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(adminID, sub.ID, model.EventExtendExpiry, sub.Status, sub.Status)
	return updated, nil
}

func (s *reviewService) validateDays(days int) error {
	limit := model.ExtendMaxDays
	if s.settings.MaxExtensionDays > 0 && s.settings.MaxExtensionDays < limit {
		limit = s.settings.MaxExtensionDays
	}
	if days < model.ExtendMinDays || days > limit {
		return model.NewValidationError(map[string]string{
			"days": fmt.Sprintf("must be between %d and %d", model.ExtendMinDays, limit),
		})
	}
	return nil
}

func (s *reviewService) logTransition(adminID, id uuid.UUID, event model.Event, from, to model.Status) {
	log.Info().
		Str("admin_id", adminID.String()).
		Str("submission_id", id.String()).
		Str("event", string(event)).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("[ReviewService] Transition applied")
	s.metrics.RecordTransition(string(event), string(from), string(to))
}

func trimmedOrNil(p *string) interface{} {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return v
}
