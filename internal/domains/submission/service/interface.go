package service

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"

	"editorial-backend/internal/domains/submission/model"
)

// AuthorService is everything a token holder can do. Authors have no accounts:
// possession of the token is the credential.
type AuthorService interface {
	Create(ctx context.Context, req model.CreateSubmissionRequest) (*model.AuthorSubmissionResponse, error)
	GetByToken(ctx context.Context, token string) (*model.AuthorSubmissionResponse, error)
	Update(ctx context.Context, token string, req model.UpdateSubmissionRequest) (*model.AuthorSubmissionResponse, error)
	Submit(ctx context.Context, token string) (*model.AuthorSubmissionResponse, error)

	// ResendToken emails every editable submission link for the address. It reports
	// success whether or not any submission matched.
	ResendToken(ctx context.Context, req model.ResendTokenRequest) error

	ValidateToken(ctx context.Context, token string) (*model.ValidateTokenResponse, error)
}

// ReviewService is the admin side of the lifecycle.
type ReviewService interface {
	List(ctx context.Context, req model.ListSubmissionsRequest) (*model.ListSubmissionsResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*model.AdminSubmissionResponse, error)

	Review(ctx context.Context, adminID, id uuid.UUID, req model.ReviewRequest) (*model.AdminSubmissionResponse, error)
	Publish(ctx context.Context, adminID, id uuid.UUID, req model.PublishRequest) (*model.PublishResponse, error)
	Reactivate(ctx context.Context, adminID, id uuid.UUID) (*model.AdminSubmissionResponse, error)
	RegenerateToken(ctx context.Context, adminID, id uuid.UUID) (*model.AdminSubmissionResponse, error)
	ExtendExpiry(ctx context.Context, adminID, id uuid.UUID, req model.ExtendExpiryRequest) (*model.AdminSubmissionResponse, error)

	// BulkAction validates the whole request first, then applies the action item by item.
	BulkAction(ctx context.Context, adminID uuid.UUID, req model.BulkActionRequest) (*model.BulkActionResult, error)

	Stats(ctx context.Context) (*model.SubmissionStats, error)
	Export(ctx context.Context, req model.ListSubmissionsRequest) (*bytes.Buffer, error)
}

// Settings are the lifecycle knobs read from configuration.
type Settings struct {
	TokenTTL         time.Duration
	WarningWindow    time.Duration
	MaxExtensionDays int
}

// ArticleCache is invalidated after a publish so the read paths see the new article.
type ArticleCache interface {
	InvalidateCache(ctx context.Context)
}

const maxTokenAttempts = 3
