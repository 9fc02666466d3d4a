package service

import (
	"context"

	"github.com/google/uuid"

	"editorial-backend/internal/domains/article/model"
)

type ServiceInterface interface {
	List(ctx context.Context, req model.ListArticlesRequest) (*model.ListArticlesResponse, error)
	Featured(ctx context.Context) ([]*model.ArticleSummary, error)
	Search(ctx context.Context, req model.SearchArticlesRequest) (*model.ListArticlesResponse, error)

	// GetBySlug returns the article and counts the view.
	GetBySlug(ctx context.Context, slug string) (*model.Article, error)

	SetFeatured(ctx context.Context, id uuid.UUID, req model.SetFeaturedRequest) (*model.Article, error)

	// InvalidateCache drops every cached article listing.
	InvalidateCache(ctx context.Context)
}
