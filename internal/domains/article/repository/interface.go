package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"editorial-backend/internal/domains/article/model"
)

type ListFilter struct {
	Category string
	Limit    int
	Offset   int
}

type Repository interface {
	// CreateWithTx inserts the article inside the publish transaction.
	CreateWithTx(ctx context.Context, tx pgx.Tx, cols map[string]interface{}) (*model.Article, error)

	// SlugExistsWithTx is used to pick a free slug before inserting.
	SlugExistsWithTx(ctx context.Context, tx pgx.Tx, slug string) (bool, error)

	FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error)

	// IncrementViewCountBySlug bumps view_count and returns the updated article.
	IncrementViewCountBySlug(ctx context.Context, slug string) (*model.Article, error)

	List(ctx context.Context, filter ListFilter) ([]*model.ArticleSummary, int, error)
	ListFeatured(ctx context.Context, limit int) ([]*model.ArticleSummary, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*model.ArticleSummary, int, error)

	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*model.Article, error)
}
