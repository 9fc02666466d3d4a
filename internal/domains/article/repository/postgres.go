package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"editorial-backend/internal/domains/article/model"
	"editorial-backend/internal/shared/utils"
	"editorial-backend/pkg/database"
)

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, cols map[string]interface{}) (*model.Article, error) {
	article, err := database.Create[model.Article](ctx, tx, model.TableName, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	return article, nil
}

func (r *postgresRepository) SlugExistsWithTx(ctx context.Context, tx pgx.Tx, slug string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	article, err := database.FindByID[model.Article](ctx, r.db, model.TableName, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, model.NewArticleNotFoundError()
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return article, nil
}

func (r *postgresRepository) IncrementViewCountBySlug(ctx context.Context, slug string) (*model.Article, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE articles SET view_count = view_count + 1
		WHERE slug = $1
		RETURNING *`, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	article, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Article])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewArticleNotFoundError()
		}
		return nil, fmt.Errorf("failed to scan article: %w", err)
	}
	return article, nil
}

func (r *postgresRepository) List(ctx context.Context, filter ListFilter) ([]*model.ArticleSummary, int, error) {
	var where utils.WhereBuilder
	if filter.Category != "" {
		where.Add("category = ?", filter.Category)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM articles WHERE "+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	args := append([]interface{}{}, where.Args()...)
	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM articles WHERE %s
		ORDER BY published_at DESC, id
		LIMIT $%d OFFSET $%d`, model.SummaryColumns, where.SQL(), len(args)-1, len(args))

	articles, err := collectSummaries(r.db.Query(ctx, query, args...))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, total, nil
}

func (r *postgresRepository) ListFeatured(ctx context.Context, limit int) ([]*model.ArticleSummary, error) {
	query := fmt.Sprintf(`SELECT %s FROM articles
		WHERE is_featured = TRUE
		ORDER BY published_at DESC
		LIMIT $1`, model.SummaryColumns)

	articles, err := collectSummaries(r.db.Query(ctx, query, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list featured articles: %w", err)
	}
	return articles, nil
}

// Search matches title, summary and keywords case-insensitively; title hits rank first.
func (r *postgresRepository) Search(ctx context.Context, query string, limit, offset int) ([]*model.ArticleSummary, int, error) {
	pattern := "%" + utils.EscapeLike(query) + "%"
	const match = `(title ILIKE $1 OR summary ILIKE $1 OR array_to_string(keywords, ' ') ILIKE $1)`

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM articles WHERE "+match, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	sql := fmt.Sprintf(`SELECT %s FROM articles
		WHERE %s
		ORDER BY (title ILIKE $1) DESC, published_at DESC, id
		LIMIT $2 OFFSET $3`, model.SummaryColumns, match)

	articles, err := collectSummaries(r.db.Query(ctx, sql, pattern, limit, offset))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search articles: %w", err)
	}
	return articles, total, nil
}

func (r *postgresRepository) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*model.Article, error) {
	article, err := database.Update[model.Article](ctx, r.db, model.TableName, id, map[string]interface{}{
		"is_featured": featured,
		"updated_at":  time.Now(),
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, model.NewArticleNotFoundError()
		}
		return nil, fmt.Errorf("failed to update article: %w", err)
	}
	return article, nil
}

func collectSummaries(rows pgx.Rows, err error) ([]*model.ArticleSummary, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.ArticleSummary])
}
