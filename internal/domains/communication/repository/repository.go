package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/shared/utils"
	"editorial-backend/pkg/database"
)

type ListFilter struct {
	SubmissionID *uuid.UUID
	Type         model.Type
	Limit        int
	Offset       int
}

// Repository is append-only: communication rows are never updated or deleted.
type Repository interface {
	Append(ctx context.Context, c *model.Communication) (*model.Communication, error)
	List(ctx context.Context, filter ListFilter) ([]*model.Communication, int, error)
}

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Append(ctx context.Context, c *model.Communication) (*model.Communication, error) {
	cols := map[string]interface{}{
		"submission_id":   c.SubmissionID,
		"type":            c.Type,
		"recipient_email": c.RecipientEmail,
		"subject":         c.Subject,
		"admin_id":        c.AdminID,
		"status":          c.Status,
		"error_message":   c.ErrorMessage,
		"data":            c.Data,
	}

	row, err := database.Create[model.Communication](ctx, r.db, model.TableName, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to append communication: %w", err)
	}
	return row, nil
}

func (r *postgresRepository) List(ctx context.Context, filter ListFilter) ([]*model.Communication, int, error) {
	var where utils.WhereBuilder
	if filter.SubmissionID != nil {
		where.Add("submission_id = ?", *filter.SubmissionID)
	}
	if filter.Type != "" {
		where.Add("type = ?", filter.Type)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM communications WHERE "+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count communications: %w", err)
	}

	args := append([]interface{}{}, where.Args()...)
	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT * FROM communications WHERE %s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d`, where.SQL(), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list communications: %w", err)
	}

	list, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.Communication])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan communications: %w", err)
	}
	return list, total, nil
}
