package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"editorial-backend/internal/domains/feedback/model"
	"editorial-backend/pkg/database"
)

type Repository interface {
	Create(ctx context.Context, f *model.Feedback) (*model.Feedback, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Feedback, error)
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]*model.Feedback, error)

	// UpdateStatus moves the row from expected to to. A concurrent change yields ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, to model.Status, now time.Time) (*model.Feedback, error)
}

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, f *model.Feedback) (*model.Feedback, error) {
	created, err := database.Create[model.Feedback](ctx, r.db, model.TableName, map[string]interface{}{
		"submission_id": f.SubmissionID,
		"admin_id":      f.AdminID,
		"content":       f.Content,
		"status":        model.StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Feedback, error) {
	f, err := database.FindByID[model.Feedback](ctx, r.db, model.TableName, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, model.NewFeedbackNotFoundError()
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return f, nil
}

func (r *postgresRepository) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]*model.Feedback, error) {
	rows, err := r.db.Query(ctx, `SELECT * FROM feedback WHERE submission_id = $1 ORDER BY created_at ASC`, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	list, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.Feedback])
	if err != nil {
		return nil, fmt.Errorf("failed to scan feedback: %w", err)
	}
	return list, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, to model.Status, now time.Time) (*model.Feedback, error) {
	column := "resolved_at"
	if to == model.StatusAddressed {
		column = "addressed_at"
	}

	query := fmt.Sprintf(`
		UPDATE feedback
		SET status = $1, %s = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING *`, column)

	rows, err := r.db.Query(ctx, query, to, now, id, expected)
	if err != nil {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}

	f, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Feedback])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewInvalidTransitionError(expected, to)
		}
		return nil, fmt.Errorf("failed to scan feedback: %w", err)
	}
	return f, nil
}
