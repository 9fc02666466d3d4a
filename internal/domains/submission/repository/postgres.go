package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"editorial-backend/internal/domains/submission/model"
	"editorial-backend/internal/shared/utils"
	"editorial-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) Repository {
	return &postgresRepository{db: db}
}

func editableStatuses() []string {
	return []string{string(model.StatusDraft), string(model.StatusChangesRequested)}
}

// =====================================================
// CRUD
// =====================================================

func (r *postgresRepository) Create(ctx context.Context, cols map[string]interface{}) (*model.Submission, error) {
	sub, err := database.Create[model.Submission](ctx, r.db, model.TableName, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return sub, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	sub, err := database.FindByID[model.Submission](ctx, r.db, model.TableName, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, model.NewSubmissionNotFoundError()
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

func (r *postgresRepository) FindByToken(ctx context.Context, token string) (*model.Submission, error) {
	sub, err := database.FindOneBy[model.Submission](ctx, r.db, model.TableName, "token", token)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, model.NewSubmissionNotFoundError()
		}
		return nil, fmt.Errorf("failed to get submission by token: %w", err)
	}
	return sub, nil
}

func (r *postgresRepository) UpdateEditable(ctx context.Context, id uuid.UUID, now time.Time, cols map[string]interface{}) (*model.Submission, error) {
	set, args := buildSet(cols)
	args = append(args, id, editableStatuses(), now)
	n := len(args)

	query := fmt.Sprintf(`
		UPDATE submissions
		SET %s
		WHERE id = $%d AND status = ANY($%d) AND expires_at > $%d
		RETURNING *`, set, n-2, n-1, n)

	sub, err := collectSubmission(r.db.Query(ctx, query, args...))
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}

	current, findErr := r.FindByID(ctx, id)
	if findErr != nil {
		return nil, findErr
	}
	return nil, model.NewNotEditableError(current.Status)
}

// =====================================================
// LIFECYCLE
// =====================================================

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected model.Status, cols map[string]interface{}) (*model.Submission, error) {
	return r.updateStatus(ctx, r.db, id, expected, cols)
}

func (r *postgresRepository) UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expected model.Status, cols map[string]interface{}) (*model.Submission, error) {
	return r.updateStatus(ctx, tx, id, expected, cols)
}

func (r *postgresRepository) updateStatus(ctx context.Context, q database.DBTX, id uuid.UUID, expected model.Status, cols map[string]interface{}) (*model.Submission, error) {
	set, args := buildSet(cols)
	args = append(args, id, expected)
	n := len(args)

	query := fmt.Sprintf(`
		UPDATE submissions
		SET %s
		WHERE id = $%d AND status = $%d
		RETURNING *`, set, n-1, n)

	sub, err := collectSubmission(q.Query(ctx, query, args...))
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("failed to update submission status: %w", err)
	}

	// Zero rows: either the id is unknown or the status moved on.
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM submissions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check submission: %w", err)
	}
	if !exists {
		return nil, model.NewSubmissionNotFoundError()
	}
	return nil, model.NewStatusChangedError(expected)
}

func (r *postgresRepository) ExpireOverdue(ctx context.Context, now time.Time) ([]*model.ExpiredSubmission, error) {
	query := `
		UPDATE submissions
		SET status = $1, updated_at = NOW()
		WHERE status = ANY($2) AND expires_at < $3
		RETURNING id, token, title, author_name, author_email, expires_at`

	rows, err := r.db.Query(ctx, query, model.StatusExpired, editableStatuses(), now)
	if err != nil {
		return nil, fmt.Errorf("failed to expire submissions: %w", err)
	}

	expired, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.ExpiredSubmission])
	if err != nil {
		return nil, fmt.Errorf("failed to scan expired submissions: %w", err)
	}
	return expired, nil
}

// =====================================================
// LIST
// =====================================================

func (r *postgresRepository) List(ctx context.Context, filter ListFilter) ([]*model.Submission, int, error) {
	var where utils.WhereBuilder
	if filter.Status != "" {
		where.Add("status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + utils.EscapeLike(s) + "%"
		where.Add("(title ILIKE ? OR author_name ILIKE ? OR author_email ILIKE ?)", pattern, pattern, pattern)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM submissions WHERE " + where.SQL()
	if err := r.db.QueryRow(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	args := append([]interface{}{}, where.Args()...)
	query := "SELECT * FROM submissions WHERE " + where.SQL() + " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	subs, err := collectSubmissions(r.db.Query(ctx, query, args...))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, total, nil
}

func (r *postgresRepository) ListEditableByEmail(ctx context.Context, email string, now time.Time) ([]*model.Submission, error) {
	query := `
		SELECT * FROM submissions
		WHERE LOWER(author_email) = LOWER($1) AND status = ANY($2) AND expires_at > $3
		ORDER BY created_at DESC`

	subs, err := collectSubmissions(r.db.Query(ctx, query, email, editableStatuses(), now))
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions by email: %w", err)
	}
	return subs, nil
}

func (r *postgresRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]*model.Submission, error) {
	query := `
		SELECT * FROM submissions
		WHERE status = ANY($1) AND expires_at >= $2 AND expires_at < $3
		ORDER BY expires_at ASC`

	subs, err := collectSubmissions(r.db.Query(ctx, query, editableStatuses(), from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring submissions: %w", err)
	}
	return subs, nil
}

// =====================================================
// STATISTICS
// =====================================================

func (r *postgresRepository) CountByStatus(ctx context.Context) (map[model.Status]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM submissions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Status]int, len(model.AllStatuses))
	for _, s := range model.AllStatuses {
		counts[s] = 0
	}
	for rows.Next() {
		var status model.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *postgresRepository) CountExpiring(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM submissions
		WHERE status = ANY($1) AND expires_at >= $2 AND expires_at < $3`,
		editableStatuses(), from, to,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expiring submissions: %w", err)
	}
	return count, nil
}

// =====================================================
// HELPERS
// =====================================================

// buildSet renders "col = $n" pairs for cols (sorted) plus updated_at = NOW().
func buildSet(cols map[string]interface{}) (string, []interface{}) {
	keys := make([]string, 0, len(cols))
	for k := range cols {
		if k != "updated_at" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys)+1)
	args := make([]interface{}, 0, len(keys)+3)
	for _, k := range keys {
		args = append(args, cols[k])
		sets = append(sets, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(k), len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	return strings.Join(sets, ", "), args
}

func collectSubmission(rows pgx.Rows, err error) (*model.Submission, error) {
	if err != nil {
		return nil, err
	}
	sub, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Submission])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

func collectSubmissions(rows pgx.Rows, err error) ([]*model.Submission, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.Submission])
}
