package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"editorial-backend/internal/domains/submission/model"
)

// =====================================================
// SUBMISSION REPOSITORY INTERFACE
// =====================================================

// ListFilter narrows admin listings and exports.
type ListFilter struct {
	Status model.Status
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	// ========================================
	// CRUD Operations
	// ========================================

	// Create inserts a row from column values and returns it.
	// A duplicate token surfaces as a unique violation (database.IsUniqueViolation).
	Create(ctx context.Context, cols map[string]interface{}) (*model.Submission, error)

	FindByID(ctx context.Context, id uuid.UUID) (*model.Submission, error)

	// FindByToken expects a token that already passed format validation.
	FindByToken(ctx context.Context, token string) (*model.Submission, error)

	// UpdateEditable applies author edits only while the row is editable at now.
	// Returns model.ErrNotEditable when the row left the editable window.
	UpdateEditable(ctx context.Context, id uuid.UUID, now time.Time, cols map[string]interface{}) (*model.Submission, error)

	// ========================================
	// Lifecycle (compare-and-set on status)
	// ========================================

	// UpdateStatus writes cols only if the row is still in expected.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected model.Status, cols map[string]interface{}) (*model.Submission, error)
	UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expected model.Status, cols map[string]interface{}) (*model.Submission, error)

	// ExpireOverdue moves every DRAFT/CHANGES_REQUESTED row whose deadline is before now
	// to EXPIRED in one statement and returns the affected rows.
	ExpireOverdue(ctx context.Context, now time.Time) ([]*model.ExpiredSubmission, error)

	// ========================================
	// LIST Operations
	// ========================================

	List(ctx context.Context, filter ListFilter) ([]*model.Submission, int, error)
	ListEditableByEmail(ctx context.Context, email string, now time.Time) ([]*model.Submission, error)

	// ListExpiring returns editable rows whose deadline falls in [from, to).
	ListExpiring(ctx context.Context, from, to time.Time) ([]*model.Submission, error)

	// ========================================
	// STATISTICS
	// ========================================

	CountByStatus(ctx context.Context) (map[model.Status]int, error)
	CountExpiring(ctx context.Context, from, to time.Time) (int, error)
}
