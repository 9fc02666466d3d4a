// Package mocks holds testify mocks of the submission repository for service and job tests.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"editorial-backend/internal/domains/submission/model"
	"editorial-backend/internal/domains/submission/repository"
)

type Repository struct {
	mock.Mock
}

var _ repository.Repository = (*Repository)(nil)

func (m *Repository) Create(ctx context.Context, cols map[string]interface{}) (*model.Submission, error) {
	args := m.Called(ctx, cols)
	return submission(args.Get(0)), args.Error(1)
}

func (m *Repository) FindByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	args := m.Called(ctx, id)
	return submission(args.Get(0)), args.Error(1)
}

func (m *Repository) FindByToken(ctx context.Context, token string) (*model.Submission, error) {
	args := m.Called(ctx, token)
	return submission(args.Get(0)), args.Error(1)
}

func (m *Repository) UpdateEditable(ctx context.Context, id uuid.UUID, now time.Time, cols map[string]interface{}) (*model.Submission, error) {
	args := m.Called(ctx, id, now, cols)
	return submission(args.Get(0)), args.Error(1)
}

func (m *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, expected model.Status, cols map[string]interface{}) (*model.Submission, error) {
	args := m.Called(ctx, id, expected, cols)
	return submission(args.Get(0)), args.Error(1)
}

func (m *Repository) UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expected model.Status, cols map[string]interface{}) (*model.Submission, error) {
	args := m.Called(ctx, tx, id, expected, cols)
	return submission(args.Get(0)), args.Error(1)
}

func (m *Repository) ExpireOverdue(ctx context.Context, now time.Time) ([]*model.ExpiredSubmission, error) {
	args := m.Called(ctx, now)
	rows, _ := args.Get(0).([]*model.ExpiredSubmission)
	return rows, args.Error(1)
}

func (m *Repository) List(ctx context.Context, filter repository.ListFilter) ([]*model.Submission, int, error) {
	args := m.Called(ctx, filter)
	return submissions(args.Get(0)), args.Int(1), args.Error(2)
}

func (m *Repository) ListEditableByEmail(ctx context.Context, email string, now time.Time) ([]*model.Submission, error) {
	args := m.Called(ctx, email, now)
	return submissions(args.Get(0)), args.Error(1)
}

func (m *Repository) ListExpiring(ctx context.Context, from, to time.Time) ([]*model.Submission, error) {
	args := m.Called(ctx, from, to)
	return submissions(args.Get(0)), args.Error(1)
}

func (m *Repository) CountByStatus(ctx context.Context) (map[model.Status]int, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[model.Status]int)
	return counts, args.Error(1)
}

func (m *Repository) CountExpiring(ctx context.Context, from, to time.Time) (int, error) {
	args := m.Called(ctx, from, to)
	return args.Int(0), args.Error(1)
}

func submission(v interface{}) *model.Submission {
	s, _ := v.(*model.Submission)
	return s
}

func submissions(v interface{}) []*model.Submission {
	s, _ := v.([]*model.Submission)
	return s
}
