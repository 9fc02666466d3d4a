package repository_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	articleRepo "editorial-backend/internal/domains/article/repository"
	"editorial-backend/internal/domains/submission/model"
	"editorial-backend/internal/domains/submission/repository"
	"editorial-backend/internal/infrastructure/database/dbtest"
	"editorial-backend/internal/shared/utils"
	"editorial-backend/pkg/database"
)

func seedSubmission(t *testing.T, repo repository.Repository, status model.Status, expiresAt time.Time, email string) *model.Submission {
	t.Helper()

	token, err := utils.GenerateSubmissionToken()
	require.NoError(t, err)

	sub, err := repo.Create(context.Background(), map[string]interface{}{
		"token":        token,
		"status":       status,
		"author_name":  "Ada Lovelace",
		"author_email": email,
		"title":        "Notes on the Analytical Engine",
		"summary":      "Sketch of the engine",
		"content":      "The engine weaves algebraic patterns.",
		"keywords":     []string{"computing", "history"},
		"category":     "history",
		"expires_at":   expiresAt,
	})
	require.NoError(t, err)
	return sub
}

func TestPostgres_ExpireOverdueIsIdempotent(t *testing.T) {
	pool := dbtest.NewPool(t)
	repo := repository.NewPostgresRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	overdueDraft := seedSubmission(t, repo, model.StatusDraft, now.Add(-time.Hour), "ada@example.org")
	overdueChanges := seedSubmission(t, repo, model.StatusChangesRequested, now.Add(-time.Minute), "ada@example.org")
	stillOpen := seedSubmission(t, repo, model.StatusDraft, now.Add(time.Hour), "ada@example.org")
	underReview := seedSubmission(t, repo, model.StatusUnderReview, now.Add(-time.Hour), "ada@example.org")

	first, err := repo.ExpireOverdue(ctx, now)
	require.NoError(t, err)
	require.Len(t, first, 2)

	ids := []interface{}{first[0].ID, first[1].ID}
	assert.ElementsMatch(t, []interface{}{overdueDraft.ID, overdueChanges.ID}, ids)

	second, err := repo.ExpireOverdue(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, second)

	open, err := repo.FindByID(ctx, stillOpen.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, open.Status)

	reviewing, err := repo.FindByID(ctx, underReview.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnderReview, reviewing.Status)
}

func TestPostgres_UpdateEditableRefusesPastDeadline(t *testing.T) {
	pool := dbtest.NewPool(t)
	repo := repository.NewPostgresRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC()

	sub := seedSubmission(t, repo, model.StatusDraft, now.Add(-time.Minute), "ada@example.org")

	_, err := repo.UpdateEditable(ctx, sub.ID, now, map[string]interface{}{"title": "Too late"})

	var subErr *model.SubmissionError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, model.ErrCodeNotEditable, subErr.Code)
}

func TestPostgres_UpdateStatusLosesRace(t *testing.T) {
	pool := dbtest.NewPool(t)
	repo := repository.NewPostgresRepository(pool)
	ctx := context.Background()

	sub := seedSubmission(t, repo, model.StatusDraft, time.Now().Add(time.Hour), "ada@example.org")

	_, err := repo.UpdateStatus(ctx, sub.ID, model.StatusDraft, map[string]interface{}{"status": model.StatusUnderReview})
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, sub.ID, model.StatusDraft, map[string]interface{}{"status": model.StatusUnderReview})
	var subErr *model.SubmissionError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, model.ErrCodeInvalidTransition, subErr.Code)
}

func TestPostgres_ListEditableByEmailIgnoresCase(t *testing.T) {
	pool := dbtest.NewPool(t)
	repo := repository.NewPostgresRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC()

	seedSubmission(t, repo, model.StatusDraft, now.Add(time.Hour), "Ada@Example.org")
	seedSubmission(t, repo, model.StatusDraft, now.Add(-time.Hour), "ada@example.org")
	seedSubmission(t, repo, model.StatusUnderReview, now.Add(time.Hour), "ada@example.org")

	subs, err := repo.ListEditableByEmail(ctx, "ada@example.org", now)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestPostgres_PublishRollsBackWhenArticleInsertFails(t *testing.T) {
	pool := dbtest.NewPool(t)
	repo := repository.NewPostgresRepository(pool)
	articles := articleRepo.NewPostgresRepository(pool)
	txm := database.NewTxManager(pool)
	ctx := context.Background()

	first := seedSubmission(t, repo, model.StatusApproved, time.Now().Add(time.Hour), "ada@example.org")
	second := seedSubmission(t, repo, model.StatusApproved, time.Now().Add(time.Hour), "ada@example.org")

	publish := func(sub *model.Submission) error {
		return txm.WithTransaction(ctx, func(tx pgx.Tx) error {
			if _, err := repo.UpdateStatusWithTx(ctx, tx, sub.ID, model.StatusApproved, map[string]interface{}{
				"status": model.StatusPublished,
			}); err != nil {
				return err
			}
			_, err := articles.CreateWithTx(ctx, tx, map[string]interface{}{
				"submission_id": sub.ID,
				"slug":          "notes-on-the-analytical-engine",
				"title":         sub.Title,
				"summary":       sub.Summary,
				"content":       sub.Content,
				"keywords":      sub.Keywords,
				"category":      sub.Category,
				"author_name":   sub.AuthorName,
			})
			return err
		})
	}

	require.NoError(t, publish(first))

	err := publish(second)
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))

	after, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, after.Status)
}

func TestPostgres_TokenIsUnique(t *testing.T) {
	pool := dbtest.NewPool(t)
	repo := repository.NewPostgresRepository(pool)

	sub := seedSubmission(t, repo, model.StatusDraft, time.Now().Add(time.Hour), "ada@example.org")

	_, err := repo.Create(context.Background(), map[string]interface{}{
		"token":        sub.Token,
		"author_name":  "Grace",
		"author_email": "grace@example.org",
		"title":        "Another",
		"expires_at":   time.Now().Add(time.Hour),
	})
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
}

func TestPostgres_TokenMustBeLowercaseHex(t *testing.T) {
	pool := dbtest.NewPool(t)
	repo := repository.NewPostgresRepository(pool)

	valid, err := utils.GenerateSubmissionToken()
	require.NoError(t, err)

	for _, token := range []string{
		strings.Repeat("z", 64),
		strings.ToUpper(valid),
		strings.Repeat("a", 63) + " ",
	} {
		_, err := repo.Create(context.Background(), map[string]interface{}{
			"token":        token,
			"author_name":  "Grace",
			"author_email": "grace@example.org",
			"title":        "Malformed token",
			"expires_at":   time.Now().Add(time.Hour),
		})
		require.Error(t, err, token)

		var pgErr *pgconn.PgError
		require.True(t, errors.As(err, &pgErr), token)
		assert.Equal(t, "23514", pgErr.Code, token)
	}
}
