package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editorial-backend/internal/infrastructure/database/dbtest"
	"editorial-backend/pkg/database"
)

type adminRow struct {
	ID           uuid.UUID  `db:"id"`
	Email        string     `db:"email"`
	Name         string     `db:"name"`
	PasswordHash string     `db:"password_hash"`
	Role         string     `db:"role"`
	IsActive     bool       `db:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func TestPostgres_CRUDRoundTrip(t *testing.T) {
	pool := dbtest.NewPool(t)
	ctx := context.Background()

	created, err := database.Create[adminRow](ctx, pool, "admins", map[string]any{
		"email":         "editor@example.org",
		"name":          "Editor",
		"password_hash": "x",
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	byEmail, err := database.FindOneBy[adminRow](ctx, pool, "admins", "email", "editor@example.org")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	updated, err := database.Update[adminRow](ctx, pool, "admins", created.ID, map[string]any{"name": "Chief Editor"})
	require.NoError(t, err)
	assert.Equal(t, "Chief Editor", updated.Name)

	deleted, err := database.Delete[adminRow](ctx, pool, "admins", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "Chief Editor", deleted.Name)

	_, err = database.FindByID[adminRow](ctx, pool, "admins", created.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestPostgres_DeleteMissingRowIsNotFound(t *testing.T) {
	pool := dbtest.NewPool(t)

	_, err := database.Delete[adminRow](context.Background(), pool, "admins", uuid.New())

	assert.ErrorIs(t, err, database.ErrNotFound)
}
