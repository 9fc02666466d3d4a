package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"editorial-backend/internal/domains/admin"
	"editorial-backend/internal/shared"
	"editorial-backend/pkg/database"
)

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) admin.Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, a *admin.Admin) (*admin.Admin, error) {
	created, err := database.Create[admin.Admin](ctx, r.db, admin.TableName, map[string]interface{}{
		"email":         a.Email,
		"name":          a.Name,
		"password_hash": a.PasswordHash,
		"role":          a.Role,
		"is_active":     a.IsActive,
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, admin.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*admin.Admin, error) {
	a, err := database.FindByID[admin.Admin](ctx, r.db, admin.TableName, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, admin.ErrAdminNotFound
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*admin.Admin, error) {
	rows, err := r.db.Query(ctx, `SELECT * FROM admins WHERE LOWER(email) = LOWER($1)`, email)
	if err != nil {
		return nil, fmt.Errorf("find admin by email: %w", err)
	}

	a, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[admin.Admin])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, admin.ErrAdminNotFound
		}
		return nil, fmt.Errorf("scan admin: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE admins SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return admin.ErrAdminNotFound
	}
	return nil
}

func (r *postgresRepository) ActiveAdminContacts(ctx context.Context) ([]shared.AdminContact, error) {
	rows, err := r.db.Query(ctx, `SELECT id::text AS id, email, name FROM admins WHERE is_active = TRUE ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list active admins: %w", err)
	}

	contacts, err := pgx.CollectRows(rows, pgx.RowToStructByName[shared.AdminContact])
	if err != nil {
		return nil, fmt.Errorf("scan admin contacts: %w", err)
	}
	return contacts, nil
}
