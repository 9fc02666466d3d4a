package admin

import (
	"context"

	"github.com/google/uuid"

	"editorial-backend/internal/shared"
)

type Repository interface {
	// Create returns ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, a *Admin) (*Admin, error)

	FindByID(ctx context.Context, id uuid.UUID) (*Admin, error)

	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*Admin, error)

	UpdateLastLogin(ctx context.Context, id uuid.UUID) error

	// ActiveAdminContacts lists the recipients of admin alerts.
	ActiveAdminContacts(ctx context.Context) ([]shared.AdminContact, error)
}
