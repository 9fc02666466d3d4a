package admin

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Me(ctx context.Context, id uuid.UUID) (*AdminDTO, error)
	CreateAdmin(ctx context.Context, req CreateAdminRequest) (*AdminDTO, error)
}
