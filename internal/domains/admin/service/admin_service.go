package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"editorial-backend/internal/domains/admin"
	"editorial-backend/pkg/jwt"
)

type adminService struct {
	repo       admin.Repository
	jwtManager *jwt.Manager
	bcryptCost int
}

func NewAdminService(repo admin.Repository, jwtManager *jwt.Manager) admin.Service {
	return &adminService{
		repo:       repo,
		jwtManager: jwtManager,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *adminService) Login(ctx context.Context, req admin.LoginRequest) (*admin.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, admin.ErrInvalidCredentials
	}

	a, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, admin.ErrAdminNotFound) {
			return nil, admin.ErrInvalidCredentials
		}
		return nil, err
	}

	// Constant-time comparison.
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, admin.ErrInvalidCredentials
	}

	if !a.IsActive {
		return nil, admin.ErrAdminInactive
	}

	token, expiresAt, err := s.jwtManager.GenerateAccessToken(a.ID.String(), a.Email, a.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	if err := s.repo.UpdateLastLogin(ctx, a.ID); err != nil {
		log.Warn().Err(err).Str("admin_id", a.ID.String()).Msg("[AdminService] Failed to update last login")
	}

	log.Info().Str("admin_id", a.ID.String()).Msg("[AdminService] Admin logged in")

	return &admin.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Admin:       a.ToDTO(),
	}, nil
}

func (s *adminService) Me(ctx context.Context, id uuid.UUID) (*admin.AdminDTO, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, admin.ErrAdminInactive
	}
	return a.ToDTO(), nil
}

func (s *adminService) CreateAdmin(ctx context.Context, req admin.CreateAdminRequest) (*admin.AdminDTO, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &admin.Admin{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         jwt.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}

	return created.ToDTO(), nil
}
