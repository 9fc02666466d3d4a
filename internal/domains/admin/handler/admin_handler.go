package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/admin"
	"editorial-backend/internal/shared/middleware"
	"editorial-backend/internal/shared/response"
)

type AdminHandler struct {
	service admin.Service
}

func NewAdminHandler(svc admin.Service) *AdminHandler {
	return &AdminHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// POST /admin/auth/login
// ════════════════════════════════════════════════════════════════

func (h *AdminHandler) Login(c *gin.Context) {
	var req admin.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrInvalidCredentials):
			response.Unauthorized(c, err.Error())
		case errors.Is(err, admin.ErrAdminInactive):
			response.Forbidden(c, err.Error())
		default:
			log.Error().Err(err).Msg("[AdminHandler] Login failed")
			response.InternalServerError(c, "Internal server error")
		}
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// GET /admin/auth/me
// ════════════════════════════════════════════════════════════════

func (h *AdminHandler) Me(c *gin.Context) {
	id := middleware.AdminIDFrom(c)
	if id == uuid.Nil {
		response.Unauthorized(c, "not authenticated")
		return
	}

	dto, err := h.service.Me(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrAdminNotFound):
			response.Unauthorized(c, "admin no longer exists")
		case errors.Is(err, admin.ErrAdminInactive):
			response.Forbidden(c, err.Error())
		default:
			log.Error().Err(err).Msg("[AdminHandler] Me failed")
			response.InternalServerError(c, "Internal server error")
		}
		return
	}

	response.Success(c, http.StatusOK, dto)
}
