package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/submission/job"
	"editorial-backend/internal/shared/middleware"
	"editorial-backend/internal/shared/response"
)

// Sweeper is the part of the expiry job the admin surface drives.
type Sweeper interface {
	RunManual(ctx context.Context) (*job.RunResult, error)
	Status() job.Status
}

type CleanupHandler struct {
	sweeper Sweeper
}

func NewCleanupHandler(s Sweeper) *CleanupHandler {
	return &CleanupHandler{sweeper: s}
}

// POST /admin/cleanup/run
// A sweep already in progress is reported in the body, not as an error status.
func (h *CleanupHandler) Run(c *gin.Context) {
	log.Info().
		Str("admin_id", middleware.AdminIDFrom(c).String()).
		Msg("[CleanupHandler] Manual sweep requested")

	res, err := h.sweeper.RunManual(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// GET /admin/cleanup/status
func (h *CleanupHandler) Status(c *gin.Context) {
	response.Success(c, http.StatusOK, h.sweeper.Status())
}
