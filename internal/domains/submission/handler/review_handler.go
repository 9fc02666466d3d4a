package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"editorial-backend/internal/domains/submission/model"
	"editorial-backend/internal/domains/submission/service"
	"editorial-backend/internal/shared/middleware"
	"editorial-backend/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReviewHandler serves /admin/review/submissions.
type ReviewHandler struct {
	service service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// QUERIES
// ════════════════════════════════════════════════════════════════

// GET /admin/review/submissions?status=&search=&page=&limit=
func (h *ReviewHandler) List(c *gin.Context) {
	var req model.ListSubmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	res, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, res.Submissions, response.NewMeta(res.Page, res.Limit, res.Total))
}

// GET /admin/review/submissions/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	sub, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sub)
}

// GET /admin/review/submissions/stats
func (h *ReviewHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// GET /admin/review/submissions/export?status=&search=
func (h *ReviewHandler) Export(c *gin.Context) {
	var req model.ListSubmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	buf, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	filename := fmt.Sprintf("submissions_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ════════════════════════════════════════════════════════════════
// DECISIONS
// ════════════════════════════════════════════════════════════════

// PUT /admin/review/submissions/:id/review
func (h *ReviewHandler) Review(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sub, err := h.service.Review(c.Request.Context(), middleware.AdminIDFrom(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sub)
}

// POST /admin/review/submissions/:id/publish
func (h *ReviewHandler) Publish(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// The body is optional; an empty one publishes without featuring.
	var req model.PublishRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	res, err := h.service.Publish(c.Request.Context(), middleware.AdminIDFrom(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, res)
}

// POST /admin/review/submissions/bulk-action
func (h *ReviewHandler) BulkAction(c *gin.Context) {
	var req model.BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.service.BulkAction(c.Request.Context(), middleware.AdminIDFrom(c), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// ════════════════════════════════════════════════════════════════
// TOKEN AND DEADLINE
// ════════════════════════════════════════════════════════════════

// POST /admin/review/submissions/:id/reactivate
func (h *ReviewHandler) Reactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	sub, err := h.service.Reactivate(c.Request.Context(), middleware.AdminIDFrom(c), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sub)
}

// POST /admin/review/submissions/:id/regenerate-token
func (h *ReviewHandler) RegenerateToken(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	sub, err := h.service.RegenerateToken(c.Request.Context(), middleware.AdminIDFrom(c), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sub)
}

// POST /admin/review/submissions/:id/extend
func (h *ReviewHandler) ExtendExpiry(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.ExtendExpiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sub, err := h.service.ExtendExpiry(c.Request.Context(), middleware.AdminIDFrom(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sub)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid submission ID")
		return uuid.Nil, false
	}
	return id, true
}
