package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/feedback/model"
	"editorial-backend/internal/domains/feedback/service"
	submodel "editorial-backend/internal/domains/submission/model"
	"editorial-backend/internal/shared/middleware"
	"editorial-backend/internal/shared/response"
)

type FeedbackHandler struct {
	service service.ServiceInterface
}

func NewFeedbackHandler(svc service.ServiceInterface) *FeedbackHandler {
	return &FeedbackHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// ADMIN: POST /admin/review/submissions/:id/feedback
// ════════════════════════════════════════════════════════════════

func (h *FeedbackHandler) Create(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid submission ID")
		return
	}

	var req model.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	f, err := h.service.Create(c.Request.Context(), middleware.AdminIDFrom(c), submissionID, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, f)
}

// ADMIN: GET /admin/review/submissions/:id/feedback
func (h *FeedbackHandler) ListForSubmission(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid submission ID")
		return
	}

	list, err := h.service.ListForSubmission(c.Request.Context(), submissionID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, list)
}

// ADMIN: PUT /admin/feedback/:id/status
func (h *FeedbackHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid feedback ID")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	f, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, f)
}

// ════════════════════════════════════════════════════════════════
// AUTHOR: GET /submissions/:token/feedback
// ════════════════════════════════════════════════════════════════

func (h *FeedbackHandler) ListForToken(c *gin.Context) {
	list, err := h.service.ListForToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, list)
}

// AUTHOR: PUT /submissions/:token/feedback/:id/addressed
func (h *FeedbackHandler) MarkAddressed(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid feedback ID")
		return
	}

	f, err := h.service.MarkAddressed(c.Request.Context(), c.Param("token"), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, f)
}

func handleError(c *gin.Context, err error) {
	var fbErr *model.FeedbackError
	if errors.As(err, &fbErr) {
		response.ErrorWithDetails(c, model.ToHTTPStatus(err), fbErr.Code, fbErr.Message, fbErr.Details)
		return
	}

	var subErr *submodel.SubmissionError
	if errors.As(err, &subErr) {
		response.ErrorWithDetails(c, submodel.ToHTTPStatus(err), subErr.Code, subErr.Message, subErr.Details)
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("[FeedbackHandler] Unexpected error")
	response.InternalServerError(c, "Internal server error")
}
