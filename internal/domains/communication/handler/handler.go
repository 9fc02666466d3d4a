package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/domains/communication/service"
	"editorial-backend/internal/shared/middleware"
	"editorial-backend/internal/shared/response"
)

type CommunicationHandler struct {
	service service.ServiceInterface
}

func NewCommunicationHandler(svc service.ServiceInterface) *CommunicationHandler {
	return &CommunicationHandler{service: svc}
}

// GET /admin/communications?submission_id=&type=&page=&limit=
func (h *CommunicationHandler) List(c *gin.Context) {
	var req model.ListCommunicationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Communications, response.NewMeta(result.Page, result.Limit, result.Total))
}

// POST /admin/communications/reminders
func (h *CommunicationHandler) SendReminders(c *gin.Context) {
	var req model.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.SendReminders(c.Request.Context(), middleware.AdminIDFrom(c), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func handleError(c *gin.Context, err error) {
	var comErr *model.CommunicationError
	if errors.As(err, &comErr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, comErr.Code, comErr.Message, comErr.Details)
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("[CommunicationHandler] Unexpected error")
	response.InternalServerError(c, "Internal server error")
}
