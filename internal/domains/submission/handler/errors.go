package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/submission/model"
	"editorial-backend/internal/shared/response"
)

// handleError writes coded submission errors with their mapped status and logs the rest as 500.
func handleError(c *gin.Context, err error) {
	var subErr *model.SubmissionError
	if errors.As(err, &subErr) {
		response.ErrorWithDetails(c, model.ToHTTPStatus(err), subErr.Code, subErr.Message, subErr.Details)
		return
	}

	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("[SubmissionHandler] Unexpected error")
	response.InternalServerError(c, "Internal server error")
}
