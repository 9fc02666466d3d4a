package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"editorial-backend/internal/domains/submission/model"
	"editorial-backend/internal/domains/submission/service"
	"editorial-backend/internal/shared/response"
)

// AuthorHandler serves the token-authenticated author surface.
type AuthorHandler struct {
	service service.AuthorService
}

func NewAuthorHandler(svc service.AuthorService) *AuthorHandler {
	return &AuthorHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// POST /submissions
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Create(c *gin.Context) {
	var req model.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sub, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, sub)
}

// ════════════════════════════════════════════════════════════════
// GET /submissions/:token
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Get(c *gin.Context) {
	sub, err := h.service.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sub)
}

// ════════════════════════════════════════════════════════════════
// PUT /submissions/:token
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Update(c *gin.Context) {
	var req model.UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sub, err := h.service.Update(c.Request.Context(), c.Param("token"), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sub)
}

// POST /submissions/:token/submit
func (h *AuthorHandler) Submit(c *gin.Context) {
	sub, err := h.service.Submit(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sub)
}

// POST /submissions/resend-token
// The answer is the same whether or not the address has submissions.
func (h *AuthorHandler) ResendToken(c *gin.Context) {
	var req model.ResendTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.ResendToken(c.Request.Context(), req); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "If the address has editable submissions, their links have been emailed.",
	})
}

// GET /submissions/validate-token/:token
func (h *AuthorHandler) ValidateToken(c *gin.Context) {
	res, err := h.service.ValidateToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}
