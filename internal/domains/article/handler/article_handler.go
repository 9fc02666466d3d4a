package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/article/model"
	"editorial-backend/internal/domains/article/service"
	"editorial-backend/internal/shared/response"
)

type ArticleHandler struct {
	service service.ServiceInterface
}

func NewArticleHandler(svc service.ServiceInterface) *ArticleHandler {
	return &ArticleHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// PUBLIC: GET /articles?category=&page=&limit=
// ════════════════════════════════════════════════════════════════

func (h *ArticleHandler) List(c *gin.Context) {
	var req model.ListArticlesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Articles, response.NewMeta(result.Page, result.Limit, result.Total))
}

// ════════════════════════════════════════════════════════════════
// PUBLIC: GET /articles/featured
// ════════════════════════════════════════════════════════════════

func (h *ArticleHandler) Featured(c *gin.Context) {
	articles, err := h.service.Featured(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, articles)
}

// ════════════════════════════════════════════════════════════════
// PUBLIC: GET /articles/search?q=&page=&limit=
// ════════════════════════════════════════════════════════════════

func (h *ArticleHandler) Search(c *gin.Context) {
	var req model.SearchArticlesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Articles, response.NewMeta(result.Page, result.Limit, result.Total))
}

// ════════════════════════════════════════════════════════════════
// PUBLIC: GET /articles/:slug
// ════════════════════════════════════════════════════════════════

func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	article, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, article)
}

// ════════════════════════════════════════════════════════════════
// ADMIN: PUT /admin/articles/:id/featured
// ════════════════════════════════════════════════════════════════

func (h *ArticleHandler) SetFeatured(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid article ID")
		return
	}

	var req model.SetFeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	article, err := h.service.SetFeatured(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, article)
}

func handleError(c *gin.Context, err error) {
	var artErr *model.ArticleError
	if errors.As(err, &artErr) {
		switch artErr.Code {
		case model.ErrCodeArticleNotFound:
			response.ErrorResponse(c, http.StatusNotFound, artErr.Code, artErr.Message)
		case model.ErrCodeValidation:
			response.ErrorWithDetails(c, http.StatusBadRequest, artErr.Code, artErr.Message, artErr.Details)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, artErr.Code, artErr.Message)
		}
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("[ArticleHandler] Unexpected error")
	response.InternalServerError(c, "Internal server error")
}
