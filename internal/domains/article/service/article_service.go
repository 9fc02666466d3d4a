package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/article/model"
	"editorial-backend/internal/domains/article/repository"
	"editorial-backend/internal/infrastructure/metrics"
	"editorial-backend/internal/shared/utils"
	"editorial-backend/pkg/cache"
)

const (
	cacheKeyFeatured     = "articles:featured"
	cacheKeySearchPrefix = "articles:search:"
	cachePattern         = "articles:*"

	featuredTTL = 10 * time.Minute
	searchTTL   = 5 * time.Minute
)

type ArticleService struct {
	repo    repository.Repository
	cache   cache.Cache
	metrics *metrics.Metrics
}

// NewService builds the article service. cache may be nil, in which case every read goes to the database.
func NewService(repo repository.Repository, c cache.Cache, m *metrics.Metrics) *ArticleService {
	return &ArticleService{repo: repo, cache: c, metrics: m}
}

func (s *ArticleService) List(ctx context.Context, req model.ListArticlesRequest) (*model.ListArticlesResponse, error) {
	req.Category = strings.TrimSpace(req.Category)
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	page, limit, offset := utils.Pagination(req.Page, req.Limit, model.DefaultPageLimit, model.MaxPageLimit)
	articles, total, err := s.repo.List(ctx, repository.ListFilter{
		Category: req.Category,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}

	return &model.ListArticlesResponse{Articles: articles, Total: total, Page: page, Limit: limit}, nil
}

func (s *ArticleService) Featured(ctx context.Context) ([]*model.ArticleSummary, error) {
	var cached []*model.ArticleSummary
	if s.lookup(ctx, "featured", cacheKeyFeatured, &cached) {
		return cached, nil
	}

	articles, err := s.repo.ListFeatured(ctx, model.FeaturedLimit)
	if err != nil {
		return nil, err
	}

	s.store(ctx, cacheKeyFeatured, articles, featuredTTL)
	return articles, nil
}

func (s *ArticleService) Search(ctx context.Context, req model.SearchArticlesRequest) (*model.ListArticlesResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	page, limit, offset := utils.Pagination(req.Page, req.Limit, model.DefaultPageLimit, model.MaxPageLimit)
	key := searchCacheKey(req.Query, page, limit)

	var cached model.ListArticlesResponse
	if s.lookup(ctx, "search", key, &cached) {
		return &cached, nil
	}

	articles, total, err := s.repo.Search(ctx, req.Query, limit, offset)
	if err != nil {
		return nil, err
	}

	result := &model.ListArticlesResponse{Articles: articles, Total: total, Page: page, Limit: limit}
	s.store(ctx, key, result, searchTTL)
	return result, nil
}

func (s *ArticleService) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, model.NewArticleNotFoundError()
	}
	return s.repo.IncrementViewCountBySlug(ctx, slug)
}

func (s *ArticleService) SetFeatured(ctx context.Context, id uuid.UUID, req model.SetFeaturedRequest) (*model.Article, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	article, err := s.repo.SetFeatured(ctx, id, *req.IsFeatured)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("article_id", id.String()).
		Bool("is_featured", article.IsFeatured).
		Msg("[ArticleService] Featured flag updated")

	s.InvalidateCache(ctx)
	return article, nil
}

func (s *ArticleService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, cachePattern); err != nil {
		log.Warn().Err(err).Msg("[ArticleService] Failed to invalidate article cache")
	}
}

// lookup reports a hit only when the value was found and decoded. Cache errors count as misses.
func (s *ArticleService) lookup(ctx context.Context, name, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}

	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[ArticleService] Cache GET failed")
		s.metrics.RecordCacheLookup(name, "error")
		return false
	}
	if !found {
		s.metrics.RecordCacheLookup(name, "miss")
		return false
	}

	s.metrics.RecordCacheLookup(name, "hit")
	return true
}

func (s *ArticleService) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[ArticleService] Cache SET failed")
	}
}

func searchCacheKey(query string, page, limit int) string {
	sum := md5.Sum([]byte(strings.ToLower(query)))
	return fmt.Sprintf("%s%s:%d:%d", cacheKeySearchPrefix, hex.EncodeToString(sum[:]), page, limit)
}
