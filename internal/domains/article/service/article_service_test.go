package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"editorial-backend/internal/domains/article/model"
	"editorial-backend/internal/domains/article/repository"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateWithTx(ctx context.Context, tx pgx.Tx, cols map[string]interface{}) (*model.Article, error) {
	args := m.Called(ctx, tx, cols)
	a, _ := args.Get(0).(*model.Article)
	return a, args.Error(1)
}

func (m *mockRepo) SlugExistsWithTx(ctx context.Context, tx pgx.Tx, slug string) (bool, error) {
	args := m.Called(ctx, tx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Article)
	return a, args.Error(1)
}

func (m *mockRepo) IncrementViewCountBySlug(ctx context.Context, slug string) (*model.Article, error) {
	args := m.Called(ctx, slug)
	a, _ := args.Get(0).(*model.Article)
	return a, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, filter repository.ListFilter) ([]*model.ArticleSummary, int, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]*model.ArticleSummary)
	return list, args.Int(1), args.Error(2)
}

func (m *mockRepo) ListFeatured(ctx context.Context, limit int) ([]*model.ArticleSummary, error) {
	args := m.Called(ctx, limit)
	list, _ := args.Get(0).([]*model.ArticleSummary)
	return list, args.Error(1)
}

func (m *mockRepo) Search(ctx context.Context, query string, limit, offset int) ([]*model.ArticleSummary, int, error) {
	args := m.Called(ctx, query, limit, offset)
	list, _ := args.Get(0).([]*model.ArticleSummary)
	return list, args.Int(1), args.Error(2)
}

func (m *mockRepo) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*model.Article, error) {
	args := m.Called(ctx, id, featured)
	a, _ := args.Get(0).(*model.Article)
	return a, args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCache) DeletePattern(ctx context.Context, pattern string) error {
	return m.Called(ctx, pattern).Error(0)
}

func (m *mockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestFeatured_MissLoadsAndStores(t *testing.T) {
	repo := new(mockRepo)
	c := new(mockCache)
	featured := []*model.ArticleSummary{{ID: uuid.New(), Slug: "on-bees", IsFeatured: true}}

	c.On("Get", mock.Anything, cacheKeyFeatured, mock.Anything).Return(false, nil)
	repo.On("ListFeatured", mock.Anything, model.FeaturedLimit).Return(featured, nil)
	c.On("Set", mock.Anything, cacheKeyFeatured, featured, featuredTTL).Return(nil)

	got, err := NewService(repo, c, nil).Featured(context.Background())

	require.NoError(t, err)
	assert.Equal(t, featured, got)
	repo.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestFeatured_HitSkipsRepository(t *testing.T) {
	repo := new(mockRepo)
	c := new(mockCache)

	c.On("Get", mock.Anything, cacheKeyFeatured, mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*[]*model.ArticleSummary)
			*dest = []*model.ArticleSummary{{Slug: "cached"}}
		}).
		Return(true, nil)

	got, err := NewService(repo, c, nil).Featured(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cached", got[0].Slug)
	repo.AssertNotCalled(t, "ListFeatured", mock.Anything, mock.Anything)
}

func TestFeatured_CacheErrorFallsBackToDatabase(t *testing.T) {
	repo := new(mockRepo)
	c := new(mockCache)

	c.On("Get", mock.Anything, cacheKeyFeatured, mock.Anything).Return(false, errors.New("redis down"))
	c.On("Set", mock.Anything, cacheKeyFeatured, mock.Anything, featuredTTL).Return(errors.New("redis down"))
	repo.On("ListFeatured", mock.Anything, model.FeaturedLimit).Return([]*model.ArticleSummary{}, nil)

	got, err := NewService(repo, c, nil).Featured(context.Background())

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFeatured_NilCache(t *testing.T) {
	repo := new(mockRepo)
	repo.On("ListFeatured", mock.Anything, model.FeaturedLimit).Return([]*model.ArticleSummary{}, nil)

	_, err := NewService(repo, nil, nil).Featured(context.Background())

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSearch_NormalizesQueryAndPaginates(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Search", mock.Anything, "honey bees", 10, 10).
		Return([]*model.ArticleSummary{{Slug: "on-bees"}}, 11, nil)

	got, err := NewService(repo, nil, nil).Search(context.Background(), model.SearchArticlesRequest{
		Query: "  honey   bees ",
		Page:  2,
		Limit: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, 11, got.Total)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 10, got.Limit)
}

func TestSearch_RejectsShortQuery(t *testing.T) {
	repo := new(mockRepo)

	_, err := NewService(repo, nil, nil).Search(context.Background(), model.SearchArticlesRequest{Query: " a "})

	assert.ErrorIs(t, err, model.ErrValidation)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestList_RejectsPageBeyondLimit(t *testing.T) {
	repo := new(mockRepo)

	_, err := NewService(repo, nil, nil).List(context.Background(), model.ListArticlesRequest{
		Page: 461168601842738792,
	})

	assert.ErrorIs(t, err, model.ErrValidation)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestSearchCacheKey_CaseInsensitive(t *testing.T) {
	assert.Equal(t, searchCacheKey("Bees", 1, 20), searchCacheKey("bees", 1, 20))
	assert.NotEqual(t, searchCacheKey("bees", 1, 20), searchCacheKey("bees", 2, 20))
}

func TestGetBySlug_EmptySlugIsNotFound(t *testing.T) {
	_, err := NewService(new(mockRepo), nil, nil).GetBySlug(context.Background(), "  ")
	assert.ErrorIs(t, err, model.ErrArticleNotFound)
}

func TestSetFeatured_InvalidatesCache(t *testing.T) {
	repo := new(mockRepo)
	c := new(mockCache)
	id := uuid.New()

	repo.On("SetFeatured", mock.Anything, id, true).Return(&model.Article{ID: id, IsFeatured: true}, nil)
	c.On("DeletePattern", mock.Anything, cachePattern).Return(nil)

	featured := true
	got, err := NewService(repo, c, nil).SetFeatured(context.Background(), id, model.SetFeaturedRequest{IsFeatured: &featured})

	require.NoError(t, err)
	assert.True(t, got.IsFeatured)
	c.AssertExpectations(t)
}

func TestSetFeatured_RequiresFlag(t *testing.T) {
	repo := new(mockRepo)

	_, err := NewService(repo, nil, nil).SetFeatured(context.Background(), uuid.New(), model.SetFeaturedRequest{})

	assert.ErrorIs(t, err, model.ErrValidation)
	repo.AssertNotCalled(t, "SetFeatured", mock.Anything, mock.Anything, mock.Anything)
}
