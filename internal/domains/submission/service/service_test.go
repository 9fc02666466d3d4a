package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	artmodel "editorial-backend/internal/domains/article/model"
	artrepo "editorial-backend/internal/domains/article/repository"
	"editorial-backend/internal/domains/communication/dispatcher/mocks"
	"editorial-backend/internal/domains/submission/model"
	submocks "editorial-backend/internal/domains/submission/repository/mocks"
	"editorial-backend/pkg/database"
)

var fixedNow = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

var testSettings = Settings{
	TokenTTL:         30 * model.Day,
	WarningWindow:    5 * model.Day,
	MaxExtensionDays: 90,
}

// fakeTx runs the function with a nil transaction; repositories are mocked anyway.
type fakeTx struct {
	mock.Mock
}

func (f *fakeTx) WithTransaction(ctx context.Context, fn database.TxFunc) error {
	f.Called(ctx)
	return fn(nil)
}

type mockArticles struct {
	mock.Mock
}

var _ artrepo.Repository = (*mockArticles)(nil)

func (m *mockArticles) CreateWithTx(ctx context.Context, tx pgx.Tx, cols map[string]interface{}) (*artmodel.Article, error) {
	args := m.Called(ctx, tx, cols)
	a, _ := args.Get(0).(*artmodel.Article)
	return a, args.Error(1)
}

func (m *mockArticles) SlugExistsWithTx(ctx context.Context, tx pgx.Tx, slug string) (bool, error) {
	args := m.Called(ctx, tx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *mockArticles) FindByID(ctx context.Context, id uuid.UUID) (*artmodel.Article, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*artmodel.Article)
	return a, args.Error(1)
}

func (m *mockArticles) IncrementViewCountBySlug(ctx context.Context, slug string) (*artmodel.Article, error) {
	args := m.Called(ctx, slug)
	a, _ := args.Get(0).(*artmodel.Article)
	return a, args.Error(1)
}

func (m *mockArticles) List(ctx context.Context, filter artrepo.ListFilter) ([]*artmodel.ArticleSummary, int, error) {
	args := m.Called(ctx, filter)
	l, _ := args.Get(0).([]*artmodel.ArticleSummary)
	return l, args.Int(1), args.Error(2)
}

func (m *mockArticles) ListFeatured(ctx context.Context, limit int) ([]*artmodel.ArticleSummary, error) {
	args := m.Called(ctx, limit)
	l, _ := args.Get(0).([]*artmodel.ArticleSummary)
	return l, args.Error(1)
}

func (m *mockArticles) Search(ctx context.Context, query string, limit, offset int) ([]*artmodel.ArticleSummary, int, error) {
	args := m.Called(ctx, query, limit, offset)
	l, _ := args.Get(0).([]*artmodel.ArticleSummary)
	return l, args.Int(1), args.Error(2)
}

func (m *mockArticles) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*artmodel.Article, error) {
	args := m.Called(ctx, id, featured)
	a, _ := args.Get(0).(*artmodel.Article)
	return a, args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) InvalidateCache(ctx context.Context) {
	m.Called(ctx)
}

type reviewFixture struct {
	svc      *reviewService
	repo     *submocks.Repository
	articles *mockArticles
	tx       *fakeTx
	notifier *mocks.Notifier
	cache    *mockCache
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		repo:     new(submocks.Repository),
		articles: new(mockArticles),
		tx:       new(fakeTx),
		notifier: new(mocks.Notifier),
		cache:    new(mockCache),
	}
	f.svc = NewReviewService(f.repo, f.articles, f.tx, f.notifier, f.cache, nil, testSettings).(*reviewService)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

type authorFixture struct {
	svc      *authorService
	repo     *submocks.Repository
	notifier *mocks.Notifier
}

func newAuthorFixture() *authorFixture {
	f := &authorFixture{
		repo:     new(submocks.Repository),
		notifier: new(mocks.Notifier),
	}
	f.svc = NewAuthorService(f.repo, f.notifier, nil, testSettings).(*authorService)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func validToken() string {
	return strings.Repeat("0a", 32)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func strPtr(s string) *string {
	return &s
}

// completeSubmission passes the completeness guard.
func completeSubmission(status model.Status) *model.Submission {
	return &model.Submission{
		ID:          uuid.New(),
		Token:       validToken(),
		Status:      status,
		AuthorName:  "Ada Lovelace",
		AuthorEmail: "ada@example.org",
		Title:       "Notes on the Analytical Engine",
		Summary:     "A short summary.",
		Content:     strings.Repeat("The engine weaves algebraic patterns. ", 5),
		Keywords:    []string{"computing", "history"},
		Category:    "history",
		ExpiresAt:   timePtr(fixedNow.Add(10 * model.Day)),
	}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func colsHave(key string, want interface{}) interface{} {
	return mock.MatchedBy(func(cols map[string]interface{}) bool {
		v, ok := cols[key]
		return ok && v == want
	})
}
