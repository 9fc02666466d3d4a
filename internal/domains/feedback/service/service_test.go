package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	commmodel "editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/domains/communication/dispatcher/mocks"
	"editorial-backend/internal/domains/feedback/model"
	submodel "editorial-backend/internal/domains/submission/model"
	submocks "editorial-backend/internal/domains/submission/repository/mocks"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, f *model.Feedback) (*model.Feedback, error) {
	args := m.Called(ctx, f)
	r, _ := args.Get(0).(*model.Feedback)
	return r, args.Error(1)
}

func (m *mockRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Feedback, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*model.Feedback)
	return r, args.Error(1)
}

func (m *mockRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]*model.Feedback, error) {
	args := m.Called(ctx, submissionID)
	r, _ := args.Get(0).([]*model.Feedback)
	return r, args.Error(1)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id uuid.UUID, expected, to model.Status, now time.Time) (*model.Feedback, error) {
	args := m.Called(ctx, id, expected, to, now)
	r, _ := args.Get(0).(*model.Feedback)
	return r, args.Error(1)
}

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newService() (*FeedbackService, *mockRepo, *submocks.Repository, *mocks.Notifier) {
	repo := new(mockRepo)
	subs := new(submocks.Repository)
	notifier := new(mocks.Notifier)
	svc := NewService(repo, subs, notifier)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, subs, notifier
}

func validToken() string {
	return strings.Repeat("ab", 32)
}

func TestCreate_UnderReviewNotifiesAuthor(t *testing.T) {
	svc, repo, subs, notifier := newService()
	adminID := uuid.New()
	sub := &submodel.Submission{ID: uuid.New(), Token: validToken(), Status: submodel.StatusUnderReview, Title: "On Bees", AuthorEmail: "a@example.org"}

	subs.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(f *model.Feedback) bool {
		return f.SubmissionID == sub.ID && f.Content == "Tighten the abstract." && *f.AdminID == adminID
	})).Return(&model.Feedback{ID: uuid.New(), SubmissionID: sub.ID, Content: "Tighten the abstract.", Status: model.StatusPending}, nil)

	f, err := svc.Create(context.Background(), adminID, sub.ID, model.CreateFeedbackRequest{Content: "  Tighten the abstract.  "})

	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, f.Status)
	sent := notifier.SentOfType(commmodel.TypeFeedbackPosted)
	require.Len(t, sent, 1)
	assert.Equal(t, "a@example.org", sent[0].RecipientEmail)
	assert.Equal(t, "Tighten the abstract.", sent[0].Data.FeedbackContent)
}

func TestCreate_RejectedOnDraft(t *testing.T) {
	svc, repo, subs, notifier := newService()
	sub := &submodel.Submission{ID: uuid.New(), Status: submodel.StatusDraft}
	subs.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)

	_, err := svc.Create(context.Background(), uuid.New(), sub.ID, model.CreateFeedbackRequest{Content: "x"})

	assert.ErrorIs(t, err, model.ErrSubmissionNotReady)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, notifier.Sent())
}

func TestCreate_EmptyContent(t *testing.T) {
	svc, _, subs, _ := newService()

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), model.CreateFeedbackRequest{Content: "   "})

	assert.ErrorIs(t, err, model.ErrValidation)
	subs.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestUpdateStatus_ResolvedIsTerminal(t *testing.T) {
	svc, repo, _, _ := newService()
	f := &model.Feedback{ID: uuid.New(), Status: model.StatusResolved}
	repo.On("FindByID", mock.Anything, f.ID).Return(f, nil)

	_, err := svc.UpdateStatus(context.Background(), f.ID, model.UpdateStatusRequest{Status: model.StatusAddressed})

	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_PendingToResolved(t *testing.T) {
	svc, repo, _, _ := newService()
	f := &model.Feedback{ID: uuid.New(), Status: model.StatusPending}
	repo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
	repo.On("UpdateStatus", mock.Anything, f.ID, model.StatusPending, model.StatusResolved, fixedNow).
		Return(&model.Feedback{ID: f.ID, Status: model.StatusResolved}, nil)

	got, err := svc.UpdateStatus(context.Background(), f.ID, model.UpdateStatusRequest{Status: model.StatusResolved})

	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, got.Status)
}

func TestMarkAddressed_MalformedTokenNeverQueries(t *testing.T) {
	svc, _, subs, _ := newService()

	_, err := svc.MarkAddressed(context.Background(), "not-a-token", uuid.New())

	assert.ErrorIs(t, err, submodel.ErrInvalidToken)
	subs.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
}

func TestMarkAddressed_OtherSubmissionsFeedbackIsHidden(t *testing.T) {
	svc, repo, subs, _ := newService()
	token := validToken()
	sub := &submodel.Submission{ID: uuid.New(), Token: token}
	f := &model.Feedback{ID: uuid.New(), SubmissionID: uuid.New(), Status: model.StatusPending}

	subs.On("FindByToken", mock.Anything, token).Return(sub, nil)
	repo.On("FindByID", mock.Anything, f.ID).Return(f, nil)

	_, err := svc.MarkAddressed(context.Background(), token, f.ID)

	assert.ErrorIs(t, err, model.ErrFeedbackNotFound)
}

func TestMarkAddressed_Pending(t *testing.T) {
	svc, repo, subs, _ := newService()
	token := validToken()
	sub := &submodel.Submission{ID: uuid.New(), Token: token}
	f := &model.Feedback{ID: uuid.New(), SubmissionID: sub.ID, Status: model.StatusPending}

	subs.On("FindByToken", mock.Anything, token).Return(sub, nil)
	repo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
	repo.On("UpdateStatus", mock.Anything, f.ID, model.StatusPending, model.StatusAddressed, fixedNow).
		Return(&model.Feedback{ID: f.ID, Status: model.StatusAddressed, AddressedAt: &fixedNow}, nil)

	got, err := svc.MarkAddressed(context.Background(), token, f.ID)

	require.NoError(t, err)
	assert.Equal(t, model.StatusAddressed, got.Status)
}
