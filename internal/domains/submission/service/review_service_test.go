package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	artmodel "editorial-backend/internal/domains/article/model"
	commmodel "editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/domains/submission/model"
	"editorial-backend/internal/domains/submission/repository"
)

const baseSlug = "notes-on-the-analytical-engine"

// ════════════════════════════════════════════════════════════
// PUBLISH
// ════════════════════════════════════════════════════════════

func TestPublish_OnlyFromApproved(t *testing.T) {
	for _, status := range []model.Status{model.StatusDraft, model.StatusUnderReview, model.StatusPublished, model.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			f := newReviewFixture()
			sub := completeSubmission(status)
			f.repo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)

			_, err := f.svc.Publish(context.Background(), uuid.New(), sub.ID, model.PublishRequest{})

			require.ErrorIs(t, err, model.ErrInvalidTransition)
			assert.Contains(t, err.Error(), "only approved submissions can be published")
			f.tx.AssertNotCalled(t, "WithTransaction", mock.Anything)
			assert.Empty(t, f.notifier.Sent())
		})
	}
}

func TestPublish_CreatesArticleWithFreeSlug(t *testing.T) {
	f := newReviewFixture()
	adminID := uuid.New()
	sub := completeSubmission(model.StatusApproved)
	published := *sub
	published.Status = model.StatusPublished

	f.repo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)
	f.tx.On("WithTransaction", mock.Anything).Return()
	f.repo.On("UpdateStatusWithTx", mock.Anything, mock.Anything, sub.ID, model.StatusApproved, colsHave("status", model.StatusPublished)).
		Return(&published, nil)
	f.articles.On("SlugExistsWithTx", mock.Anything, mock.Anything, baseSlug).Return(true, nil)
	f.articles.On("SlugExistsWithTx", mock.Anything, mock.Anything, baseSlug+"-2").Return(false, nil)
	f.articles.On("CreateWithTx", mock.Anything, mock.Anything, mock.MatchedBy(func(cols map[string]interface{}) bool {
		return cols["slug"] == baseSlug+"-2" && cols["submission_id"] == sub.ID && cols["is_featured"] == true
	})).Return(&artmodel.Article{ID: uuid.New(), Slug: baseSlug + "-2", PublishedAt: fixedNow}, nil)
	f.cache.On("InvalidateCache", mock.Anything).Return()

	resp, err := f.svc.Publish(context.Background(), adminID, sub.ID, model.PublishRequest{IsFeatured: true})

	require.NoError(t, err)
	assert.Equal(t, baseSlug+"-2", resp.Slug)
	assert.Equal(t, sub.ID, resp.SubmissionID)
	assert.Equal(t, fixedNow, resp.PublishedAt)
	f.cache.AssertCalled(t, "InvalidateCache", mock.Anything)

	sent := f.notifier.SentOfType(commmodel.TypePublished)
	require.Len(t, sent, 1)
	assert.Equal(t, baseSlug+"-2", sent[0].Data.ArticleSlug)
	require.NotNil(t, sent[0].AdminID)
	assert.Equal(t, adminID, *sent[0].AdminID)
}

func TestPublish_ArticleFailureLeavesNoSideEffects(t *testing.T) {
	f := newReviewFixture()
	sub := completeSubmission(model.StatusApproved)
	published := *sub
	published.Status = model.StatusPublished

	f.repo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)
	f.tx.On("WithTransaction", mock.Anything).Return()
	f.repo.On("UpdateStatusWithTx", mock.Anything, mock.Anything, sub.ID, model.StatusApproved, mock.Anything).Return(&published, nil)
	f.articles.On("SlugExistsWithTx", mock.Anything, mock.Anything, baseSlug).Return(false, nil)
	f.articles.On("CreateWithTx", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("insert failed"))

	_, err := f.svc.Publish(context.Background(), uuid.New(), sub.ID, model.PublishRequest{})

	require.Error(t, err)
	f.cache.AssertNotCalled(t, "InvalidateCache", mock.Anything)
	assert.Empty(t, f.notifier.Sent())
}

func TestPublish_LostRaceSurfacesStatusChange(t *testing.T) {
	f := newReviewFixture()
	sub := completeSubmission(model.StatusApproved)

	f.repo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)
	f.tx.On("WithTransaction", mock.Anything).Return()
	f.repo.On("UpdateStatusWithTx", mock.Anything, mock.Anything, sub.ID, model.StatusApproved, mock.Anything).
		Return(nil, model.NewStatusChangedError(model.StatusApproved))

	_, err := f.svc.Publish(context.Background(), uuid.New(), sub.ID, model.PublishRequest{})

	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	f.articles.AssertNotCalled(t, "CreateWithTx", mock.Anything, mock.Anything, mock.Anything)
}

// ════════════════════════════════════════════════════════════
// REVIEW DECISIONS
// ════════════════════════════════════════════════════════════

func TestReview_ApproveRecordsReviewer(t *testing.T) {
	f := newReviewFixture()
	adminID := uuid.New()
	sub := completeSubmission(model.StatusUnderReview)
	approved := *sub
	approved.Status = model.StatusApproved

	f.repo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)
	f.repo.On("UpdateStatus", mock.Anything, sub.ID, model.StatusUnderReview, mock.MatchedBy(func(cols map[string]interface{}) bool {
		return cols["status"] == model.StatusApproved && cols["reviewed_by"] == adminID && cols["reviewed_at"] == fixedNow
	})).Return(&approved, nil)

	resp, err := f.svc.Review(context.Background(), adminID, sub.ID, model.ReviewRequest{Action: model.ReviewActionApprove})

	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, resp.Status)
	assert.Equal(t, []model.Event{model.EventPublish}, resp.AllowedEvents)
	assert.Len(t, f.notifier.SentOfType(commmodel.TypeApproved), 1)
}

func TestReview_RequestChangesRestartsDeadline(t *testing.T) {
	f := newReviewFixture()
	sub := completeSubmission(model.StatusUnderReview)
	sub.ExpiresAt = timePtr(fixedNow.Add(-3 * model.Day))
	newDeadline := fixedNow.Add(testSettings.TokenTTL)
	changed := *sub
	changed.Status = model.StatusChangesRequested
	changed.ExpiresAt = &newDeadline
	changed.ReviewNotes = strPtr("Tighten the introduction")

	f.repo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)
	f.repo.On("UpdateStatus", mock.Anything, sub.ID, model.StatusUnderReview, colsHave("expires_at", newDeadline)).
		Return(&changed, nil)

	resp, err := f.svc.Review(context.Background(), uuid.New(), sub.ID, model.ReviewRequest{
		Action: model.ReviewActionRequestChanges,
		Notes:  strPtr(" Tighten the introduction "),
	})

	require.NoError(t, err)
	assert.True(t, resp.CanEdit)

	sent := f.notifier.SentOfType(commmodel.TypeChangesRequested)
	require.Len(t, sent, 1)
	assert.Equal(t, sub.Token, sent[0].Data.Token)
	assert.Equal(t, "Tighten the introduction", sent[0].Data.Notes)
}

func TestReview_RejectNeedsReason(t *testing.T) {
	f := newReviewFixture()

	_, err := f.svc.Review(context.Background(), uuid.New(), uuid.New(), model.ReviewRequest{
		Action:          model.ReviewActionReject,
		RejectionReason: strPtr("   "),
	})

	assert.ErrorIs(t, err, model.ErrValidation)
	f.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestReview_DraftCannotBeApproved(t *testing.T) {
	f := newReviewFixture()
	sub := completeSubmission(model.StatusDraft)
	f.repo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)

	_, err := f.svc.Review(context.Background(), uuid.New(), sub.ID, model.ReviewRequest{Action: model.ReviewActionApprove})

	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	f.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ════════════════════════════════════════════════════════════
// BULK ACTIONS
// ════════════════════════════════════════════════════════════

func TestBulkAction_TooManyIDsTouchesNothing(t *testing.T) {
	f := newReviewFixture()
	ids := make([]uuid.UUID, model.BulkActionMaxIDs+1)
	for i := range ids {
		ids[i] = uuid.New()
	}

	_, err := f.svc.BulkAction(context.Background(), uuid.New(), model.BulkActionRequest{
		SubmissionIDs: ids,
		Action:        model.BulkActionApprove,
	})

	assert.ErrorIs(t, err, model.ErrValidation)
	f.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestBulkAction_ExtendZeroDaysRejected(t *testing.T) {
	f := newReviewFixture()

	_, err := f.svc.BulkAction(context.Background(), uuid.New(), model.BulkActionRequest{
		SubmissionIDs: []uuid.UUID{uuid.New()},
		Action:        model.BulkActionExtendExpiry,
	})

	assert.ErrorIs(t, err, model.ErrValidation)
	f.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestBulkAction_PartialFailure(t *testing.T) {
	f := newReviewFixture()
	ok := completeSubmission(model.StatusUnderReview)
	draft := completeSubmission(model.StatusDraft)
	missing := uuid.New()
	approved := *ok
	approved.Status = model.StatusApproved

	f.repo.On("FindByID", mock.Anything, ok.ID).Return(ok, nil)
	f.repo.On("FindByID", mock.Anything, draft.ID).Return(draft, nil)
	f.repo.On("FindByID", mock.Anything, missing).Return(nil, model.NewSubmissionNotFoundError())
	f.repo.On("UpdateStatus", mock.Anything, ok.ID, model.StatusUnderReview, mock.Anything).Return(&approved, nil)

	res, err := f.svc.BulkAction(context.Background(), uuid.New(), model.BulkActionRequest{
		SubmissionIDs: []uuid.UUID{ok.ID, draft.ID, missing, ok.ID},
		Action:        model.BulkActionApprove,
	})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ok.ID}, res.Successful)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, draft.ID, res.Failed[0].ID)
	assert.Contains(t, res.Failed[0].Reason, "DRAFT")
	assert.Equal(t, "Submission not found", res.Failed[1].Reason)
	assert.Equal(t, model.BulkSummary{Total: 3, Succeeded: 1, Failed: 2}, res.Summary)
	f.repo.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestBulkAction_ExtendFromLaterDeadline(t *testing.T) {
	f := newReviewFixture()
	future := completeSubmission(model.StatusDraft)
	future.ExpiresAt = timePtr(fixedNow.Add(10 * model.Day))
	overdue := completeSubmission(model.StatusDraft)
	overdue.ExpiresAt = timePtr(fixedNow.Add(-2 * model.Day))

	f.repo.On("FindByID", mock.Anything, future.ID).Return(future, nil)
	f.repo.On("FindByID", mock.Anything, overdue.ID).Return(overdue, nil)
	f.repo.On("UpdateStatus", mock.Anything, future.ID, model.StatusDraft, colsHave("expires_at", fixedNow.Add(17*model.Day))).Return(future, nil)
	f.repo.On("UpdateStatus", mock.Anything, overdue.ID, model.StatusDraft, colsHave("expires_at", fixedNow.Add(7*model.Day))).Return(overdue, nil)

	res, err := f.svc.BulkAction(context.Background(), uuid.New(), model.BulkActionRequest{
		SubmissionIDs: []uuid.UUID{future.ID, overdue.ID},
		Action:        model.BulkActionExtendExpiry,
		Days:          7,
	})

	require.NoError(t, err)
	assert.Len(t, res.Successful, 2)
	f.repo.AssertExpectations(t)
}

// ════════════════════════════════════════════════════════════
// TOKEN AND DEADLINE MANAGEMENT
// ════════════════════════════════════════════════════════════

func TestReactivate_ClearsReviewAndMintsToken(t *testing.T) {
	f := newReviewFixture()
	sub := completeSubmission(model.StatusRejected)
	sub.RejectionReason = strPtr("Out of scope")
	reactivated := completeSubmission(model.StatusDraft)
	reactivated.ID = sub.ID

	f.repo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)
	f.repo.On("UpdateStatus", mock.Anything, sub.ID, model.StatusRejected, mock.MatchedBy(func(cols map[string]interface{}) bool {
		token, _ := cols["token"].(string)
		_, hasReason := cols["rejection_reason"]
		return cols["status"] == model.StatusDraft && token != sub.Token && hasReason && cols["rejection_reason"] == nil &&
			cols["expires_at"] == fixedNow.Add(testSettings.TokenTTL)
	})).Return(reactivated, nil)

	resp, err := f.svc.Reactivate(context.Background(), uuid.New(), sub.ID)

	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, resp.Status)
	assert.Len(t, f.notifier.SentOfType(commmodel.TypeTokenRegenerated), 1)
}

func TestRegenerateToken_RefusedWhileUnderReview(t *testing.T) {
	f := newReviewFixture()
	sub := completeSubmission(model.StatusUnderReview)
	f.repo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)

	_, err := f.svc.RegenerateToken(context.Background(), uuid.New(), sub.ID)

	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Empty(t, f.notifier.Sent())
}

func TestRegenerateToken_KeepsStatus(t *testing.T) {
	f := newReviewFixture()
	sub := completeSubmission(model.StatusChangesRequested)
	f.repo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)
	f.repo.On("UpdateStatus", mock.Anything, sub.ID, model.StatusChangesRequested, mock.MatchedBy(func(cols map[string]interface{}) bool {
		_, touchesStatus := cols["status"]
		return !touchesStatus && cols["token"] != sub.Token
	})).Return(sub, nil)

	_, err := f.svc.RegenerateToken(context.Background(), uuid.New(), sub.ID)

	require.NoError(t, err)
	sent := f.notifier.SentOfType(commmodel.TypeTokenRegenerated)
	require.Len(t, sent, 1)
	assert.NotEmpty(t, sent[0].Data.Token)
}

func TestExtendExpiry_CountsFromNowWhenOverdue(t *testing.T) {
	f := newReviewFixture()
	sub := completeSubmission(model.StatusChangesRequested)
	sub.ExpiresAt = timePtr(fixedNow.Add(-time.Hour))
	f.repo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)
	f.repo.On("UpdateStatus", mock.Anything, sub.ID, model.StatusChangesRequested, colsHave("expires_at", fixedNow.Add(3*model.Day))).
		Return(sub, nil)

	_, err := f.svc.ExtendExpiry(context.Background(), uuid.New(), sub.ID, model.ExtendExpiryRequest{Days: 3})

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}

func TestExtendExpiry_RespectsConfiguredCap(t *testing.T) {
	f := newReviewFixture()
	f.svc.settings.MaxExtensionDays = 14

	_, err := f.svc.ExtendExpiry(context.Background(), uuid.New(), uuid.New(), model.ExtendExpiryRequest{Days: 30})

	assert.ErrorIs(t, err, model.ErrValidation)
	f.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestExtendExpiry_PublishedRefused(t *testing.T) {
	f := newReviewFixture()
	sub := completeSubmission(model.StatusPublished)
	f.repo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)

	_, err := f.svc.ExtendExpiry(context.Background(), uuid.New(), sub.ID, model.ExtendExpiryRequest{Days: 3})

	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

// ════════════════════════════════════════════════════════════
// STATS AND EXPORT
// ════════════════════════════════════════════════════════════

func TestStats(t *testing.T) {
	f := newReviewFixture()
	f.repo.On("CountByStatus", mock.Anything).Return(map[model.Status]int{
		model.StatusDraft:       4,
		model.StatusUnderReview: 2,
		model.StatusPublished:   1,
	}, nil)
	f.repo.On("CountExpiring", mock.Anything, fixedNow, fixedNow.Add(testSettings.WarningWindow)).Return(3, nil)

	stats, err := f.svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 7, stats.Total)
	assert.Equal(t, 3, stats.ExpiringSoon)
}

func TestExport_WritesWorkbook(t *testing.T) {
	f := newReviewFixture()
	sub := completeSubmission(model.StatusUnderReview)
	sub.SubmittedAt = timePtr(fixedNow)
	f.repo.On("List", mock.Anything, repository.ListFilter{Status: model.StatusUnderReview, Limit: model.ExportMaxRows}).
		Return([]*model.Submission{sub}, 1, nil)

	buf, err := f.svc.Export(context.Background(), model.ListSubmissionsRequest{Status: string(model.StatusUnderReview)})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, sub.ID.String(), rows[1][0])
	assert.Equal(t, "computing, history", rows[1][7])
	assert.Equal(t, "2026-04-10T09:00:00Z", rows[1][9])
}

func TestExport_RejectsUnknownStatus(t *testing.T) {
	f := newReviewFixture()

	_, err := f.svc.Export(context.Background(), model.ListSubmissionsRequest{Status: "ARCHIVED"})

	assert.ErrorIs(t, err, model.ErrValidation)
}
