package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	commmodel "editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/domains/communication/dispatcher/mocks"
	"editorial-backend/internal/domains/submission/model"
	submocks "editorial-backend/internal/domains/submission/repository/mocks"
	"editorial-backend/internal/shared"
)

var sweepNow = time.Date(2026, 4, 10, 2, 0, 0, 0, time.UTC)

type mockAdmins struct {
	mock.Mock
}

func (m *mockAdmins) ActiveAdminContacts(ctx context.Context) ([]shared.AdminContact, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]shared.AdminContact)
	return l, args.Error(1)
}

func newJob(repo *submocks.Repository, admins *mockAdmins, n *mocks.Notifier) *ExpiryJob {
	j := NewExpiryJob(repo, admins, n, nil, 5*model.Day, "0 2 * * *")
	j.now = func() time.Time { return sweepNow }
	return j
}

func expiredRow(title string) *model.ExpiredSubmission {
	return &model.ExpiredSubmission{
		ID:          uuid.New(),
		Title:       title,
		AuthorName:  "Ada",
		AuthorEmail: "ada@example.org",
		ExpiresAt:   sweepNow.Add(-model.Day),
	}
}

func TestRun_ExpiresAndNotifies(t *testing.T) {
	repo := new(submocks.Repository)
	admins := new(mockAdmins)
	n := new(mocks.Notifier)

	expired := []*model.ExpiredSubmission{expiredRow("First"), expiredRow("Second")}
	soonDeadline := sweepNow.Add(2 * model.Day)
	soon := &model.Submission{
		ID:          uuid.New(),
		Token:       "ab",
		Status:      model.StatusDraft,
		Title:       "Almost due",
		AuthorEmail: "grace@example.org",
		ExpiresAt:   &soonDeadline,
	}

	repo.On("ExpireOverdue", mock.Anything, sweepNow).Return(expired, nil)
	repo.On("ListExpiring", mock.Anything, sweepNow, sweepNow.Add(5*model.Day)).Return([]*model.Submission{soon}, nil)
	admins.On("ActiveAdminContacts", mock.Anything).Return([]shared.AdminContact{
		{ID: uuid.NewString(), Email: "editor@example.org", Name: "Editor"},
		{ID: uuid.NewString(), Email: "chief@example.org", Name: "Chief"},
	}, nil)

	res, err := newJob(repo, admins, n).Run(context.Background(), TriggerManual)

	require.NoError(t, err)
	assert.False(t, res.AlreadyRunning)
	assert.Equal(t, 2, res.ExpiredCount)
	require.Len(t, res.ExpiringSoon, 1)
	assert.Equal(t, soon.ID, res.ExpiringSoon[0].ID)
	assert.Empty(t, res.ExpiringSoon[0].Token)

	assert.Len(t, n.SentOfType(commmodel.TypeExpired), 2)
	warn := n.SentOfType(commmodel.TypeExpiringSoon)
	require.Len(t, warn, 1)
	assert.Equal(t, "ab", warn[0].Data.Token)

	alerts := n.SentOfType(commmodel.TypeAdminExpirationAlert)
	require.Len(t, alerts, 2)
	assert.Equal(t, 2, alerts[0].Data.ExpiredCount)
	assert.Len(t, alerts[0].Data.Items, 2)
}

func TestRun_NothingExpiredSendsNothing(t *testing.T) {
	repo := new(submocks.Repository)
	admins := new(mockAdmins)
	n := new(mocks.Notifier)
	repo.On("ExpireOverdue", mock.Anything, sweepNow).Return([]*model.ExpiredSubmission{}, nil)

	res, err := newJob(repo, admins, n).Run(context.Background(), TriggerScheduled)

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExpiredCount)
	assert.Empty(t, n.Sent())
	repo.AssertNotCalled(t, "ListExpiring", mock.Anything, mock.Anything, mock.Anything)
	admins.AssertNotCalled(t, "ActiveAdminContacts", mock.Anything)
}

func TestRun_SecondRunExpiresNothingMore(t *testing.T) {
	repo := new(submocks.Repository)
	admins := new(mockAdmins)
	n := new(mocks.Notifier)

	repo.On("ExpireOverdue", mock.Anything, sweepNow).Return([]*model.ExpiredSubmission{expiredRow("Once")}, nil).Once()
	repo.On("ExpireOverdue", mock.Anything, sweepNow).Return([]*model.ExpiredSubmission{}, nil).Once()
	repo.On("ListExpiring", mock.Anything, mock.Anything, mock.Anything).Return([]*model.Submission{}, nil)
	admins.On("ActiveAdminContacts", mock.Anything).Return([]shared.AdminContact{}, nil)

	j := newJob(repo, admins, n)

	first, err := j.Run(context.Background(), TriggerManual)
	require.NoError(t, err)
	second, err := j.Run(context.Background(), TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, 1, first.ExpiredCount)
	assert.Equal(t, 0, second.ExpiredCount)
	assert.Len(t, n.SentOfType(commmodel.TypeExpired), 1)
}

func TestRun_OverlappingCallIsNoop(t *testing.T) {
	repo := new(submocks.Repository)
	n := new(mocks.Notifier)

	entered := make(chan struct{})
	release := make(chan struct{})
	repo.On("ExpireOverdue", mock.Anything, sweepNow).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return([]*model.ExpiredSubmission{}, nil).Once()

	j := newJob(repo, nil, n)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = j.Run(context.Background(), TriggerScheduled)
	}()

	<-entered
	assert.True(t, j.Status().Running)

	res, err := j.RunManual(context.Background())
	require.NoError(t, err)
	assert.True(t, res.AlreadyRunning)
	assert.Equal(t, TriggerManual, res.Trigger)

	close(release)
	wg.Wait()

	repo.AssertNumberOfCalls(t, "ExpireOverdue", 1)
	assert.False(t, j.Status().Running)
}

func TestRun_GuardReleasedAfterError(t *testing.T) {
	repo := new(submocks.Repository)
	n := new(mocks.Notifier)
	repo.On("ExpireOverdue", mock.Anything, sweepNow).Return(nil, errors.New("connection refused")).Once()
	repo.On("ExpireOverdue", mock.Anything, sweepNow).Return([]*model.ExpiredSubmission{}, nil).Once()

	j := newJob(repo, nil, n)

	_, err := j.Run(context.Background(), TriggerManual)
	require.Error(t, err)

	res, err := j.Run(context.Background(), TriggerManual)
	require.NoError(t, err)
	assert.False(t, res.AlreadyRunning)
}

func TestStatus_RecordsLastRun(t *testing.T) {
	repo := new(submocks.Repository)
	repo.On("ExpireOverdue", mock.Anything, sweepNow).Return([]*model.ExpiredSubmission{}, nil)

	j := newJob(repo, nil, new(mocks.Notifier))
	assert.Nil(t, j.Status().LastRun)

	_, err := j.Run(context.Background(), TriggerManual)
	require.NoError(t, err)

	st := j.Status()
	require.NotNil(t, st.LastRun)
	assert.Equal(t, TriggerManual, st.LastRun.Trigger)
	assert.Equal(t, sweepNow, st.LastRun.StartedAt)
	assert.Equal(t, "0 2 * * *", st.Schedule)
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	j := NewExpiryJob(new(submocks.Repository), nil, new(mocks.Notifier), nil, model.Day, "not a cron")

	assert.Error(t, j.Start(context.Background()))
}

func TestStartStop_ReportsNextRun(t *testing.T) {
	j := NewExpiryJob(new(submocks.Repository), nil, new(mocks.Notifier), nil, model.Day, "0 2 * * *")

	require.NoError(t, j.Start(context.Background()))
	st := j.Status()
	require.NotNil(t, st.NextRun)
	assert.Equal(t, 2, st.NextRun.UTC().Hour())

	j.Stop()
	assert.Nil(t, j.Status().NextRun)
}
