package job

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	commmodel "editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/domains/communication/dispatcher"
	"editorial-backend/internal/domains/submission/model"
	"editorial-backend/internal/domains/submission/repository"
	"editorial-backend/internal/infrastructure/metrics"
	"editorial-backend/internal/shared"
)

// Triggers recorded on each run.
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
	TriggerQueue     = "queue"
)

// AdminDirectory lists who receives the mass-expiration alert.
type AdminDirectory interface {
	ActiveAdminContacts(ctx context.Context) ([]shared.AdminContact, error)
}

// RunResult describes one sweep. AlreadyRunning runs did nothing.
type RunResult struct {
	Trigger        string                     `json:"trigger"`
	AlreadyRunning bool                       `json:"already_running"`
	ExpiredCount   int                        `json:"expired_count"`
	Expired        []*model.ExpiredSubmission `json:"expired"`
	ExpiringSoon   []commmodel.SubmissionRef  `json:"expiring_soon"`
	StartedAt      time.Time                  `json:"started_at"`
	FinishedAt     time.Time                  `json:"finished_at"`
}

// Status is the admin view of the job.
type Status struct {
	Running  bool       `json:"running"`
	Schedule string     `json:"schedule,omitempty"`
	NextRun  *time.Time `json:"next_run,omitempty"`
	LastRun  *RunResult `json:"last_run,omitempty"`
}

// ExpiryJob moves overdue DRAFT and CHANGES_REQUESTED submissions to EXPIRED.
// At most one sweep runs at a time per process; overlapping calls return immediately.
type ExpiryJob struct {
	repo          repository.Repository
	admins        AdminDirectory
	notifier      dispatcher.Notifier
	metrics       *metrics.Metrics
	warningWindow time.Duration
	schedule      string

	running atomic.Bool

	mu      sync.Mutex
	lastRun *RunResult
	cron    *cron.Cron
	entryID cron.EntryID

	now func() time.Time
}

func NewExpiryJob(
	repo repository.Repository,
	admins AdminDirectory,
	notifier dispatcher.Notifier,
	m *metrics.Metrics,
	warningWindow time.Duration,
	schedule string,
) *ExpiryJob {
	return &ExpiryJob{
		repo:          repo,
		admins:        admins,
		notifier:      notifier,
		metrics:       m,
		warningWindow: warningWindow,
		schedule:      schedule,
		now:           time.Now,
	}
}

// ================================================
// ENTRY POINTS
// ================================================

// Start registers the sweep on an in-process cron and starts it.
func (j *ExpiryJob) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cron != nil {
		return nil
	}

	c := cron.New(cron.WithLocation(time.UTC))
	id, err := c.AddFunc(j.schedule, func() {
		if _, err := j.Run(ctx, TriggerScheduled); err != nil {
			log.Error().Err(err).Msg("[ExpiryJob] Scheduled sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid expiry sweep schedule %q: %w", j.schedule, err)
	}

	c.Start()
	j.cron = c
	j.entryID = id

	log.Info().Str("schedule", j.schedule).Msg("[ExpiryJob] Scheduler started")
	return nil
}

// Stop halts the cron and waits for a sweep in progress.
func (j *ExpiryJob) Stop() {
	j.mu.Lock()
	c := j.cron
	j.cron = nil
	j.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	log.Info().Msg("[ExpiryJob] Scheduler stopped")
}

// RunManual is the admin trigger. It shares the guard with the scheduled runs.
func (j *ExpiryJob) RunManual(ctx context.Context) (*RunResult, error) {
	return j.Run(ctx, TriggerManual)
}

// ProcessTask runs the sweep for the periodic task enqueued by the worker scheduler.
func (j *ExpiryJob) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	result, err := j.Run(ctx, TriggerQueue)
	if err != nil {
		return err
	}
	if result.AlreadyRunning {
		log.Info().Msg("[ExpiryJob] Queued sweep skipped, another sweep is running")
	}
	return nil
}

// Status reports whether a sweep is running and how the last one went.
func (j *ExpiryJob) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()

	st := Status{
		Running:  j.running.Load(),
		Schedule: j.schedule,
		LastRun:  j.lastRun,
	}
	if j.cron != nil {
		if next := j.cron.Entry(j.entryID).Next; !next.IsZero() {
			st.NextRun = &next
		}
	}
	return st
}

// ================================================
// SWEEP
// ================================================

// Run performs one guarded sweep. A call made while another sweep is in progress
// returns a result with AlreadyRunning set and touches nothing.
func (j *ExpiryJob) Run(ctx context.Context, trigger string) (*RunResult, error) {
	if !j.running.CompareAndSwap(false, true) {
		log.Warn().Str("trigger", trigger).Msg("[ExpiryJob] Sweep already running, skipping")
		j.metrics.RecordSweep(trigger, "skipped", 0, 0)
		return &RunResult{Trigger: trigger, AlreadyRunning: true}, nil
	}
	defer j.running.Store(false)

	start := time.Now()
	now := j.now()
	result := &RunResult{
		Trigger:      trigger,
		Expired:      []*model.ExpiredSubmission{},
		ExpiringSoon: []commmodel.SubmissionRef{},
		StartedAt:    now,
	}

	expired, err := j.repo.ExpireOverdue(ctx, now)
	if err != nil {
		j.metrics.RecordSweep(trigger, "error", 0, time.Since(start))
		return nil, fmt.Errorf("expire overdue submissions: %w", err)
	}
	result.Expired = expired
	result.ExpiredCount = len(expired)

	if len(expired) > 0 {
		for _, e := range expired {
			j.notifyExpired(ctx, e)
		}

		soon, err := j.repo.ListExpiring(ctx, now, now.Add(j.warningWindow))
		if err != nil {
			log.Warn().Err(err).Msg("[ExpiryJob] Failed to list submissions expiring soon")
		} else {
			for _, s := range soon {
				result.ExpiringSoon = append(result.ExpiringSoon, commmodel.SubmissionRef{
					ID:        s.ID,
					Title:     s.Title,
					ExpiresAt: s.ExpiresAt,
				})
				j.notifyExpiringSoon(ctx, s)
			}
		}

		j.alertAdmins(ctx, expired)
	}

	result.FinishedAt = j.now()

	j.mu.Lock()
	j.lastRun = result
	j.mu.Unlock()

	j.metrics.RecordSweep(trigger, "success", result.ExpiredCount, time.Since(start))
	log.Info().
		Str("trigger", trigger).
		Int("expired", result.ExpiredCount).
		Int("expiring_soon", len(result.ExpiringSoon)).
		Dur("took", time.Since(start)).
		Msg("[ExpiryJob] Sweep finished")

	return result, nil
}

func (j *ExpiryJob) notifyExpired(ctx context.Context, e *model.ExpiredSubmission) {
	id := e.ID
	expiresAt := e.ExpiresAt
	j.notifier.Notify(ctx, commmodel.Notification{
		Type:           commmodel.TypeExpired,
		RecipientEmail: e.AuthorEmail,
		RecipientName:  e.AuthorName,
		SubmissionID:   &id,
		Data: commmodel.NotificationData{
			SubmissionTitle: e.Title,
			AuthorName:      e.AuthorName,
			ExpiresAt:       &expiresAt,
		},
	})
}

func (j *ExpiryJob) notifyExpiringSoon(ctx context.Context, s *model.Submission) {
	id := s.ID
	j.notifier.Notify(ctx, commmodel.Notification{
		Type:           commmodel.TypeExpiringSoon,
		RecipientEmail: s.AuthorEmail,
		RecipientName:  s.AuthorName,
		SubmissionID:   &id,
		Data: commmodel.NotificationData{
			SubmissionTitle: s.Title,
			AuthorName:      s.AuthorName,
			Token:           s.Token,
			ExpiresAt:       s.ExpiresAt,
		},
	})
}

// alertAdmins sends one summary of the expired batch to every active admin.
func (j *ExpiryJob) alertAdmins(ctx context.Context, expired []*model.ExpiredSubmission) {
	if j.admins == nil {
		return
	}

	admins, err := j.admins.ActiveAdminContacts(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("[ExpiryJob] Failed to load admin contacts")
		return
	}

	items := make([]commmodel.SubmissionRef, 0, len(expired))
	for _, e := range expired {
		items = append(items, commmodel.SubmissionRef{ID: e.ID, Title: e.Title})
	}

	for _, a := range admins {
		j.notifier.Notify(ctx, commmodel.Notification{
			Type:           commmodel.TypeAdminExpirationAlert,
			RecipientEmail: a.Email,
			RecipientName:  a.Name,
			Data: commmodel.NotificationData{
				ExpiredCount: len(expired),
				Items:        items,
			},
		})
	}
}
