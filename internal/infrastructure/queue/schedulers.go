package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"editorial-backend/internal/shared"
	"editorial-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	sweepCron string
}

// NewScheduler creates the periodic task scheduler run by the worker.
func NewScheduler(redis asynq.RedisClientOpt, sweepCron string) *Scheduler {
	scheduler := asynq.NewScheduler(
		redis,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		sweepCron: sweepCron,
	}
}

// RegisterJobs registers every periodic task.
func (s *Scheduler) RegisterJobs() error {
	return s.registerExpirySweepJob()
}

// ================================================
// Expiry sweep (daily at 02:00 UTC by default)
// ================================================
func (s *Scheduler) registerExpirySweepJob() error {
	task := asynq.NewTask(shared.TypeExpireSubmissions, nil)

	// Unique keeps a slow sweep from being enqueued twice in the same window.
	_, err := s.scheduler.Register(
		s.sweepCron,
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
		asynq.Unique(time.Hour),
	)
	if err != nil {
		logger.Error("Failed to register expiry sweep job", err)
		return err
	}

	logger.Info("Registered expiry sweep", map[string]interface{}{"cron": s.sweepCron})
	return nil
}

func (s *Scheduler) Start() error {
	logger.Info("Starting asynq scheduler", nil)
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	logger.Info("Stopping asynq scheduler", nil)
	s.scheduler.Shutdown()
}
