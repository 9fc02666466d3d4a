package dispatcher

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/infrastructure/metrics"
	"editorial-backend/internal/infrastructure/queue"
	"editorial-backend/internal/shared"
)

// enqueueTimeout bounds how long a request handler waits on Redis for one notification.
const enqueueTimeout = 500 * time.Millisecond

// Notifier hands a notification off for delivery. It never fails the caller:
// the triggering change is already committed and delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

// Enqueuer is the part of *asynq.Client the dispatcher uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type asynqNotifier struct {
	client   Enqueuer
	metrics  *metrics.Metrics
	maxRetry int
	timeout  time.Duration
}

// NewAsynqNotifier enqueues one communication task per notification for the worker.
func NewAsynqNotifier(client Enqueuer, m *metrics.Metrics, maxRetry int) Notifier {
	if maxRetry < 0 {
		maxRetry = 0
	}
	return &asynqNotifier{client: client, metrics: m, maxRetry: maxRetry, timeout: enqueueTimeout}
}

func (d *asynqNotifier) Notify(ctx context.Context, n model.Notification) {
	logger := log.With().
		Str("type", string(n.Type)).
		Str("recipient", n.RecipientEmail).
		Logger()

	if n.RecipientEmail == "" {
		logger.Warn().Msg("Skipping notification without recipient")
		return
	}

	task, err := queue.MarshalTask(shared.TypeSendCommunication, n,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(d.maxRetry),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build notification task")
		d.metrics.RecordCommunication(string(n.Type), "enqueue_failed")
		return
	}

	// The request context may be cancelled right after the response is written.
	enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	info, err := d.client.EnqueueContext(enqueueCtx, task)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to enqueue notification")
		d.metrics.RecordCommunication(string(n.Type), "enqueue_failed")
		return
	}

	d.metrics.RecordCommunication(string(n.Type), "queued")
	logger.Debug().Str("task_id", info.ID).Msg("Notification queued")
}
