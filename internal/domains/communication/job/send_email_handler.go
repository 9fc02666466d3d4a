package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/domains/communication/repository"
	"editorial-backend/internal/infrastructure/email"
	"editorial-backend/internal/infrastructure/metrics"
)

// SendEmailHandler delivers one queued notification and appends its Communication row.
// Transient send failures are retried by asynq; only the final outcome is recorded.
type SendEmailHandler struct {
	sender  email.Sender
	repo    repository.Repository
	metrics *metrics.Metrics
	baseURL string
}

func NewSendEmailHandler(sender email.Sender, repo repository.Repository, m *metrics.Metrics, baseURL string) *SendEmailHandler {
	return &SendEmailHandler{
		sender:  sender,
		repo:    repo,
		metrics: m,
		baseURL: baseURL,
	}
}

func (h *SendEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var n model.Notification
	if err := json.Unmarshal(task.Payload(), &n); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal communication payload")
		return fmt.Errorf("unmarshal payload: %w: %v", asynq.SkipRetry, err)
	}

	logger := log.With().
		Str("type", string(n.Type)).
		Str("recipient", n.RecipientEmail).
		Logger()

	msg, err := BuildMessage(n, h.baseURL)
	if err != nil {
		h.record(ctx, n, "", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	html, err := email.Render(msg)
	if err != nil {
		h.record(ctx, n, msg.Subject, err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	start := time.Now()
	sendErr := h.sender.Send(ctx, []string{n.RecipientEmail}, msg.Subject, html)
	h.metrics.ObserveCommunicationDelivery(string(n.Type), time.Since(start))

	if sendErr != nil {
		if willRetry(ctx) {
			logger.Warn().Err(sendErr).Msg("Email send failed, will retry")
			return fmt.Errorf("send email: %w", sendErr)
		}
		logger.Error().Err(sendErr).Msg("Email send failed, giving up")
		h.record(ctx, n, msg.Subject, sendErr)
		return nil
	}

	h.record(ctx, n, msg.Subject, nil)
	logger.Info().Msg("Email sent")
	return nil
}

// record appends the audit row. A failure to write it is logged only; the email outcome stands.
func (h *SendEmailHandler) record(ctx context.Context, n model.Notification, subject string, sendErr error) {
	row := &model.Communication{
		SubmissionID:   n.SubmissionID,
		Type:           n.Type,
		RecipientEmail: n.RecipientEmail,
		Subject:        subject,
		AdminID:        n.AdminID,
		Status:         model.DeliverySent,
		Data:           n.Data,
	}
	if sendErr != nil {
		msg := sendErr.Error()
		row.Status = model.DeliveryFailed
		row.ErrorMessage = &msg
	}

	h.metrics.RecordCommunication(string(n.Type), string(row.Status))

	if _, err := h.repo.Append(ctx, row); err != nil {
		log.Error().Err(err).
			Str("type", string(n.Type)).
			Str("recipient", n.RecipientEmail).
			Msg("Failed to record communication")
	}
}

func willRetry(ctx context.Context) bool {
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return false
	}
	limit, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		return false
	}
	return retried < limit
}
