package main

import (
	"github.com/hibiken/asynq"

	commJob "editorial-backend/internal/domains/communication/job"
	subJob "editorial-backend/internal/domains/submission/job"
	"editorial-backend/internal/infrastructure/email"
	"editorial-backend/internal/shared"
	"editorial-backend/pkg/container"
)

// HandlerRegistry holds all task handlers.
type HandlerRegistry struct {
	sendEmail   *commJob.SendEmailHandler
	expirySweep *subJob.ExpiryJob
}

func initializeHandlers(c *container.Container, cfg *Config) *HandlerRegistry {
	sender := email.NewSMTPSender(cfg.SMTP)

	return &HandlerRegistry{
		sendEmail:   commJob.NewSendEmailHandler(sender, c.CommunicationRepo, c.Metrics, cfg.PublicBaseURL),
		expirySweep: c.ExpiryJob,
	}
}

// RegisterHandlers binds every task type to its handler.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSendCommunication, h.sendEmail.ProcessTask)
	mux.HandleFunc(shared.TypeExpireSubmissions, h.expirySweep.ProcessTask)
}
