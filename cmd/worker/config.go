package main

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/config"
	"editorial-backend/internal/infrastructure/email"
)

// Config is the slice of the application config the worker needs.
type Config struct {
	Redis         asynq.RedisClientOpt
	SMTP          email.SMTPConfig
	Concurrency   int
	SweepCron     string
	RunSweep      bool
	PublicBaseURL string
	HealthAddr    string
}

func loadConfig(app *config.Config) *Config {
	cfg := &Config{
		Redis: asynq.RedisClientOpt{
			Addr:     app.Redis.Host,
			Password: app.Redis.Password,
			DB:       app.Redis.DB,
		},
		SMTP: email.SMTPConfig{
			Host:          app.SMTP.Host,
			Port:          app.SMTP.Port,
			User:          app.SMTP.User,
			Password:      app.SMTP.Password,
			From:          app.SMTP.From,
			StartTLS:      app.SMTP.StartTLS,
			SkipTLSVerify: app.SMTP.SkipTLSVerify,
		},
		Concurrency:   app.Job.WorkerConcurrency,
		SweepCron:     app.Job.ExpirySweepCron,
		RunSweep:      app.Job.WorkerRunsSweep(),
		PublicBaseURL: app.App.PublicBaseURL,
		HealthAddr:    getEnv("WORKER_HEALTH_ADDR", ":9999"),
	}

	log.Info().
		Str("redis", cfg.Redis.Addr).
		Str("smtp", cfg.SMTP.Host).
		Int("smtp_port", cfg.SMTP.Port).
		Int("concurrency", cfg.Concurrency).
		Bool("run_sweep", cfg.RunSweep).
		Msg("[Config] Worker configuration loaded")

	return cfg
}
