package main

import (
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/infrastructure/queue"
)

type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(cfg *Config) *asynqScheduler {
	scheduler := queue.NewScheduler(cfg.Redis, cfg.SweepCron)

	if cfg.RunSweep {
		if err := scheduler.RegisterJobs(); err != nil {
			log.Fatal().Err(err).Msg("[Scheduler] Failed to register jobs")
		}
	} else {
		log.Info().Msg("[Scheduler] Expiry sweep runs in the API process, not registering it")
	}

	go func() {
		log.Info().Msg("[Scheduler] Starting")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("[Scheduler] Failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	s.Scheduler.Shutdown()
	log.Info().Msg("[Scheduler] Stopped")
}
