package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"editorial-backend/pkg/container"
)

type healthCheck struct {
	name string
	fn   func(ctx context.Context) error
}

// startServices verifies the dependencies the worker cannot run without,
// then exposes liveness and readiness endpoints.
func startServices(c *container.Container, cfg *Config) error {
	log.Info().Msg("[Startup] Editorial worker starting")

	checks := []healthCheck{
		{"Redis", c.Redis.HealthCheck},
		{"Postgres", c.DB.HealthCheck},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, check := range checks {
		if err := check.fn(ctx); err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("[Startup] Health check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("[Startup] OK")
	}

	go startHealthCheckServer(c, cfg.HealthAddr, checks)

	return nil
}

func startHealthCheckServer(c *container.Container, addr string, checks []healthCheck) {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "UP", "service": "editorial-worker"})
	})

	router.GET("/ready", func(ctx *gin.Context) {
		reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		for _, check := range checks {
			if err := check.fn(reqCtx); err != nil {
				ctx.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "NOT_READY",
					"check":  check.name,
					"error":  err.Error(),
				})
				return
			}
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	log.Info().Str("addr", addr).Msg("[Health] Starting health check server")
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Error().Err(err).Msg("[Health] Server stopped")
	}
}
