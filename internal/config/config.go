package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the application configuration, populated from environment variables.
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	SMTP       SMTPConfig
	Submission SubmissionConfig
	Job        JobConfig
}

type AppConfig struct {
	Name          string
	Environment   string // development, staging, production
	Port          string
	Version       string
	PublicBaseURL string // frontend origin used to build links in emails
	CORSOrigins   string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

type SMTPConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	From          string
	StartTLS      bool
	SkipTLSVerify bool
}

// SubmissionConfig controls the token lifecycle.
type SubmissionConfig struct {
	TokenTTL         time.Duration // lifetime of a freshly minted token
	WarningWindow    time.Duration // "expiring soon" horizon reported by the sweep
	MaxExtensionDays int
}

// JobConfig controls scheduled work.
type JobConfig struct {
	ExpirySweepCron    string // in-process cron spec for the API
	EnableAPIScheduler bool   // run the sweep from the API process instead of the worker
	WorkerConcurrency  int
	NotificationRetry  int
}

// WorkerRunsSweep reports whether the worker's asynq scheduler owns the expiry sweep.
// Exactly one process schedules it.
func (j JobConfig) WorkerRunsSweep() bool {
	return !j.EnableAPIScheduler
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:          getEnv("APP_NAME", "Editorial API"),
			Environment:   getEnv("APP_ENV", "development"),
			Port:          getEnv("APP_PORT", "8080"),
			Version:       getEnv("APP_VERSION", "1.0.0"),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
			CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "editorial"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 20),
			MinConns: getEnvInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvDuration("JWT_ACCESS_EXPIRY", 12*time.Hour),
		},
		SMTP: SMTPConfig{
			Host:          getEnv("SMTP_HOST", "localhost"),
			Port:          getEnvInt("SMTP_PORT", 1025),
			User:          getEnv("SMTP_USER", ""),
			Password:      getEnv("SMTP_PASS", ""),
			From:          getEnv("SMTP_FROM", "Editorial Board <noreply@editorial.local>"),
			StartTLS:      getEnvBool("SMTP_STARTTLS", false),
			SkipTLSVerify: getEnvBool("SMTP_SKIP_TLS_VERIFY", false),
		},
		Submission: SubmissionConfig{
			TokenTTL:         time.Duration(getEnvInt("SUBMISSION_TTL_DAYS", 30)) * 24 * time.Hour,
			WarningWindow:    time.Duration(getEnvInt("SUBMISSION_WARNING_DAYS", 5)) * 24 * time.Hour,
			MaxExtensionDays: getEnvInt("SUBMISSION_MAX_EXTENSION_DAYS", 90),
		},
		Job: JobConfig{
			ExpirySweepCron:    getEnv("EXPIRY_SWEEP_CRON", "0 2 * * *"),
			EnableAPIScheduler: getEnvBool("EXPIRY_SWEEP_IN_API", false),
			WorkerConcurrency:  getEnvInt("WORKER_CONCURRENCY", 10),
			NotificationRetry:  getEnvInt("NOTIFICATION_MAX_RETRY", 3),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations that are unsafe or unusable.
func (c *Config) Validate() error {
	if c.Submission.TokenTTL <= 0 {
		return fmt.Errorf("SUBMISSION_TTL_DAYS must be positive")
	}
	if c.Submission.WarningWindow <= 0 {
		return fmt.Errorf("SUBMISSION_WARNING_DAYS must be positive")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
