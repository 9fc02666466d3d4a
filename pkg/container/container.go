package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/config"
	infraCache "editorial-backend/internal/infrastructure/cache"
	"editorial-backend/internal/infrastructure/database"
	"editorial-backend/internal/infrastructure/metrics"
	"editorial-backend/internal/infrastructure/queue"
	"editorial-backend/pkg/cache"
	pkgdb "editorial-backend/pkg/database"
	"editorial-backend/pkg/jwt"

	"editorial-backend/internal/domains/admin"
	adminHandler "editorial-backend/internal/domains/admin/handler"
	adminRepo "editorial-backend/internal/domains/admin/repository"
	adminService "editorial-backend/internal/domains/admin/service"
	articleHandler "editorial-backend/internal/domains/article/handler"
	articleRepo "editorial-backend/internal/domains/article/repository"
	articleService "editorial-backend/internal/domains/article/service"
	"editorial-backend/internal/domains/communication/dispatcher"
	commHandler "editorial-backend/internal/domains/communication/handler"
	commRepo "editorial-backend/internal/domains/communication/repository"
	commService "editorial-backend/internal/domains/communication/service"
	feedbackHandler "editorial-backend/internal/domains/feedback/handler"
	feedbackRepo "editorial-backend/internal/domains/feedback/repository"
	feedbackService "editorial-backend/internal/domains/feedback/service"
	subHandler "editorial-backend/internal/domains/submission/handler"
	subJob "editorial-backend/internal/domains/submission/job"
	subRepo "editorial-backend/internal/domains/submission/repository"
	subService "editorial-backend/internal/domains/submission/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph shared by the API and the worker.
type Container struct {
	// ========================================
	// INFRASTRUCTURE
	// ========================================

	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache // nil when Redis is unreachable at startup
	JWTManager  *jwt.Manager
	Metrics     *metrics.Metrics
	AsynqClient *asynq.Client
	TxManager   pkgdb.TxManager
	Notifier    dispatcher.Notifier

	// ========================================
	// REPOSITORIES
	// ========================================

	SubmissionRepo    subRepo.Repository
	ArticleRepo       articleRepo.Repository
	FeedbackRepo      feedbackRepo.Repository
	CommunicationRepo commRepo.Repository
	AdminRepo         admin.Repository

	// ========================================
	// SERVICES
	// ========================================

	AuthorService        subService.AuthorService
	ReviewService        subService.ReviewService
	ArticleService       *articleService.ArticleService
	FeedbackService      *feedbackService.FeedbackService
	CommunicationService *commService.CommunicationService
	AdminService         admin.Service

	ExpiryJob *subJob.ExpiryJob

	// ========================================
	// HANDLERS
	// ========================================

	AuthorHandler        *subHandler.AuthorHandler
	ReviewHandler        *subHandler.ReviewHandler
	CleanupHandler       *subHandler.CleanupHandler
	ArticleHandler       *articleHandler.ArticleHandler
	FeedbackHandler      *feedbackHandler.FeedbackHandler
	CommunicationHandler *commHandler.CommunicationHandler
	AdminHandler         *adminHandler.AdminHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer builds the graph in dependency order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing container")

	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("env", cfg.App.Environment).Msg("Config loaded")

	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("Container initialized")
	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	// Database
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	c.TxManager = pkgdb.NewTxManager(db.Pool)

	// Redis backs both the cache and the task queue. A cache outage is tolerated.
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, article caching disabled")
	} else {
		c.Cache = infraCache.NewRedisCache(c.Redis.Client, "editorial:")
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	m, err := metrics.New()
	if err != nil {
		return fmt.Errorf("failed to init metrics: %w", err)
	}
	c.Metrics = m

	c.AsynqClient = queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	c.Notifier = dispatcher.NewAsynqNotifier(c.AsynqClient, c.Metrics, cfg.Job.NotificationRetry)

	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.SubmissionRepo = subRepo.NewPostgresRepository(pool)
	c.ArticleRepo = articleRepo.NewPostgresRepository(pool)
	c.FeedbackRepo = feedbackRepo.NewPostgresRepository(pool)
	c.CommunicationRepo = commRepo.NewPostgresRepository(pool)
	c.AdminRepo = adminRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	settings := subService.Settings{
		TokenTTL:         c.Config.Submission.TokenTTL,
		WarningWindow:    c.Config.Submission.WarningWindow,
		MaxExtensionDays: c.Config.Submission.MaxExtensionDays,
	}

	c.ArticleService = articleService.NewService(c.ArticleRepo, c.Cache, c.Metrics)
	c.AuthorService = subService.NewAuthorService(c.SubmissionRepo, c.Notifier, c.Metrics, settings)
	c.ReviewService = subService.NewReviewService(
		c.SubmissionRepo,
		c.ArticleRepo,
		c.TxManager,
		c.Notifier,
		c.ArticleService,
		c.Metrics,
		settings,
	)
	c.FeedbackService = feedbackService.NewService(c.FeedbackRepo, c.SubmissionRepo, c.Notifier)
	c.CommunicationService = commService.NewService(c.CommunicationRepo, c.SubmissionRepo, c.Notifier)
	c.AdminService = adminService.NewAdminService(c.AdminRepo, c.JWTManager)

	c.ExpiryJob = subJob.NewExpiryJob(
		c.SubmissionRepo,
		c.AdminRepo,
		c.Notifier,
		c.Metrics,
		settings.WarningWindow,
		c.Config.Job.ExpirySweepCron,
	)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = subHandler.NewAuthorHandler(c.AuthorService)
	c.ReviewHandler = subHandler.NewReviewHandler(c.ReviewService)
	c.CleanupHandler = subHandler.NewCleanupHandler(c.ExpiryJob)
	c.ArticleHandler = articleHandler.NewArticleHandler(c.ArticleService)
	c.FeedbackHandler = feedbackHandler.NewFeedbackHandler(c.FeedbackService)
	c.CommunicationHandler = commHandler.NewCommunicationHandler(c.CommunicationService)
	c.AdminHandler = adminHandler.NewAdminHandler(c.AdminService)
}

// Cleanup releases every resource the container opened. Safe on a partial container.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.ExpiryJob != nil {
		c.ExpiryJob.Stop()
	}

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}
}
