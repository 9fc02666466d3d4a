package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"editorial-backend/internal/shared/middleware"
	"editorial-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(c.Metrics),
		middleware.CORS(c.Config.App.CORSOrigins),
	)

	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupSubmissionRoutes(v1, c)
		setupArticleRoutes(v1, c)
		setupAdminAuthRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTHOR ROUTES (token is the credential)
// ========================================
func setupSubmissionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	submissions := v1.Group("/submissions")
	{
		submissions.POST("", c.AuthorHandler.Create)
		submissions.POST("/resend-token", c.AuthorHandler.ResendToken)
		submissions.GET("/validate-token/:token", c.AuthorHandler.ValidateToken)
		submissions.GET("/:token", c.AuthorHandler.Get)
		submissions.PUT("/:token", c.AuthorHandler.Update)
		submissions.POST("/:token/submit", c.AuthorHandler.Submit)
		submissions.GET("/:token/feedback", c.FeedbackHandler.ListForToken)
		submissions.PUT("/:token/feedback/:id/addressed", c.FeedbackHandler.MarkAddressed)
	}
}

// ========================================
// ARTICLE ROUTES (public)
// ========================================
func setupArticleRoutes(v1 *gin.RouterGroup, c *container.Container) {
	articles := v1.Group("/articles")
	{
		articles.GET("", c.ArticleHandler.List)
		articles.GET("/featured", c.ArticleHandler.Featured)
		articles.GET("/search", c.ArticleHandler.Search)
		articles.GET("/:slug", c.ArticleHandler.GetBySlug)
	}
}

// ========================================
// ADMIN AUTH ROUTES
// ========================================
func setupAdminAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/admin/auth")
	{
		auth.POST("/login", c.AdminHandler.Login)
		auth.GET("/me", middleware.AuthMiddleware(c.JWTManager), c.AdminHandler.Me)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())

	review := admin.Group("/review/submissions")
	{
		review.GET("", c.ReviewHandler.List)
		review.GET("/stats", c.ReviewHandler.Stats)
		review.GET("/export", c.ReviewHandler.Export)
		review.POST("/bulk-action", c.ReviewHandler.BulkAction)
		review.GET("/:id", c.ReviewHandler.Get)
		review.PUT("/:id/review", c.ReviewHandler.Review)
		review.POST("/:id/publish", c.ReviewHandler.Publish)
		review.POST("/:id/reactivate", c.ReviewHandler.Reactivate)
		review.POST("/:id/regenerate-token", c.ReviewHandler.RegenerateToken)
		review.POST("/:id/extend", c.ReviewHandler.ExtendExpiry)
		review.POST("/:id/feedback", c.FeedbackHandler.Create)
		review.GET("/:id/feedback", c.FeedbackHandler.ListForSubmission)
	}

	admin.PUT("/feedback/:id/status", c.FeedbackHandler.UpdateStatus)
	admin.PUT("/articles/:id/featured", c.ArticleHandler.SetFeatured)

	comms := admin.Group("/communications")
	{
		comms.GET("", c.CommunicationHandler.List)
		comms.POST("/reminders", c.CommunicationHandler.SendReminders)
	}

	cleanup := admin.Group("/cleanup")
	{
		cleanup.POST("/run", c.CleanupHandler.Run)
		cleanup.GET("/status", c.CleanupHandler.Status)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Redis.HealthCheck(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"sweep":    appCtx.ExpiryJob.Status(),
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
