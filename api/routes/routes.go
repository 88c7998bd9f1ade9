package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kleinfit/klein-data-pipeline/internal/config"
	"github.com/kleinfit/klein-data-pipeline/internal/handlers"
	"github.com/kleinfit/klein-data-pipeline/internal/middleware"
	"github.com/kleinfit/klein-data-pipeline/pkg/logger"
)

// HandlerDependencies bundles the handlers wired in main.
type HandlerDependencies struct {
	AuthHandler     *handlers.AuthHandler
	PipelineHandler *handlers.PipelineHandler
	AuditHandler    *handlers.AuditHandler
}

// SetupRouter sets up the ops API router.
func SetupRouter(cfg *config.Config, log *logger.Logger, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})
		public.POST("/auth/token", deps.AuthHandler.IssueToken)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		protected.POST("/pipeline/run", deps.PipelineHandler.RunPipeline)
		protected.GET("/runs/latest", deps.PipelineHandler.GetLatestRun)
		protected.GET("/audit", deps.AuditHandler.GetAuditLog)
		protected.GET("/audit/summary", deps.AuditHandler.GetAuditSummary)
	}

	return router
}
