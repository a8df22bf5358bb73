package http

import (
	"github.com/gin-gonic/gin"

	"github.com/swaplens/analytics-backend/internal/handler"
	"github.com/swaplens/analytics-backend/internal/utils/config"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

func loadV1Routes(r *gin.Engine, h *handler.Handler, appConfig *config.AppConfig, logger *logger.Logger) {
	v1 := r.Group("/api/v1")

	analysis := v1.Group("/analysis")
	{
		analysis.GET("/average-durations", h.AnalysisHandler.AverageDurations)
	}

	jobs := v1.Group("/jobs")
	{
		jobs.POST("/sync", h.JobsHandler.TriggerSync)
		jobs.POST("/backfill", h.JobsHandler.TriggerBackfill)
		jobs.GET("/status", h.JobsHandler.Status)
	}

	healthGroup := v1.Group("/health")
	{
		healthGroup.GET("/db", h.HealthHandler.Database)
		healthGroup.GET("/chains", h.HealthHandler.Chains)
	}

	// health check
	r.GET("/healthz", h.HealthHandler.Basic)

	// prometheus metrics
	r.GET("/metrics", h.MetricsHandler.Handler())
}
