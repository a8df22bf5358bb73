package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/swaplens/analytics-backend/internal/chainrpc"
	"github.com/swaplens/analytics-backend/internal/handler/analysis"
	"github.com/swaplens/analytics-backend/internal/handler/health"
	"github.com/swaplens/analytics-backend/internal/handler/jobs"
	"github.com/swaplens/analytics-backend/internal/handler/metrics"
	"github.com/swaplens/analytics-backend/internal/monitoring"
	"github.com/swaplens/analytics-backend/internal/pipeline"
	"github.com/swaplens/analytics-backend/internal/stats"
	"github.com/swaplens/analytics-backend/internal/utils/config"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

type Handler struct {
	AnalysisHandler analysis.IHandler
	JobsHandler     jobs.IHandler
	HealthHandler   health.IHealthHandler
	MetricsHandler  *metrics.MetricsHandler
}

func New(appConfig *config.AppConfig, logger *logger.Logger,
	statsSvc stats.IStats,
	pipelineSvc pipeline.IPipeline,
	chainRPC chainrpc.IChainRPC,
	sourceDB, analysisDB *gorm.DB,
	metricsRegistry *prometheus.Registry,
	jobStatusManager *monitoring.JobStatusManager) *Handler {
	return &Handler{
		AnalysisHandler: analysis.New(statsSvc, logger, appConfig),
		JobsHandler:     jobs.New(pipelineSvc, jobStatusManager, logger),
		HealthHandler:   health.New(appConfig, logger, sourceDB, analysisDB, chainRPC),
		MetricsHandler:  metrics.NewMetricsHandler(metricsRegistry, logger),
	}
}
