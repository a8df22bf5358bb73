package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/swaplens/analytics-backend/internal/chainrpc"
	"github.com/swaplens/analytics-backend/internal/monitoring"
	"github.com/swaplens/analytics-backend/internal/pipeline"
	"github.com/swaplens/analytics-backend/internal/stats"
	"github.com/swaplens/analytics-backend/internal/store"
	pgstore "github.com/swaplens/analytics-backend/internal/store/postgres"
	httptransport "github.com/swaplens/analytics-backend/internal/transport/http"
	"github.com/swaplens/analytics-backend/internal/utils/config"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

const shutdownTimeout = 10 * time.Second

func Init() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	sourceDB := pgstore.New(appConfig.SourceDB, "source", logger)
	analysisDB := pgstore.New(appConfig.AnalysisDB, "analysis", logger)

	s := store.New()
	chainRPC := chainrpc.NewRegistry(appConfig, logger)

	metricsRegistry := prometheus.NewRegistry()
	pipelineMetrics := monitoring.NewPipelineMetrics()
	pipelineMetrics.MustRegister(metricsRegistry)
	httpMetrics := monitoring.NewHTTPMetrics()
	httpMetrics.MustRegister(metricsRegistry)

	jobStatusManager := monitoring.NewJobStatusManager(logger, pipelineMetrics)

	basePipeline := pipeline.New(sourceDB, analysisDB, s, logger, chainRPC)
	instrumented := monitoring.NewInstrumentedPipeline(basePipeline, jobStatusManager, pipelineMetrics, logger, appConfig)

	statsSvc := stats.New(analysisDB, s, logger)

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	if _, err := c.AddFunc(appConfig.Jobs.SyncInterval, func() {
		if _, err := instrumented.SyncCompletedOrders(context.Background()); err != nil {
			logger.Error("[Init] scheduled sync failed", map[string]string{
				"error": err.Error(),
			})
		}
	}); err != nil {
		logger.Fatal("[Init] failed to schedule sync job", map[string]string{
			"interval": appConfig.Jobs.SyncInterval,
			"error":    err.Error(),
		})
	}

	// An empty backfill interval means backfill only runs at startup and
	// on demand through the jobs API.
	if appConfig.Jobs.BackfillInterval != "" {
		if _, err := c.AddFunc(appConfig.Jobs.BackfillInterval, func() {
			if _, err := instrumented.BackfillInitTimes(context.Background()); err != nil {
				logger.Error("[Init] scheduled backfill failed", map[string]string{
					"error": err.Error(),
				})
			}
		}); err != nil {
			logger.Fatal("[Init] failed to schedule backfill job", map[string]string{
				"interval": appConfig.Jobs.BackfillInterval,
				"error":    err.Error(),
			})
		}
	}

	c.Start()

	// Run one sync and one backfill right away so a fresh deployment does
	// not wait a full interval before it has data.
	go func() {
		if _, err := instrumented.SyncCompletedOrders(context.Background()); err != nil {
			logger.Error("[Init] startup sync failed", map[string]string{
				"error": err.Error(),
			})
		}
		if _, err := instrumented.BackfillInitTimes(context.Background()); err != nil {
			logger.Error("[Init] startup backfill failed", map[string]string{
				"error": err.Error(),
			})
		}
	}()

	engine := httptransport.NewHttpServer(
		appConfig, logger,
		statsSvc, instrumented, chainRPC,
		sourceDB, analysisDB,
		metricsRegistry, httpMetrics, jobStatusManager,
	)

	srv := &http.Server{
		Addr:    ":" + appConfig.ApiServer.Port,
		Handler: engine,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("[Init] http server stopped", map[string]string{
				"error": err.Error(),
			})
		}
	}()
	logger.Info("[Init] server started", map[string]string{
		"port": appConfig.ApiServer.Port,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("[Init] shutting down...")

	// Let in-flight cron jobs drain before connections are closed.
	<-c.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("[Init] http server shutdown failed", map[string]string{
			"error": err.Error(),
		})
	}

	closeDB(sourceDB, "source", logger)
	closeDB(analysisDB, "analysis", logger)

	logger.Info("[Init] shutdown complete")
}

func closeDB(db *gorm.DB, name string, logger *logger.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("[closeDB] failed to get underlying connection", map[string]string{
			"database": name,
			"error":    err.Error(),
		})
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("[closeDB] failed to close connection", map[string]string{
			"database": name,
			"error":    err.Error(),
		})
	}
}
