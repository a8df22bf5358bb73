package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/swaplens/analytics-backend/internal/pipeline"
	"github.com/swaplens/analytics-backend/internal/utils/config"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
	"github.com/swaplens/analytics-backend/internal/utils/webhook"
)

// Job names as they appear in metrics, job status responses, and logs.
const (
	JobSyncCompletedOrders = "completed_order_sync"
	JobBackfillInitTimes   = "init_timestamp_backfill"
)

const (
	syncJobTimeout     = 4 * time.Minute
	backfillJobTimeout = 15 * time.Minute
)

// InstrumentedPipeline wraps the base pipeline with status tracking,
// metrics, and uptime webhook pings on success.
type InstrumentedPipeline struct {
	base          pipeline.IPipeline
	statusManager *JobStatusManager
	metrics       *PipelineMetrics
	logger        *logger.Logger
	appConfig     *config.AppConfig
	webhookClient *webhook.Client
}

func NewInstrumentedPipeline(
	base pipeline.IPipeline,
	statusManager *JobStatusManager,
	metrics *PipelineMetrics,
	logger *logger.Logger,
	appConfig *config.AppConfig,
) *InstrumentedPipeline {
	statusManager.RegisterJob(JobSyncCompletedOrders)
	statusManager.RegisterJob(JobBackfillInitTimes)

	return &InstrumentedPipeline{
		base:          base,
		statusManager: statusManager,
		metrics:       metrics,
		logger:        logger,
		appConfig:     appConfig,
		webhookClient: webhook.New(logger),
	}
}

func (ip *InstrumentedPipeline) SyncCompletedOrders(ctx context.Context) (int, error) {
	return ip.executeJob(
		ctx,
		JobSyncCompletedOrders,
		syncJobTimeout,
		ip.appConfig.Jobs.SyncUptimeWebhookURL,
		ip.base.SyncCompletedOrders,
	)
}

func (ip *InstrumentedPipeline) BackfillInitTimes(ctx context.Context) (int, error) {
	return ip.executeJob(
		ctx,
		JobBackfillInitTimes,
		backfillJobTimeout,
		ip.appConfig.Jobs.BackfillUptimeWebhookURL,
		ip.base.BackfillInitTimes,
	)
}

func (ip *InstrumentedPipeline) executeJob(
	ctx context.Context,
	jobName string,
	timeout time.Duration,
	webhookURL string,
	jobFunc func(context.Context) (int, error),
) (records int, err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ip.statusManager.StartJob(jobName)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
			ip.statusManager.CompleteJob(jobName, err, nil)
		}
	}()

	records, err = jobFunc(ctx)

	ip.statusManager.CompleteJob(jobName, err, map[string]interface{}{
		"records": records,
	})
	ip.metrics.RecordJobRecords(jobName, records)

	if err == nil {
		ip.webhookClient.CallUptimeWebhook(ctx, webhookURL)
	}

	return records, err
}
