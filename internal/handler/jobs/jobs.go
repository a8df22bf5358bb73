package jobs

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swaplens/analytics-backend/internal/monitoring"
	"github.com/swaplens/analytics-backend/internal/pipeline"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
	"github.com/swaplens/analytics-backend/internal/view"
)

type handler struct {
	pipeline      pipeline.IPipeline
	statusManager *monitoring.JobStatusManager
	logger        *logger.Logger
}

func New(pipelineSvc pipeline.IPipeline, statusManager *monitoring.JobStatusManager, logger *logger.Logger) IHandler {
	return &handler{
		pipeline:      pipelineSvc,
		statusManager: statusManager,
		logger:        logger,
	}
}

// StatusResponse is the payload of the job status endpoint.
type StatusResponse struct {
	Jobs    map[string]monitoring.JobStatus `json:"jobs"`
	Summary monitoring.JobsSummary          `json:"summary"`
}

// TriggerSync godoc
// @Summary Trigger the completed order sync job
// @Description Starts one sync run in the background. Concurrent runs are serialized.
// @id triggerSyncJob
// @Tags Jobs
// @Produce json
// @Success 202 {object} view.MessageResponse
// @Router /jobs/sync [post]
func (h *handler) TriggerSync(c *gin.Context) {
	go func() {
		// Detached from the request context so the run survives the response.
		if _, err := h.pipeline.SyncCompletedOrders(context.Background()); err != nil {
			h.logger.Error("[TriggerSync] sync run failed", map[string]string{
				"error": err.Error(),
			})
		}
	}()
	c.JSON(http.StatusAccepted, view.MessageResponse{Message: "sync triggered"})
}

// TriggerBackfill godoc
// @Summary Trigger the init timestamp backfill job
// @Description Starts one backfill run in the background. Concurrent runs are serialized.
// @id triggerBackfillJob
// @Tags Jobs
// @Produce json
// @Success 202 {object} view.MessageResponse
// @Router /jobs/backfill [post]
func (h *handler) TriggerBackfill(c *gin.Context) {
	go func() {
		if _, err := h.pipeline.BackfillInitTimes(context.Background()); err != nil {
			h.logger.Error("[TriggerBackfill] backfill run failed", map[string]string{
				"error": err.Error(),
			})
		}
	}()
	c.JSON(http.StatusAccepted, view.MessageResponse{Message: "backfill triggered"})
}

// Status godoc
// @Summary Get background job statuses
// @Description Per-job execution status plus an aggregate summary
// @id getJobStatus
// @Tags Jobs
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} view.ErrorResponse
// @Router /jobs/status [get]
func (h *handler) Status(c *gin.Context) {
	if h.statusManager == nil {
		c.JSON(http.StatusServiceUnavailable, view.ErrorResponse{
			Error:   "job status tracking is not enabled",
			Message: "job status unavailable",
		})
		return
	}

	resp := StatusResponse{
		Jobs:    h.statusManager.GetAllJobStatuses(),
		Summary: h.statusManager.GetJobsSummary(),
	}
	c.JSON(http.StatusOK, resp)
}
