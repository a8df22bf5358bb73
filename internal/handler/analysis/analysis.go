package analysis

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/swaplens/analytics-backend/internal/stats"
	"github.com/swaplens/analytics-backend/internal/utils/config"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
	"github.com/swaplens/analytics-backend/internal/view"
)

var errInternal = errors.New("internal server error")

type handler struct {
	stats     stats.IStats
	logger    *logger.Logger
	appConfig *config.AppConfig
}

func New(statsSvc stats.IStats, logger *logger.Logger, appConfig *config.AppConfig) IHandler {
	return &handler{
		stats:     statsSvc,
		logger:    logger,
		appConfig: appConfig,
	}
}

// AverageDurations godoc
// @Summary Get average swap stage durations
// @Description Average per-stage durations for completed orders on one chain pair within a created_at window
// @id getAverageDurations
// @Tags Analysis
// @Accept json
// @Produce json
// @Param source_chain query string true "Source chain identifier"
// @Param destination_chain query string true "Destination chain identifier"
// @Param start_time query string true "Window start, RFC3339"
// @Param end_time query string true "Window end, RFC3339"
// @Success 200 {object} model.DurationStats
// @Failure 400 {object} view.ErrorResponse
// @Failure 404 {object} view.ErrorResponse
// @Failure 500 {object} view.ErrorResponse
// @Router /analysis/average-durations [get]
func (h *handler) AverageDurations(c *gin.Context) {
	var req AverageDurationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("[AverageDurations] failed to bind request", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		h.logger.Error("[AverageDurations] failed to validate request", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	query, err := req.toQuery()
	if err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	result, err := h.stats.AverageDurations(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, stats.ErrNoRecords) {
			c.JSON(http.StatusNotFound, view.CreateResponse[any](nil, err, req, "no orders found for the given criteria"))
			return
		}
		h.logger.Error("[AverageDurations] failed to compute stats", map[string]string{
			"source_chain":      req.SourceChain,
			"destination_chain": req.DestinationChain,
			"error":             err.Error(),
		})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, errInternal, nil, "failed to compute average durations"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(result, nil, nil, "average durations computed successfully"))
}
