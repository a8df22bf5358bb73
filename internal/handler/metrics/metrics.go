package metrics

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

const gatherTimeout = 10 * time.Second

// MetricsHandler serves the Prometheus scrape endpoint.
type MetricsHandler struct {
	registry *prometheus.Registry
	logger   *logger.Logger
}

func NewMetricsHandler(registry *prometheus.Registry, logger *logger.Logger) *MetricsHandler {
	return &MetricsHandler{
		registry: registry,
		logger:   logger,
	}
}

// Handler adapts the promhttp handler for gin. Gather errors are logged and
// the scrape continues with whatever could be collected, so one misbehaving
// collector does not blank the whole dashboard.
func (h *MetricsHandler) Handler() gin.HandlerFunc {
	handler := promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
		ErrorLog:          scrapeErrorLogger{h.logger},
		Timeout:           gatherTimeout,
	})

	return gin.WrapH(handler)
}

// scrapeErrorLogger adapts our logger to promhttp's error logger interface.
type scrapeErrorLogger struct {
	logger *logger.Logger
}

func (l scrapeErrorLogger) Println(v ...interface{}) {
	l.logger.Error("[Metrics] scrape error", map[string]string{
		"error": fmt.Sprint(v...),
	})
}
