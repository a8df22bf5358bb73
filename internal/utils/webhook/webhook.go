// Package webhook pings external uptime monitors after successful job runs.
package webhook

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

const pingTimeout = 10 * time.Second

// Client performs fire-and-forget GET pings against uptime monitor URLs.
// Failures are logged and swallowed: an unreachable monitor must never fail
// the job that just succeeded.
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
}

func New(logger *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: pingTimeout},
		logger:     logger,
	}
}

// CallUptimeWebhook sends a GET ping to webhookURL. An empty URL means no
// monitor is configured for the job and the call is a no-op.
func (c *Client) CallUptimeWebhook(ctx context.Context, webhookURL string) {
	if webhookURL == "" {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, webhookURL, nil)
	if err != nil {
		c.logger.Error("[CallUptimeWebhook] failed to build request", map[string]string{
			"url":   webhookURL,
			"error": err.Error(),
		})
		return
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("[CallUptimeWebhook] ping failed", map[string]string{
			"url":   webhookURL,
			"error": err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("[CallUptimeWebhook] monitor returned error status", map[string]string{
			"url":    webhookURL,
			"status": strconv.Itoa(resp.StatusCode),
		})
		return
	}

	c.logger.Debug("[CallUptimeWebhook] pinged uptime monitor", map[string]string{
		"url":    webhookURL,
		"status": strconv.Itoa(resp.StatusCode),
	})
}
