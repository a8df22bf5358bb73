package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/swaplens/analytics-backend/internal/chainrpc"
	"github.com/swaplens/analytics-backend/internal/utils/config"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

// HealthHandler implements IHealthHandler interface
type HealthHandler struct {
	config     *config.AppConfig
	logger     *logger.Logger
	sourceDB   *gorm.DB
	analysisDB *gorm.DB
	chainRPC   chainrpc.IChainRPC
}

// New creates a new health handler instance
func New(config *config.AppConfig, logger *logger.Logger, sourceDB, analysisDB *gorm.DB, chainRPC chainrpc.IChainRPC) IHealthHandler {
	return &HealthHandler{
		config:     config,
		logger:     logger,
		sourceDB:   sourceDB,
		analysisDB: analysisDB,
		chainRPC:   chainRPC,
	}
}

// Basic handles the basic health check endpoint (/healthz)
// @Summary Basic health check
// @Description Returns basic system availability status
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} BasicHealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Basic(c *gin.Context) {
	response := BasicHealthResponse{
		Message: "ok",
	}
	c.JSON(http.StatusOK, response)
}

// Database handles the database health check endpoint
// @Summary Database health check
// @Description Validates connectivity of the source and analysis databases
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/v1/health/db [get]
func (h *HealthHandler) Database(c *gin.Context) {
	start := time.Now()

	response := HealthResponse{
		Timestamp: start,
		Checks:    make(map[string]HealthCheck),
	}

	// Get context safely
	ctx := context.Background()
	if c.Request != nil {
		ctx = c.Request.Context()
	}

	// Check both databases in parallel
	var wg sync.WaitGroup
	var mu sync.Mutex

	databases := map[string]*gorm.DB{
		"source_db":   h.sourceDB,
		"analysis_db": h.analysisDB,
	}
	for name, db := range databases {
		wg.Add(1)
		go func(name string, db *gorm.DB) {
			defer wg.Done()
			check := h.checkDatabase(ctx, db)
			mu.Lock()
			response.Checks[name] = check
			mu.Unlock()
		}(name, db)
	}

	wg.Wait()
	response.DurationMs = time.Since(start).Milliseconds()

	// Determine overall status
	allHealthy := true
	for _, check := range response.Checks {
		if check.Status != "healthy" {
			allHealthy = false
			break
		}
	}

	if allHealthy {
		response.Status = "healthy"
		c.JSON(http.StatusOK, response)
	} else {
		response.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
	}
}

// Chains handles the chain resolver health check endpoint
// @Summary Chain resolver health check
// @Description Reports which chains have a block time resolver configured
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/v1/health/chains [get]
func (h *HealthHandler) Chains(c *gin.Context) {
	start := time.Now()

	response := HealthResponse{
		Timestamp: start,
		Checks:    make(map[string]HealthCheck),
	}

	check := HealthCheck{
		Metadata: make(map[string]interface{}),
	}

	if h.chainRPC == nil {
		check.Status = "unhealthy"
		check.Error = "chain rpc registry not available"
	} else {
		supported := h.chainRPC.SupportedChains()
		chains := make([]string, 0, len(supported))
		for _, chain := range supported {
			chains = append(chains, chain.String())
		}
		check.Metadata["configured_chains"] = chains
		check.Metadata["configured_count"] = len(chains)

		// Backfill can never resolve anything without at least one resolver.
		if len(chains) == 0 {
			check.Status = "unhealthy"
			check.Error = "no chain resolvers configured"
		} else {
			check.Status = "healthy"
		}
	}

	check.Latency = time.Since(start).Milliseconds()
	response.Checks["chain_resolvers"] = check
	response.DurationMs = time.Since(start).Milliseconds()

	if check.Status == "healthy" {
		response.Status = "healthy"
		c.JSON(http.StatusOK, response)
	} else {
		response.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
	}
}

// checkDatabase performs database health validation
func (h *HealthHandler) checkDatabase(ctx context.Context, db *gorm.DB) HealthCheck {
	start := time.Now()

	check := HealthCheck{
		Metadata: make(map[string]interface{}),
	}

	// Handle nil database
	if db == nil {
		check.Status = "unhealthy"
		check.Error = "database connection not available"
		check.Latency = time.Since(start).Milliseconds()
		return check
	}

	// Get underlying SQL DB
	sqlDB, err := db.DB()
	if err != nil {
		check.Status = "unhealthy"
		check.Error = fmt.Sprintf("failed to get underlying database: %v", err)
		check.Latency = time.Since(start).Milliseconds()
		return check
	}

	// Create context with timeout
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Ping database
	if err := sqlDB.PingContext(pingCtx); err != nil {
		check.Status = "unhealthy"
		if pingCtx.Err() == context.DeadlineExceeded {
			check.Error = "timeout"
		} else {
			check.Error = err.Error()
		}
		check.Latency = time.Since(start).Milliseconds()
		return check
	}

	// Get connection pool stats
	stats := sqlDB.Stats()

	check.Status = "healthy"
	check.Latency = time.Since(start).Milliseconds()
	check.Metadata["driver"] = "postgres"
	check.Metadata["connection_pool"] = map[string]interface{}{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"max_open":         stats.MaxOpenConnections,
	}

	return check
}
