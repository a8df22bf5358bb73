package main

import (
	"github.com/swaplens/analytics-backend/internal/server"
)

// @title Swap Analytics Backend API
// @version 1.0
// @description Analytics pipeline and API for cross-chain atomic swap durations.
// @BasePath /api/v1
func main() {
	server.Init()
}
