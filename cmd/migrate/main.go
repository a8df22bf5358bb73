package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	pgstore "github.com/swaplens/analytics-backend/internal/store/postgres"
	"github.com/swaplens/analytics-backend/internal/utils/config"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

func runMigrations(db *gorm.DB, logger *logger.Logger) error {
	// Open database connection
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	// Create migrate instance
	migrationPath := fmt.Sprintf("file://%s", filepath.Join("migrations", "schema"))
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Migrations completed successfully")
	return nil
}

// resetAnalysis truncates the analysis table so the next sync run rebuilds
// it from the source database from scratch.
func resetAnalysis(db *gorm.DB, logger *logger.Logger) error {
	if err := db.Exec("TRUNCATE TABLE order_analysis RESTART IDENTITY").Error; err != nil {
		return fmt.Errorf("failed to truncate order_analysis: %w", err)
	}

	logger.Info("Analysis table truncated")
	return nil
}

func main() {
	reset := flag.Bool("reset", false, "truncate the analysis table after migrating")
	flag.Parse()

	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	// Migrations only ever touch the analysis database. The source database
	// belongs to the swap daemon and is read-only for this service.
	db := pgstore.New(appConfig.AnalysisDB, "analysis", logger)

	if err := runMigrations(db, logger); err != nil {
		logger.Error("[main][runMigrations] failed to run migrations", map[string]string{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	if *reset {
		if err := resetAnalysis(db, logger); err != nil {
			logger.Error("[main][resetAnalysis] failed to reset analysis table", map[string]string{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}
}
