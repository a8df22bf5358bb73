package pgstore

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/swaplens/analytics-backend/internal/utils/config"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

// New opens a gorm handle for one postgres database. The service holds two
// of these: the orderbook (read-only) and the analysis store.
func New(conn config.DBConnection, name string, logger *logger.Logger) *gorm.DB {
	db, err := connectPostgres(conn)
	if err != nil {
		logger.Fatal("failed to connect to postgres", map[string]string{
			"database": name,
			"error":    err.Error(),
		})
	}

	logger.Info("database connected", map[string]string{
		"database": name,
	})

	return db
}

func connectPostgres(conn config.DBConnection) (*gorm.DB, error) {
	ds := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		conn.Host,
		conn.User,
		conn.Pass,
		conn.Name,
		conn.Port,
		conn.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(ds),
		&gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				SingularTable: false,
			},
		})
	if err != nil {
		return nil, err
	}

	return db, nil
}
