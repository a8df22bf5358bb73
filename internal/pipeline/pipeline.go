package pipeline

import (
	"sync"

	"gorm.io/gorm"

	"github.com/swaplens/analytics-backend/internal/chainrpc"
	"github.com/swaplens/analytics-backend/internal/store"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

// Pipeline owns the two ETL jobs: the completed-order sync and the init
// timestamp backfill. It reads the orderbook through sourceDB and writes
// the analysis store through analysisDB.
type Pipeline struct {
	sourceDB   *gorm.DB
	analysisDB *gorm.DB
	store      *store.Store
	logger     *logger.Logger
	chainRPC   chainrpc.IChainRPC

	// Each job is serialized against itself. The jobs don't share a lock:
	// sync only inserts rows and backfill only patches init columns, so
	// they can safely overlap.
	syncMu     sync.Mutex
	backfillMu sync.Mutex
}

func New(
	sourceDB *gorm.DB,
	analysisDB *gorm.DB,
	store *store.Store,
	logger *logger.Logger,
	chainRPC chainrpc.IChainRPC,
) IPipeline {
	return &Pipeline{
		sourceDB:   sourceDB,
		analysisDB: analysisDB,
		store:      store,
		logger:     logger,
		chainRPC:   chainRPC,
	}
}
