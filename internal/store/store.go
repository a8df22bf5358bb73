package store

import (
	"github.com/swaplens/analytics-backend/internal/store/orderanalysis"
	"github.com/swaplens/analytics-backend/internal/store/sourceorder"
)

// Store aggregates the per-entity stores. Entity stores are stateless;
// every call takes the *gorm.DB it should run against, which is how the
// sync job threads one transaction through a whole cycle.
type Store struct {
	OrderAnalysis orderanalysis.IStore
	SourceOrder   sourceorder.IStore
}

func New() *Store {
	return &Store{
		OrderAnalysis: orderanalysis.New(),
		SourceOrder:   sourceorder.New(),
	}
}
