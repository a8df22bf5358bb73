package stats

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/swaplens/analytics-backend/internal/model"
	"github.com/swaplens/analytics-backend/internal/store"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

// ErrNoRecords signals that no order in the requested window carries any
// milestone data. Handlers map it to 404 rather than an empty payload.
var ErrNoRecords = errors.New("no records found for the given criteria")

type IStats interface {
	AverageDurations(ctx context.Context, q model.DurationQuery) (*model.DurationStats, error)
}

type Stats struct {
	analysisDB *gorm.DB
	store      *store.Store
	logger     *logger.Logger
}

func New(analysisDB *gorm.DB, store *store.Store, logger *logger.Logger) IStats {
	return &Stats{
		analysisDB: analysisDB,
		store:      store,
		logger:     logger,
	}
}

func (s *Stats) AverageDurations(ctx context.Context, q model.DurationQuery) (*model.DurationStats, error) {
	records, err := s.store.OrderAnalysis.ListByQuery(s.analysisDB.WithContext(ctx), q)
	if err != nil {
		s.logger.Error("[AverageDurations][ListByQuery]", map[string]string{
			"source_chain":      q.SourceChain.String(),
			"destination_chain": q.DestinationChain.String(),
			"error":             err.Error(),
		})
		return nil, err
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	agg := durationAggregator{}
	for i := range records {
		agg.observe(&records[i])
	}

	return agg.stats(q, int64(len(records))), nil
}
