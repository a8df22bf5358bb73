package orderanalysis

import (
	"time"

	"gorm.io/gorm"

	"github.com/swaplens/analytics-backend/internal/model"
)

type IStore interface {
	// CreateIfNotExists inserts the record unless a row with the same order
	// id already exists. Reports whether a row was actually inserted.
	CreateIfNotExists(db *gorm.DB, record *model.OrderAnalysis) (bool, error)

	// GetLatestOrder returns the row with the greatest created_at, or
	// gorm.ErrRecordNotFound on an empty table.
	GetLatestOrder(db *gorm.DB) (*model.OrderAnalysis, error)

	// ListMissingInitTimes returns rows where at least one init timestamp
	// is still null, oldest first.
	ListMissingInitTimes(db *gorm.DB) ([]model.OrderAnalysis, error)

	// PatchInitTimes fills null init columns with the given values. Non-null
	// columns keep their stored value; nil arguments leave their column
	// untouched. Reports whether an update was executed.
	PatchInitTimes(db *gorm.DB, orderID string, userInit, cobiInit *time.Time) (bool, error)

	// ListByQuery returns rows for one chain pair whose created_at lies in
	// the closed window and that carry at least one milestone timestamp.
	ListByQuery(db *gorm.DB, q model.DurationQuery) ([]model.OrderAnalysis, error)

	Count(db *gorm.DB) (int64, error)
}
