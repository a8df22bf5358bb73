package sourceorder

import (
	"time"

	"gorm.io/gorm"

	"github.com/swaplens/analytics-backend/internal/model"
)

type IStore interface {
	// ListCompletedSince returns matched orders created strictly after the
	// watermark whose two swap legs both carry a terminal transaction hash,
	// oldest first.
	ListCompletedSince(db *gorm.DB, watermark time.Time) ([]model.CompletedOrder, error)
}
