package orderanalysis

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swaplens/analytics-backend/internal/model"
)

type store struct{}

func New() IStore {
	return &store{}
}

func (s *store) CreateIfNotExists(db *gorm.DB, record *model.OrderAnalysis) (bool, error) {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoNothing: true,
	}).Create(record)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (s *store) GetLatestOrder(db *gorm.DB) (*model.OrderAnalysis, error) {
	var record model.OrderAnalysis
	return &record, db.Order("created_at desc").First(&record).Error
}

func (s *store) ListMissingInitTimes(db *gorm.DB) ([]model.OrderAnalysis, error) {
	var records []model.OrderAnalysis
	err := db.
		Where("user_init IS NULL OR cobi_init IS NULL").
		Order("created_at asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (s *store) PatchInitTimes(db *gorm.DB, orderID string, userInit, cobiInit *time.Time) (bool, error) {
	updates := map[string]interface{}{}
	if userInit != nil {
		updates["user_init"] = gorm.Expr("COALESCE(user_init, ?)", *userInit)
	}
	if cobiInit != nil {
		updates["cobi_init"] = gorm.Expr("COALESCE(cobi_init, ?)", *cobiInit)
	}
	if len(updates) == 0 {
		return false, nil
	}

	result := db.Model(&model.OrderAnalysis{}).
		Where("order_id = ?", orderID).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (s *store) ListByQuery(db *gorm.DB, q model.DurationQuery) ([]model.OrderAnalysis, error) {
	var records []model.OrderAnalysis
	err := db.
		Where("source_chain = ? AND destination_chain = ?", q.SourceChain, q.DestinationChain).
		Where("created_at BETWEEN ? AND ?", q.StartTime, q.EndTime).
		Where("user_init IS NOT NULL OR cobi_init IS NOT NULL OR user_redeem IS NOT NULL OR cobi_redeem IS NOT NULL OR user_refund IS NOT NULL OR cobi_refund IS NOT NULL").
		Order("created_at asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (s *store) Count(db *gorm.DB) (int64, error) {
	var count int64
	return count, db.Model(&model.OrderAnalysis{}).Count(&count).Error
}
