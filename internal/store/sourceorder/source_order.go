package sourceorder

import (
	"time"

	"gorm.io/gorm"

	"github.com/swaplens/analytics-backend/internal/model"
)

type store struct{}

func New() IStore {
	return &store{}
}

const completedOrderColumns = `
	o.order_id AS order_id,
	o.secret_hash AS secret_hash,
	o.created_at AS created_at,
	ss.swap_id AS source_swap_id,
	ss.chain AS source_chain,
	ss.redeem_tx_hash AS source_redeem_tx_hash,
	ss.refund_tx_hash AS source_refund_tx_hash,
	ss.initiate_block_number AS source_initiate_block_number,
	ss.redeem_block_number AS source_redeem_block_number,
	ss.refund_block_number AS source_refund_block_number,
	ss.updated_at AS source_updated_at,
	ds.swap_id AS destination_swap_id,
	ds.chain AS destination_chain,
	ds.redeem_tx_hash AS destination_redeem_tx_hash,
	ds.refund_tx_hash AS destination_refund_tx_hash,
	ds.initiate_block_number AS destination_initiate_block_number,
	ds.redeem_block_number AS destination_redeem_block_number,
	ds.refund_block_number AS destination_refund_block_number,
	ds.updated_at AS destination_updated_at`

func (s *store) ListCompletedSince(db *gorm.DB, watermark time.Time) ([]model.CompletedOrder, error) {
	var rows []model.CompletedOrder
	err := db.
		Table("matched_orders AS mo").
		Select(completedOrderColumns).
		Joins("JOIN orders o ON o.order_id = mo.order_id").
		Joins("JOIN swaps ss ON ss.swap_id = mo.source_swap_id").
		Joins("JOIN swaps ds ON ds.swap_id = mo.destination_swap_id").
		Where("o.created_at > ?", watermark).
		Where("ss.redeem_tx_hash <> '' OR ss.refund_tx_hash <> ''").
		Where("ds.redeem_tx_hash <> '' OR ds.refund_tx_hash <> ''").
		Order("o.created_at asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
