package model

import (
	"time"
)

// OrderAnalysis is one settled atomic-swap order in the analysis store.
// "User" fields belong to the source leg (the order creator's side),
// "cobi" fields to the destination leg filled by the market-maker daemon.
//
// CreatedAt carries the order's creation time from the orderbook, not the
// row insert time. The six milestone timestamps start out null: redeem and
// refund times are copied from the source store at sync, init times are
// resolved later from block numbers by the backfill job. A milestone
// timestamp is written at most once and never overwritten.
type OrderAnalysis struct {
	ID                int    `gorm:"column:id;primaryKey"`
	OrderID           string `gorm:"column:order_id;type:varchar(255);not null;uniqueIndex"`
	SourceSwapID      string `gorm:"column:source_swap_id;type:varchar(255);not null"`
	DestinationSwapID string `gorm:"column:destination_swap_id;type:varchar(255);not null"`

	SourceChain      Chain   `gorm:"column:source_chain;type:varchar(50);not null;index:idx_order_analysis_pair_created_at,priority:1"`
	DestinationChain Chain   `gorm:"column:destination_chain;type:varchar(50);not null;index:idx_order_analysis_pair_created_at,priority:2"`
	SecretHash       *string `gorm:"column:secret_hash;type:varchar(255)"`

	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false;index:idx_order_analysis_pair_created_at,priority:3"`

	UserInit   *time.Time `gorm:"column:user_init"`
	CobiInit   *time.Time `gorm:"column:cobi_init"`
	UserRedeem *time.Time `gorm:"column:user_redeem"`
	CobiRedeem *time.Time `gorm:"column:cobi_redeem"`
	UserRefund *time.Time `gorm:"column:user_refund"`
	CobiRefund *time.Time `gorm:"column:cobi_refund"`

	UserInitBlockNumber   *int64 `gorm:"column:user_init_block_number"`
	CobiInitBlockNumber   *int64 `gorm:"column:cobi_init_block_number"`
	UserRedeemBlockNumber *int64 `gorm:"column:user_redeem_block_number"`
	CobiRedeemBlockNumber *int64 `gorm:"column:cobi_redeem_block_number"`
	UserRefundBlockNumber *int64 `gorm:"column:user_refund_block_number"`
	CobiRefundBlockNumber *int64 `gorm:"column:cobi_refund_block_number"`
}

func (OrderAnalysis) TableName() string {
	return "order_analysis"
}
