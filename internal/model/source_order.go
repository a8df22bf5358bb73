package model

import (
	"time"
)

// Source-store tables. The orderbook owns these; this service only ever
// reads them. The gorm models exist for the completed-order join and for
// seeding test databases.

type Order struct {
	ID         string    `gorm:"column:order_id;type:varchar(255);primaryKey"`
	SecretHash string    `gorm:"column:secret_hash;type:varchar(255);not null;default:''"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
}

func (Order) TableName() string {
	return "orders"
}

type MatchedOrder struct {
	ID                int    `gorm:"column:id;primaryKey"`
	OrderID           string `gorm:"column:order_id;type:varchar(255);not null;uniqueIndex"`
	SourceSwapID      string `gorm:"column:source_swap_id;type:varchar(255);not null"`
	DestinationSwapID string `gorm:"column:destination_swap_id;type:varchar(255);not null"`
}

func (MatchedOrder) TableName() string {
	return "matched_orders"
}

// Swap is one leg of a matched order. A leg counts as completed once it
// carries a redeem or refund transaction hash; UpdatedAt is the orderbook's
// write time for that terminal hash.
type Swap struct {
	ID                  string     `gorm:"column:swap_id;type:varchar(255);primaryKey"`
	Chain               Chain      `gorm:"column:chain;type:varchar(50);not null"`
	RedeemTxHash        string     `gorm:"column:redeem_tx_hash;type:varchar(255);not null;default:''"`
	RefundTxHash        string     `gorm:"column:refund_tx_hash;type:varchar(255);not null;default:''"`
	InitiateBlockNumber *int64     `gorm:"column:initiate_block_number"`
	RedeemBlockNumber   *int64     `gorm:"column:redeem_block_number"`
	RefundBlockNumber   *int64     `gorm:"column:refund_block_number"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (Swap) TableName() string {
	return "swaps"
}

// CompletedOrder is the flattened join row the sync job reads: one order,
// its matched pair, and both swap legs.
type CompletedOrder struct {
	OrderID    string    `gorm:"column:order_id"`
	SecretHash string    `gorm:"column:secret_hash"`
	CreatedAt  time.Time `gorm:"column:created_at"`

	SourceSwapID              string    `gorm:"column:source_swap_id"`
	SourceChain               Chain     `gorm:"column:source_chain"`
	SourceRedeemTxHash        string    `gorm:"column:source_redeem_tx_hash"`
	SourceRefundTxHash        string    `gorm:"column:source_refund_tx_hash"`
	SourceInitiateBlockNumber *int64    `gorm:"column:source_initiate_block_number"`
	SourceRedeemBlockNumber   *int64    `gorm:"column:source_redeem_block_number"`
	SourceRefundBlockNumber   *int64    `gorm:"column:source_refund_block_number"`
	SourceUpdatedAt           time.Time `gorm:"column:source_updated_at"`

	DestinationSwapID              string    `gorm:"column:destination_swap_id"`
	DestinationChain               Chain     `gorm:"column:destination_chain"`
	DestinationRedeemTxHash        string    `gorm:"column:destination_redeem_tx_hash"`
	DestinationRefundTxHash        string    `gorm:"column:destination_refund_tx_hash"`
	DestinationInitiateBlockNumber *int64    `gorm:"column:destination_initiate_block_number"`
	DestinationRedeemBlockNumber   *int64    `gorm:"column:destination_redeem_block_number"`
	DestinationRefundBlockNumber   *int64    `gorm:"column:destination_refund_block_number"`
	DestinationUpdatedAt           time.Time `gorm:"column:destination_updated_at"`
}
