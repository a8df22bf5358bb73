package model

import (
	"time"
)

// DurationQuery scopes an aggregate-duration computation to one chain pair
// and a closed created_at window.
type DurationQuery struct {
	SourceChain      Chain
	DestinationChain Chain
	StartTime        time.Time
	EndTime          time.Time
}

// DurationStats carries per-milestone average durations in seconds for one
// chain pair over one window. An average is nil when no order in the window
// has that milestone; TotalOrders counts all orders that contributed to at
// least one column.
type DurationStats struct {
	SourceChain      Chain     `json:"source_chain"`
	DestinationChain Chain     `json:"destination_chain"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	TotalOrders      int64     `json:"total_orders"`

	AvgUserInitDuration   *float64 `json:"avg_user_init_duration"`
	AvgCobiInitDuration   *float64 `json:"avg_cobi_init_duration"`
	AvgUserRedeemDuration *float64 `json:"avg_user_redeem_duration"`
	AvgCobiRedeemDuration *float64 `json:"avg_cobi_redeem_duration"`
	AvgUserRefundDuration *float64 `json:"avg_user_refund_duration"`
	AvgCobiRefundDuration *float64 `json:"avg_cobi_refund_duration"`
	AvgOverallDuration    *float64 `json:"avg_overall_duration"`
}
