package pipeline

import "context"

type IPipeline interface {
	// SyncCompletedOrders copies matched orders newly completed since the
	// watermark from the orderbook into the analysis store. Returns the
	// number of rows actually inserted.
	SyncCompletedOrders(ctx context.Context) (int, error)

	// BackfillInitTimes resolves missing init timestamps from their block
	// numbers and patches them in. Returns the number of rows patched.
	BackfillInitTimes(ctx context.Context) (int, error)
}
