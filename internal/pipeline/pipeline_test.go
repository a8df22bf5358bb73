package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/swaplens/analytics-backend/internal/model"
	"github.com/swaplens/analytics-backend/internal/store"
	"github.com/swaplens/analytics-backend/internal/types/environments"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

var testDBCounter atomic.Int64

// stubChainRPC resolves block times from a fixed chain:block map and
// counts lookups. Unknown blocks resolve to none, like a failing RPC.
type stubChainRPC struct {
	mu    sync.Mutex
	times map[string]time.Time
	calls int
}

func blockKey(chain model.Chain, blockNumber uint64) string {
	return fmt.Sprintf("%s:%d", chain, blockNumber)
}

func (s *stubChainRPC) BlockTime(ctx context.Context, chain model.Chain, blockNumber uint64) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if t, ok := s.times[blockKey(chain, blockNumber)]; ok {
		return &t
	}

	return nil
}

func (s *stubChainRPC) SupportedChains() []model.Chain {
	return nil
}

func (s *stubChainRPC) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

func newTestPipeline(t *testing.T, chainRPC *stubChainRPC) (*Pipeline, *gorm.DB, *gorm.DB) {
	t.Helper()

	id := testDBCounter.Add(1)

	sourceDB, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:pipelinesrc%d?mode=memory&cache=shared", id)), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, sourceDB.AutoMigrate(&model.Order{}, &model.MatchedOrder{}, &model.Swap{}))

	analysisDB, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:pipelineana%d?mode=memory&cache=shared", id)), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, analysisDB.AutoMigrate(&model.OrderAnalysis{}))

	p := New(sourceDB, analysisDB, store.New(), logger.New(environments.Test), chainRPC)

	return p.(*Pipeline), sourceDB, analysisDB
}

func int64Ptr(v int64) *int64 {
	return &v
}

type legFixture struct {
	chain        model.Chain
	redeemTxHash string
	refundTxHash string
	updatedAt    time.Time
	initBlock    *int64
	redeemBlock  *int64
	refundBlock  *int64
}

func seedSourceOrder(t *testing.T, db *gorm.DB, orderID string, createdAt time.Time, source, destination legFixture) {
	t.Helper()

	require.NoError(t, db.Create(&model.Order{
		ID:         orderID,
		SecretHash: orderID + "-secret",
		CreatedAt:  createdAt,
	}).Error)
	require.NoError(t, db.Create(&model.Swap{
		ID:                  orderID + "-src",
		Chain:               source.chain,
		RedeemTxHash:        source.redeemTxHash,
		RefundTxHash:        source.refundTxHash,
		InitiateBlockNumber: source.initBlock,
		RedeemBlockNumber:   source.redeemBlock,
		RefundBlockNumber:   source.refundBlock,
		UpdatedAt:           source.updatedAt,
	}).Error)
	require.NoError(t, db.Create(&model.Swap{
		ID:                  orderID + "-dst",
		Chain:               destination.chain,
		RedeemTxHash:        destination.redeemTxHash,
		RefundTxHash:        destination.refundTxHash,
		InitiateBlockNumber: destination.initBlock,
		RedeemBlockNumber:   destination.redeemBlock,
		RefundBlockNumber:   destination.refundBlock,
		UpdatedAt:           destination.updatedAt,
	}).Error)
	require.NoError(t, db.Create(&model.MatchedOrder{
		OrderID:           orderID,
		SourceSwapID:      orderID + "-src",
		DestinationSwapID: orderID + "-dst",
	}).Error)
}

func TestSyncCompletedOrders_InsertsAndIsIdempotent(t *testing.T) {
	p, sourceDB, analysisDB := newTestPipeline(t, &stubChainRPC{})
	createdAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	seedSourceOrder(t, sourceDB, "order-1", createdAt,
		legFixture{
			chain:        model.ChainBitcoin,
			redeemTxHash: "deadbeef",
			updatedAt:    createdAt.Add(5 * time.Minute),
			initBlock:    int64Ptr(100),
			redeemBlock:  int64Ptr(105),
		},
		legFixture{
			chain:        model.ChainEthereum,
			refundTxHash: "cafebabe",
			updatedAt:    createdAt.Add(10 * time.Minute),
			initBlock:    int64Ptr(200),
			refundBlock:  int64Ptr(210),
		},
	)

	inserted, err := p.SyncCompletedOrders(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, inserted)

	var got model.OrderAnalysis
	require.NoError(t, analysisDB.Where("order_id = ?", "order-1").First(&got).Error)
	assert.Equal(t, model.ChainBitcoin, got.SourceChain)
	assert.Equal(t, model.ChainEthereum, got.DestinationChain)
	require.NotNil(t, got.SecretHash)
	assert.Equal(t, "order-1-secret", *got.SecretHash)

	// Redeem and refund times come straight from the source store.
	require.NotNil(t, got.UserRedeem)
	assert.WithinDuration(t, createdAt.Add(5*time.Minute), *got.UserRedeem, time.Second)
	assert.Nil(t, got.UserRefund)
	require.NotNil(t, got.CobiRefund)
	assert.WithinDuration(t, createdAt.Add(10*time.Minute), *got.CobiRefund, time.Second)
	assert.Nil(t, got.CobiRedeem)

	// Init times wait for the backfill; only the block numbers land now.
	assert.Nil(t, got.UserInit)
	assert.Nil(t, got.CobiInit)
	require.NotNil(t, got.UserInitBlockNumber)
	assert.Equal(t, int64(100), *got.UserInitBlockNumber)
	require.NotNil(t, got.CobiInitBlockNumber)
	assert.Equal(t, int64(200), *got.CobiInitBlockNumber)
	require.NotNil(t, got.UserRedeemBlockNumber)
	assert.Equal(t, int64(105), *got.UserRedeemBlockNumber)
	require.NotNil(t, got.CobiRefundBlockNumber)
	assert.Equal(t, int64(210), *got.CobiRefundBlockNumber)

	// A second cycle sees the watermark and inserts nothing.
	inserted, err = p.SyncCompletedOrders(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, inserted)

	var count int64
	require.NoError(t, analysisDB.Model(&model.OrderAnalysis{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSyncCompletedOrders_IgnoresOrdersWithPendingLeg(t *testing.T) {
	p, sourceDB, analysisDB := newTestPipeline(t, &stubChainRPC{})
	createdAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	seedSourceOrder(t, sourceDB, "order-pending", createdAt,
		legFixture{
			chain:        model.ChainBitcoin,
			redeemTxHash: "deadbeef",
			updatedAt:    createdAt.Add(5 * time.Minute),
		},
		legFixture{
			chain:     model.ChainEthereum,
			updatedAt: createdAt.Add(5 * time.Minute),
		},
	)

	inserted, err := p.SyncCompletedOrders(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, inserted)

	var count int64
	require.NoError(t, analysisDB.Model(&model.OrderAnalysis{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSyncCompletedOrders_LaterOrdersPickedUpAfterWatermark(t *testing.T) {
	p, sourceDB, _ := newTestPipeline(t, &stubChainRPC{})
	createdAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	terminal := func(updated time.Time) legFixture {
		return legFixture{
			chain:        model.ChainBitcoin,
			redeemTxHash: "aa",
			updatedAt:    updated,
		}
	}

	seedSourceOrder(t, sourceDB, "order-1", createdAt, terminal(createdAt.Add(time.Minute)), terminal(createdAt.Add(time.Minute)))

	inserted, err := p.SyncCompletedOrders(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, inserted)

	// An order completing later lands in the next cycle.
	seedSourceOrder(t, sourceDB, "order-2", createdAt.Add(time.Hour), terminal(createdAt.Add(2*time.Hour)), terminal(createdAt.Add(2*time.Hour)))

	inserted, err = p.SyncCompletedOrders(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, inserted)
}

func TestBackfillInitTimes_PatchesAndConverges(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	chainRPC := &stubChainRPC{
		times: map[string]time.Time{
			blockKey(model.ChainBitcoin, 100):  createdAt.Add(1 * time.Minute),
			blockKey(model.ChainEthereum, 200): createdAt.Add(2 * time.Minute),
		},
	}
	p, sourceDB, analysisDB := newTestPipeline(t, chainRPC)

	seedSourceOrder(t, sourceDB, "order-1", createdAt,
		legFixture{
			chain:        model.ChainBitcoin,
			redeemTxHash: "deadbeef",
			updatedAt:    createdAt.Add(5 * time.Minute),
			initBlock:    int64Ptr(100),
		},
		legFixture{
			chain:        model.ChainEthereum,
			redeemTxHash: "cafebabe",
			updatedAt:    createdAt.Add(10 * time.Minute),
			initBlock:    int64Ptr(200),
		},
	)

	_, err := p.SyncCompletedOrders(context.Background())
	require.NoError(t, err)

	patched, err := p.BackfillInitTimes(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, patched)

	var got model.OrderAnalysis
	require.NoError(t, analysisDB.Where("order_id = ?", "order-1").First(&got).Error)
	require.NotNil(t, got.UserInit)
	assert.WithinDuration(t, createdAt.Add(1*time.Minute), *got.UserInit, time.Second)
	require.NotNil(t, got.CobiInit)
	assert.WithinDuration(t, createdAt.Add(2*time.Minute), *got.CobiInit, time.Second)

	// Fully patched records drop out of the candidate set, so the next
	// run resolves nothing and calls no RPC.
	callsBefore := chainRPC.callCount()
	patched, err = p.BackfillInitTimes(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, patched)
	assert.Equal(t, callsBefore, chainRPC.callCount())
}

func TestBackfillInitTimes_PartialResolutionConvergesLater(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	chainRPC := &stubChainRPC{
		times: map[string]time.Time{
			blockKey(model.ChainBitcoin, 100): createdAt.Add(1 * time.Minute),
		},
	}
	p, sourceDB, analysisDB := newTestPipeline(t, chainRPC)

	seedSourceOrder(t, sourceDB, "order-1", createdAt,
		legFixture{
			chain:        model.ChainBitcoin,
			redeemTxHash: "deadbeef",
			updatedAt:    createdAt.Add(5 * time.Minute),
			initBlock:    int64Ptr(100),
		},
		legFixture{
			chain:        model.ChainEthereum,
			redeemTxHash: "cafebabe",
			updatedAt:    createdAt.Add(10 * time.Minute),
			initBlock:    int64Ptr(200),
		},
	)

	_, err := p.SyncCompletedOrders(context.Background())
	require.NoError(t, err)

	// First pass: only the bitcoin side resolves.
	patched, err := p.BackfillInitTimes(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, patched)

	var got model.OrderAnalysis
	require.NoError(t, analysisDB.Where("order_id = ?", "order-1").First(&got).Error)
	require.NotNil(t, got.UserInit)
	firstUserInit := *got.UserInit
	assert.Nil(t, got.CobiInit)

	// The ethereum endpoint comes back; the next pass fills the gap and
	// leaves the already-written side untouched.
	chainRPC.mu.Lock()
	chainRPC.times[blockKey(model.ChainEthereum, 200)] = createdAt.Add(2 * time.Minute)
	chainRPC.mu.Unlock()

	patched, err = p.BackfillInitTimes(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, patched)

	require.NoError(t, analysisDB.Where("order_id = ?", "order-1").First(&got).Error)
	require.NotNil(t, got.UserInit)
	assert.True(t, got.UserInit.Equal(firstUserInit))
	require.NotNil(t, got.CobiInit)
	assert.WithinDuration(t, createdAt.Add(2*time.Minute), *got.CobiInit, time.Second)
}

func TestBackfillInitTimes_OneBadChainDoesNotBlockOthers(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	chainRPC := &stubChainRPC{
		times: map[string]time.Time{
			blockKey(model.ChainEthereum, 300): createdAt.Add(3 * time.Minute),
			blockKey(model.ChainEthereum, 400): createdAt.Add(4 * time.Minute),
		},
	}
	p, sourceDB, analysisDB := newTestPipeline(t, chainRPC)

	// order-dark sits on a chain the stub cannot resolve at all.
	seedSourceOrder(t, sourceDB, "order-dark", createdAt,
		legFixture{
			chain:        model.ChainSolana,
			redeemTxHash: "aa",
			updatedAt:    createdAt.Add(5 * time.Minute),
			initBlock:    int64Ptr(1),
		},
		legFixture{
			chain:        model.ChainSolana,
			redeemTxHash: "bb",
			updatedAt:    createdAt.Add(6 * time.Minute),
			initBlock:    int64Ptr(2),
		},
	)
	seedSourceOrder(t, sourceDB, "order-lit", createdAt.Add(time.Minute),
		legFixture{
			chain:        model.ChainEthereum,
			redeemTxHash: "cc",
			updatedAt:    createdAt.Add(7 * time.Minute),
			initBlock:    int64Ptr(300),
		},
		legFixture{
			chain:        model.ChainEthereum,
			redeemTxHash: "dd",
			updatedAt:    createdAt.Add(8 * time.Minute),
			initBlock:    int64Ptr(400),
		},
	)

	_, err := p.SyncCompletedOrders(context.Background())
	require.NoError(t, err)

	patched, err := p.BackfillInitTimes(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, patched)

	var lit model.OrderAnalysis
	require.NoError(t, analysisDB.Where("order_id = ?", "order-lit").First(&lit).Error)
	assert.NotNil(t, lit.UserInit)
	assert.NotNil(t, lit.CobiInit)

	var dark model.OrderAnalysis
	require.NoError(t, analysisDB.Where("order_id = ?", "order-dark").First(&dark).Error)
	assert.Nil(t, dark.UserInit)
	assert.Nil(t, dark.CobiInit)
}

func TestBackfillInitTimes_RecordsWithoutBlockNumbersAreStable(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	chainRPC := &stubChainRPC{}
	p, sourceDB, analysisDB := newTestPipeline(t, chainRPC)

	seedSourceOrder(t, sourceDB, "order-noblocks", createdAt,
		legFixture{
			chain:        model.ChainBitcoin,
			redeemTxHash: "aa",
			updatedAt:    createdAt.Add(5 * time.Minute),
		},
		legFixture{
			chain:        model.ChainEthereum,
			redeemTxHash: "bb",
			updatedAt:    createdAt.Add(6 * time.Minute),
		},
	)

	_, err := p.SyncCompletedOrders(context.Background())
	require.NoError(t, err)

	// No block numbers to resolve: no RPC calls, no writes, and the
	// record simply stays in the missing set.
	patched, err := p.BackfillInitTimes(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, patched)
	assert.Equal(t, 0, chainRPC.callCount())

	var got model.OrderAnalysis
	require.NoError(t, analysisDB.Where("order_id = ?", "order-noblocks").First(&got).Error)
	assert.Nil(t, got.UserInit)
	assert.Nil(t, got.CobiInit)
}
