package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/swaplens/analytics-backend/internal/model"
)

const backfillWorkers = 8

func (p *Pipeline) BackfillInitTimes(ctx context.Context) (int, error) {
	p.backfillMu.Lock()
	defer p.backfillMu.Unlock()

	p.logger.Info("[BackfillInitTimes] Start backfilling init timestamps...")

	records, err := p.store.OrderAnalysis.ListMissingInitTimes(p.analysisDB.WithContext(ctx))
	if err != nil {
		p.logger.Error("[BackfillInitTimes][ListMissingInitTimes]", map[string]string{
			"error": err.Error(),
		})
		return 0, err
	}

	if len(records) == 0 {
		p.logger.Info("[BackfillInitTimes] Nothing to backfill.")
		return 0, nil
	}

	// Records are independent: each one gets its own resolver calls and its
	// own autocommitted UPDATE, so one bad chain or one bad row never holds
	// up the rest.
	var patched atomic.Int64

	pool := pond.NewPool(backfillWorkers)
	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	for i := range records {
		record := records[i]
		group.Submit(func() {
			if err := groupCtx.Err(); err != nil {
				return
			}
			if p.backfillRecord(groupCtx, record) {
				patched.Add(1)
			}
		})
	}

	err = group.Wait()
	pool.StopAndWait()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		p.logger.Error("[BackfillInitTimes][group.Wait]", map[string]string{
			"error": err.Error(),
		})
		return int(patched.Load()), err
	}

	p.logger.Info(fmt.Sprintf("[BackfillInitTimes] Patched %d of %d records", patched.Load(), len(records)))
	return int(patched.Load()), nil
}

// backfillRecord resolves whichever init timestamps are still missing on
// one record and patches them in. Reports whether an update was written.
func (p *Pipeline) backfillRecord(ctx context.Context, record model.OrderAnalysis) bool {
	var userInit, cobiInit *time.Time

	if record.UserInit == nil && record.UserInitBlockNumber != nil && *record.UserInitBlockNumber >= 0 {
		userInit = p.chainRPC.BlockTime(ctx, record.SourceChain, uint64(*record.UserInitBlockNumber))
	}
	if record.CobiInit == nil && record.CobiInitBlockNumber != nil && *record.CobiInitBlockNumber >= 0 {
		cobiInit = p.chainRPC.BlockTime(ctx, record.DestinationChain, uint64(*record.CobiInitBlockNumber))
	}

	// Nothing resolved: skip the write entirely rather than issuing a
	// no-op UPDATE.
	if userInit == nil && cobiInit == nil {
		return false
	}

	ok, err := p.store.OrderAnalysis.PatchInitTimes(p.analysisDB.WithContext(ctx), record.OrderID, userInit, cobiInit)
	if err != nil {
		p.logger.Error("[BackfillInitTimes][PatchInitTimes]", map[string]string{
			"order_id": record.OrderID,
			"error":    err.Error(),
		})
		return false
	}

	return ok
}
