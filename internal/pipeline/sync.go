package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/swaplens/analytics-backend/internal/model"
	"github.com/swaplens/analytics-backend/internal/store"
)

func (p *Pipeline) SyncCompletedOrders(ctx context.Context) (int, error) {
	p.syncMu.Lock()
	defer p.syncMu.Unlock()

	p.logger.Info("[SyncCompletedOrders] Start syncing completed orders...")

	watermark, err := p.watermark(ctx)
	if err != nil {
		p.logger.Error("[SyncCompletedOrders][GetLatestOrder]", map[string]string{
			"error": err.Error(),
		})
		return 0, err
	}

	rows, err := p.store.SourceOrder.ListCompletedSince(p.sourceDB.WithContext(ctx), watermark)
	if err != nil {
		p.logger.Error("[SyncCompletedOrders][ListCompletedSince]", map[string]string{
			"error": err.Error(),
		})
		return 0, err
	}

	if len(rows) == 0 {
		p.logger.Info("[SyncCompletedOrders] No new completed orders.")
		return 0, nil
	}

	// Rows arrive ordered by created_at. Duplicate join rows for one order
	// can show up when the source store briefly holds repeated matched-order
	// entries; the first row wins.
	seen := map[string]bool{}
	records := make([]model.OrderAnalysis, 0, len(rows))
	for _, row := range rows {
		if seen[row.OrderID] {
			continue
		}
		seen[row.OrderID] = true
		records = append(records, buildOrderAnalysis(row))
	}

	inserted := 0
	err = store.DoInTx(ctx, p.analysisDB, func(tx *gorm.DB) error {
		for i := range records {
			ok, err := p.store.OrderAnalysis.CreateIfNotExists(tx, &records[i])
			if err != nil {
				p.logger.Error("[SyncCompletedOrders][CreateIfNotExists]", map[string]string{
					"order_id": records[i].OrderID,
					"error":    err.Error(),
				})
				return err
			}
			if ok {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	p.logger.Info(fmt.Sprintf("[SyncCompletedOrders] Inserted %d of %d completed orders", inserted, len(records)))
	return inserted, nil
}

// watermark is the greatest created_at already synced. It is recomputed
// from the analysis store on every cycle, never cached, so an aborted
// cycle retries the same range and an empty store syncs from the epoch.
func (p *Pipeline) watermark(ctx context.Context) (time.Time, error) {
	latest, err := p.store.OrderAnalysis.GetLatestOrder(p.analysisDB.WithContext(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}

	return latest.CreatedAt, nil
}

// buildOrderAnalysis maps one completed source row to an analysis record.
// Init timestamps stay null here; the backfill job resolves them later
// from the init block numbers. Redeem and refund fields are only taken
// from a leg when that leg carries the matching transaction hash, with
// redeem winning if a leg somehow carries both.
func buildOrderAnalysis(row model.CompletedOrder) model.OrderAnalysis {
	record := model.OrderAnalysis{
		OrderID:             row.OrderID,
		SourceSwapID:        row.SourceSwapID,
		DestinationSwapID:   row.DestinationSwapID,
		SourceChain:         row.SourceChain,
		DestinationChain:    row.DestinationChain,
		CreatedAt:           row.CreatedAt,
		UserInitBlockNumber: row.SourceInitiateBlockNumber,
		CobiInitBlockNumber: row.DestinationInitiateBlockNumber,
	}

	if row.SecretHash != "" {
		record.SecretHash = &row.SecretHash
	}

	if row.SourceRedeemTxHash != "" {
		t := row.SourceUpdatedAt
		record.UserRedeem = &t
		record.UserRedeemBlockNumber = row.SourceRedeemBlockNumber
	} else if row.SourceRefundTxHash != "" {
		t := row.SourceUpdatedAt
		record.UserRefund = &t
		record.UserRefundBlockNumber = row.SourceRefundBlockNumber
	}

	if row.DestinationRedeemTxHash != "" {
		t := row.DestinationUpdatedAt
		record.CobiRedeem = &t
		record.CobiRedeemBlockNumber = row.DestinationRedeemBlockNumber
	} else if row.DestinationRefundTxHash != "" {
		t := row.DestinationUpdatedAt
		record.CobiRefund = &t
		record.CobiRefundBlockNumber = row.DestinationRefundBlockNumber
	}

	return record
}
