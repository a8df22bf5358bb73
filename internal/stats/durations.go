package stats

import (
	"time"

	"github.com/swaplens/analytics-backend/internal/model"
)

// Stage durations measure each milestone against its latest recorded
// predecessor. Init timestamps are backfilled out of band, so any
// predecessor may still be null; the measurement then falls back through
// the chain, ending at the order's creation time. Clock skew between
// chains and the orderbook can make a raw difference negative, in which
// case it clamps to zero.

type average struct {
	sum float64
	n   int
}

func (a *average) add(seconds float64) {
	a.sum += seconds
	a.n++
}

func (a *average) value() *float64 {
	if a.n == 0 {
		return nil
	}

	v := a.sum / float64(a.n)
	return &v
}

type durationAggregator struct {
	userInit   average
	cobiInit   average
	userRedeem average
	cobiRedeem average
	userRefund average
	cobiRefund average
	overall    average
}

func (g *durationAggregator) observe(r *model.OrderAnalysis) {
	if r.UserInit != nil {
		g.userInit.add(clampedSeconds(r.CreatedAt, *r.UserInit))
	}
	if r.CobiInit != nil {
		g.cobiInit.add(clampedSeconds(baseline(r.CreatedAt, r.UserInit), *r.CobiInit))
	}
	if r.UserRedeem != nil {
		g.userRedeem.add(clampedSeconds(baseline(r.CreatedAt, r.CobiInit, r.UserInit), *r.UserRedeem))
	}
	if r.CobiRedeem != nil {
		g.cobiRedeem.add(clampedSeconds(baseline(r.CreatedAt, r.UserRedeem, r.CobiInit, r.UserInit), *r.CobiRedeem))
	}

	// Refunds measure from the same side's init, not from the redeem chain.
	if r.UserRefund != nil {
		g.userRefund.add(clampedSeconds(baseline(r.CreatedAt, r.UserInit), *r.UserRefund))
	}
	if r.CobiRefund != nil {
		g.cobiRefund.add(clampedSeconds(baseline(r.CreatedAt, r.CobiInit), *r.CobiRefund))
	}

	if terminal := latestOf(r.UserRedeem, r.CobiRedeem, r.UserRefund, r.CobiRefund); terminal != nil {
		g.overall.add(clampedSeconds(r.CreatedAt, *terminal))
	}
}

func (g *durationAggregator) stats(q model.DurationQuery, totalOrders int64) *model.DurationStats {
	return &model.DurationStats{
		SourceChain:      q.SourceChain,
		DestinationChain: q.DestinationChain,
		StartTime:        q.StartTime,
		EndTime:          q.EndTime,
		TotalOrders:      totalOrders,

		AvgUserInitDuration:   g.userInit.value(),
		AvgCobiInitDuration:   g.cobiInit.value(),
		AvgUserRedeemDuration: g.userRedeem.value(),
		AvgCobiRedeemDuration: g.cobiRedeem.value(),
		AvgUserRefundDuration: g.userRefund.value(),
		AvgCobiRefundDuration: g.cobiRefund.value(),
		AvgOverallDuration:    g.overall.value(),
	}
}

// baseline picks the first non-nil timestamp, most recent predecessor
// first, falling back to the order creation time.
func baseline(createdAt time.Time, preferred ...*time.Time) time.Time {
	for _, t := range preferred {
		if t != nil {
			return *t
		}
	}

	return createdAt
}

func latestOf(candidates ...*time.Time) *time.Time {
	var latest *time.Time
	for _, t := range candidates {
		if t == nil {
			continue
		}
		if latest == nil || t.After(*latest) {
			latest = t
		}
	}

	return latest
}

func clampedSeconds(from, to time.Time) float64 {
	seconds := to.Sub(from).Seconds()
	if seconds < 0 {
		return 0
	}

	return seconds
}
