package merge

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"spreadcli/internal/errors"
	"spreadcli/pkg/contracts/domain"
)

// SourceData is one source's contribution to a merge: its trade stream and its
// order-book (quote) stream, already normalized to canonical ticks. Either
// stream may be empty.
type SourceData struct {
	Trades []domain.TradeTick
	Orders []domain.QuoteTick
}

// Empty reports whether the source contributed no records at all
func (s SourceData) Empty() bool {
	return len(s.Trades) == 0 && len(s.Orders) == 0
}

// Options configures merge behavior
type Options struct {
	// RequireData makes a merge with both sources empty an error instead of
	// returning an empty dataset
	RequireData bool

	// StrictQuotes removes crossed quotes (ask < bid) before merging instead
	// of passing them through with a warning
	StrictQuotes bool

	// OutlierFilter, when non-nil, removes extreme price outliers from the
	// merged trade stream
	OutlierFilter *OutlierConfig
}

// Merger combines a real and a synthetic data source for the same logical
// spread into one unified dataset. Stateless between calls; safe for
// concurrent, independent invocations.
type Merger struct {
	logger *slog.Logger
	opts   Options
}

// NewMerger creates a merger with the given options
func NewMerger(logger *slog.Logger, opts Options) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger, opts: opts}
}

// Merge combines the two sources. Trades are unioned and deduplicated; quotes
// are forward-filled per source onto the union timeline and combined under
// best-bid/best-ask semantics. Either side may be entirely empty.
func (m *Merger) Merge(ctx context.Context, real, synthetic SourceData) (domain.MergedSpreadDataset, error) {
	if real.Empty() && synthetic.Empty() {
		if m.opts.RequireData {
			return domain.MergedSpreadDataset{}, errors.NewEmptyResultError(
				"both real and synthetic sources are empty")
		}
		return domain.MergedSpreadDataset{}, nil
	}

	stats := domain.SourceStats{
		RealTrades:      len(real.Trades),
		RealOrders:      len(real.Orders),
		SyntheticTrades: len(synthetic.Trades),
		SyntheticOrders: len(synthetic.Orders),
	}

	validator := NewQuoteValidator(m.logger, m.opts.StrictQuotes)
	realOrders := validator.Validate(ctx, real.Orders, domain.SourceReal)
	syntheticOrders := validator.Validate(ctx, synthetic.Orders, domain.SourceSynthetic)
	stats.CrossedQuotes = validator.Crossed()
	stats.FilteredQuotes = validator.Filtered()

	trades, dropped := m.mergeTrades(real.Trades, synthetic.Trades)
	if m.opts.OutlierFilter != nil {
		var removed int
		trades, removed = FilterOutliers(ctx, trades, *m.opts.OutlierFilter, m.logger)
		dropped += removed
	}

	orders := m.mergeOrders(realOrders, syntheticOrders)

	stats.MergedTrades = len(trades)
	stats.MergedOrders = len(orders)
	stats.DroppedTrades = dropped

	m.logger.InfoContext(ctx, "spread data merged",
		slog.Int("real_trades", stats.RealTrades),
		slog.Int("synthetic_trades", stats.SyntheticTrades),
		slog.Int("merged_trades", stats.MergedTrades),
		slog.Int("real_orders", stats.RealOrders),
		slog.Int("synthetic_orders", stats.SyntheticOrders),
		slog.Int("merged_orders", stats.MergedOrders),
	)

	return domain.MergedSpreadDataset{
		Trades: trades,
		Orders: orders,
		Stats:  stats,
	}, nil
}

// tradeKey identifies duplicate trades. Source is deliberately not part of the
// key: a synthetic trade at the same timestamp, price and volume as a real one
// is an echo of the same fill, and the real copy wins.
type tradeKey struct {
	nanos  int64
	price  float64
	volume float64
}

// mergeTrades unions both trade streams, sorted by timestamp, dropping exact
// duplicates. Trades are point events: no resampling, no fill.
func (m *Merger) mergeTrades(real, synthetic []domain.TradeTick) ([]domain.TradeTick, int) {
	combined := make([]domain.TradeTick, 0, len(real)+len(synthetic))
	combined = append(combined, real...)
	combined = append(combined, synthetic...)

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Time.Before(combined[j].Time)
	})

	seen := make(map[tradeKey]bool, len(combined))
	merged := combined[:0]
	dropped := 0
	for _, t := range combined {
		key := tradeKey{t.Time.UnixNano(), t.Price, t.Volume}
		if seen[key] {
			dropped++
			continue
		}
		seen[key] = true
		merged = append(merged, t)
	}
	return merged, dropped
}

// mergeOrders builds the union of both sources' quote timestamps, forward-fills
// each source independently (never backward, nothing before a source's first
// observation), and takes the highest available bid and lowest available ask at
// every timestamp.
func (m *Merger) mergeOrders(real, synthetic []domain.QuoteTick) []domain.MergedQuote {
	if len(real) == 0 && len(synthetic) == 0 {
		return nil
	}

	timeline := unionTimeline(real, synthetic)
	realFill := newForwardFill(real)
	synthFill := newForwardFill(synthetic)

	merged := make([]domain.MergedQuote, 0, len(timeline))
	for _, ts := range timeline {
		realBid, realAsk := realFill.at(ts)
		synthBid, synthAsk := synthFill.at(ts)

		bid := bestBid(realBid, synthBid)
		ask := bestAsk(realAsk, synthAsk)
		if math.IsNaN(bid) && math.IsNaN(ask) {
			continue
		}
		merged = append(merged, domain.MergedQuote{Time: ts, Bid: bid, Ask: ask})
	}
	return merged
}

// unionTimeline returns the sorted distinct timestamps of both quote streams
func unionTimeline(real, synthetic []domain.QuoteTick) []time.Time {
	set := make(map[int64]time.Time, len(real)+len(synthetic))
	for _, q := range real {
		set[q.Time.UnixNano()] = q.Time
	}
	for _, q := range synthetic {
		set[q.Time.UnixNano()] = q.Time
	}

	timeline := make([]time.Time, 0, len(set))
	for _, t := range set {
		timeline = append(timeline, t)
	}
	sort.Slice(timeline, func(i, j int) bool {
		return timeline[i].Before(timeline[j])
	})
	return timeline
}

// forwardFill walks one source's quotes in time order and carries the last
// known bid and ask forward. Before the source's first observation it
// contributes nothing.
type forwardFill struct {
	quotes  []domain.QuoteTick
	idx     int
	lastBid float64
	lastAsk float64
}

func newForwardFill(quotes []domain.QuoteTick) *forwardFill {
	sorted := make([]domain.QuoteTick, len(quotes))
	copy(sorted, quotes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})
	return &forwardFill{quotes: sorted, lastBid: math.NaN(), lastAsk: math.NaN()}
}

// at returns the source's last-known bid and ask as of ts. Timestamps must be
// queried in non-decreasing order.
func (f *forwardFill) at(ts time.Time) (bid, ask float64) {
	for f.idx < len(f.quotes) && !f.quotes[f.idx].Time.After(ts) {
		q := f.quotes[f.idx]
		if !math.IsNaN(q.Bid) {
			f.lastBid = q.Bid
		}
		if !math.IsNaN(q.Ask) {
			f.lastAsk = q.Ask
		}
		f.idx++
	}
	return f.lastBid, f.lastAsk
}

// bestBid picks the highest available bid; NaN sides are unavailable
func bestBid(a, b float64) float64 {
	switch {
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	default:
		return math.Max(a, b)
	}
}

// bestAsk picks the lowest available ask; NaN sides are unavailable
func bestAsk(a, b float64) float64 {
	switch {
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	default:
		return math.Min(a, b)
	}
}
