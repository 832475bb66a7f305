package merge

import (
	"math"
	"sort"
	"time"

	"spreadcli/pkg/contracts/domain"
)

// UnifiedRow is one row of the canonical flat spread dataset: trade columns
// populated for trade rows (NaN otherwise), quote columns forward-filled for
// every row once a quote exists. This is the shape the surrounding tooling
// persists and plots.
type UnifiedRow struct {
	Time     time.Time
	Price    float64
	Volume   float64
	Action   float64
	BrokerID float64
	Bid      float64
	Ask      float64
	Mid      float64
}

// Unified flattens a merged dataset into a single time-sorted row stream.
// Trade rows and quote rows interleave; at equal timestamps trades sort before
// quotes. Bid/ask carry forward across trade rows once known, and Mid is the
// quote mid-price (or the trade price on trade rows).
func Unified(ds domain.MergedSpreadDataset) []UnifiedRow {
	rows := make([]UnifiedRow, 0, len(ds.Trades)+len(ds.Orders))

	for _, t := range ds.Trades {
		rows = append(rows, UnifiedRow{
			Time:     t.Time,
			Price:    t.Price,
			Volume:   t.Volume,
			Action:   float64(t.Action),
			BrokerID: float64(t.Source.BrokerID()),
			Bid:      math.NaN(),
			Ask:      math.NaN(),
			Mid:      t.Price,
		})
	}
	for _, q := range ds.Orders {
		rows = append(rows, UnifiedRow{
			Time:     q.Time,
			Price:    math.NaN(),
			Volume:   math.NaN(),
			Action:   math.NaN(),
			BrokerID: math.NaN(),
			Bid:      q.Bid,
			Ask:      q.Ask,
			Mid:      (q.Bid + q.Ask) / 2,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Time.Before(rows[j].Time)
	})

	// Forward-fill quote columns across trade rows once a quote is known.
	lastBid, lastAsk := math.NaN(), math.NaN()
	for i := range rows {
		if !math.IsNaN(rows[i].Bid) {
			lastBid = rows[i].Bid
		} else {
			rows[i].Bid = lastBid
		}
		if !math.IsNaN(rows[i].Ask) {
			lastAsk = rows[i].Ask
		} else {
			rows[i].Ask = lastAsk
		}
	}
	return rows
}
