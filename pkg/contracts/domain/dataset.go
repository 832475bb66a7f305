package domain

import (
	"time"
)

// MergedQuote is one row of the unified order-book stream: the best available
// bid and ask across both sources at a timestamp. Missing sides are NaN.
type MergedQuote struct {
	Time time.Time `json:"time"`
	Bid  float64   `json:"bid"`
	Ask  float64   `json:"ask"`
}

// SourceStats carries pre- and post-merge record counts for diagnostics
type SourceStats struct {
	RealTrades      int `json:"real_trades"`
	RealOrders      int `json:"real_orders"`
	SyntheticTrades int `json:"synthetic_trades"`
	SyntheticOrders int `json:"synthetic_orders"`
	MergedTrades    int `json:"merged_trades"`
	MergedOrders    int `json:"merged_orders"`
	DroppedTrades   int `json:"dropped_trades"`  // exact duplicates removed from the union
	CrossedQuotes   int `json:"crossed_quotes"`  // bid > ask observations seen on input
	FilteredQuotes  int `json:"filtered_quotes"` // crossed quotes removed (strict mode only)
}

// MergedSpreadDataset is the immutable result of merging a real and a synthetic
// data source for one logical spread
type MergedSpreadDataset struct {
	Trades []TradeTick   `json:"trades"`
	Orders []MergedQuote `json:"orders"`
	Stats  SourceStats   `json:"source_stats"`
}

// Empty reports whether the dataset contains no records at all
func (d MergedSpreadDataset) Empty() bool {
	return len(d.Trades) == 0 && len(d.Orders) == 0
}
