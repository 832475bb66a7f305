package domain

import (
	"time"
)

// SourceTag identifies which upstream system produced a record
type SourceTag string

const (
	// SourceReal is exchange-observed spread data (DataFetcher)
	SourceReal SourceTag = "real"
	// SourceSynthetic is spread data constructed from single-leg order books (SpreadViewer)
	SourceSynthetic SourceTag = "synthetic"
)

// Broker IDs used by the upstream systems to tag their records
const (
	BrokerIDReal      = 1441
	BrokerIDSynthetic = 9999
)

// BrokerID returns the upstream broker ID convention for this source
func (s SourceTag) BrokerID() int {
	if s == SourceSynthetic {
		return BrokerIDSynthetic
	}
	return BrokerIDReal
}

// IsValid checks if the source tag is known
func (s SourceTag) IsValid() bool {
	return s == SourceReal || s == SourceSynthetic
}

// TradeAction is the aggressor side of a trade: +1 buy, -1 sell
type TradeAction int

const (
	ActionBuy  TradeAction = 1
	ActionSell TradeAction = -1
)

// TradeTick is a single point-in-time trade event for a spread instrument.
// Timestamps are timezone-naive local exchange time, assumed consistent
// across both sources.
type TradeTick struct {
	Time    time.Time   `json:"time"`
	Price   float64     `json:"price"`
	Volume  float64     `json:"volume"`
	Action  TradeAction `json:"action"`
	Source  SourceTag   `json:"source"`
	TradeID string      `json:"trade_id,omitempty"`
}

// QuoteTick is a single order-book observation (best bid and ask) for a spread
type QuoteTick struct {
	Time   time.Time `json:"time"`
	Bid    float64   `json:"bid"`
	Ask    float64   `json:"ask"`
	Source SourceTag `json:"source"`
}

// Crossed reports whether the quote has ask below bid. Real market data
// legitimately contains crossed quotes; they are flagged, not rejected.
func (q QuoteTick) Crossed() bool {
	return q.Ask < q.Bid
}

// Mid returns the quote mid-price
func (q QuoteTick) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}
