package merge

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"spreadcli/internal/errors"
	"spreadcli/pkg/contracts/domain"
)

// Row is one raw time-stamped record as exported by an upstream system, before
// any column normalization. Values holds whatever named columns the export had.
type Row struct {
	Time    time.Time
	Values  map[string]float64
	TradeID string
}

// Column synonym sets. The synthetic source historically used "bid"/"ask" where
// the real source used "b_price"/"a_price", and exported trades as one-sided
// "buy"/"sell" price columns instead of price+action.
var (
	bidColumns = []string{"b_price", "bid"}
	askColumns = []string{"a_price", "ask"}
)

// NormalizeTrades maps raw trade rows onto canonical trade ticks.
//
// Two layouts are recognized: price/volume/action (real source) and one-sided
// buy/sell price columns (synthetic source). A row carrying both a buy and a
// sell price is tie-broken to a buy (action +1) and logged; this mirrors the
// upstream convention and is provisional rather than confirmed domain behavior.
// Rows without any recognizable price column make the whole frame a schema
// mismatch.
func NormalizeTrades(ctx context.Context, rows []Row, source domain.SourceTag, logger *slog.Logger) ([]domain.TradeTick, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(rows) == 0 {
		return nil, nil
	}

	hasPrice := frameHasColumn(rows, "price")
	hasSided := frameHasColumn(rows, "buy") || frameHasColumn(rows, "sell")
	if !hasPrice && !hasSided {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("%s trades: no price, buy or sell column", source), nil)
	}

	ticks := make([]domain.TradeTick, 0, len(rows))
	for _, row := range rows {
		if hasPrice {
			tick, ok := normalizePricedTrade(row, source)
			if ok {
				ticks = append(ticks, tick)
			}
			continue
		}
		ticks = append(ticks, normalizeSidedTrade(ctx, row, source, logger)...)
	}
	return ticks, nil
}

// normalizePricedTrade handles the price/volume/action layout
func normalizePricedTrade(row Row, source domain.SourceTag) (domain.TradeTick, bool) {
	price, ok := row.Values["price"]
	if !ok || math.IsNaN(price) {
		return domain.TradeTick{}, false
	}

	volume := 1.0
	if v, ok := row.Values["volume"]; ok && !math.IsNaN(v) {
		volume = v
	}

	action := domain.ActionBuy
	if a, ok := row.Values["action"]; ok && a < 0 {
		action = domain.ActionSell
	}

	return domain.TradeTick{
		Time:    row.Time,
		Price:   price,
		Volume:  volume,
		Action:  action,
		Source:  source,
		TradeID: tradeID(row, source),
	}, true
}

// normalizeSidedTrade handles the buy/sell column layout. A row may legitimately
// carry only one side; a row carrying both is a data anomaly tie-broken to buy.
func normalizeSidedTrade(ctx context.Context, row Row, source domain.SourceTag, logger *slog.Logger) []domain.TradeTick {
	buy, hasBuy := row.Values["buy"]
	sell, hasSell := row.Values["sell"]
	hasBuy = hasBuy && !math.IsNaN(buy)
	hasSell = hasSell && !math.IsNaN(sell)

	switch {
	case hasBuy && hasSell:
		logger.WarnContext(ctx, "trade row has both buy and sell populated, treating as buy",
			slog.Time("timestamp", row.Time),
			slog.Float64("buy", buy),
			slog.Float64("sell", sell),
			slog.String("source", string(source)),
		)
		return []domain.TradeTick{{
			Time:    row.Time,
			Price:   buy,
			Volume:  1,
			Action:  domain.ActionBuy,
			Source:  source,
			TradeID: tradeID(row, source),
		}}
	case hasBuy:
		return []domain.TradeTick{{
			Time:    row.Time,
			Price:   buy,
			Volume:  1,
			Action:  domain.ActionBuy,
			Source:  source,
			TradeID: tradeID(row, source),
		}}
	case hasSell:
		return []domain.TradeTick{{
			Time:    row.Time,
			Price:   sell,
			Volume:  1,
			Action:  domain.ActionSell,
			Source:  source,
			TradeID: tradeID(row, source),
		}}
	default:
		return nil
	}
}

// NormalizeOrders maps raw order-book rows onto canonical quote ticks,
// accepting either b_price/a_price or bid/ask column names. Rows with neither
// side populated are skipped; a frame without any quote column at all is a
// schema mismatch.
func NormalizeOrders(ctx context.Context, rows []Row, source domain.SourceTag, logger *slog.Logger) ([]domain.QuoteTick, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(rows) == 0 {
		return nil, nil
	}

	bidCol := frameColumn(rows, bidColumns)
	askCol := frameColumn(rows, askColumns)
	if bidCol == "" && askCol == "" {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("%s orders: no bid or ask column", source), nil)
	}

	quotes := make([]domain.QuoteTick, 0, len(rows))
	for _, row := range rows {
		bid := columnValue(row, bidCol)
		ask := columnValue(row, askCol)
		if math.IsNaN(bid) && math.IsNaN(ask) {
			continue
		}
		quotes = append(quotes, domain.QuoteTick{
			Time:   row.Time,
			Bid:    bid,
			Ask:    ask,
			Source: source,
		})
	}
	return quotes, nil
}

// tradeID returns the upstream trade ID, or generates one for synthetic trades
// that arrive without an identifier
func tradeID(row Row, source domain.SourceTag) string {
	if row.TradeID != "" {
		return row.TradeID
	}
	if source == domain.SourceSynthetic {
		return "synth_" + uuid.NewString()
	}
	return ""
}

// frameHasColumn reports whether any row in the frame carries the column
func frameHasColumn(rows []Row, name string) bool {
	for _, row := range rows {
		if _, ok := row.Values[name]; ok {
			return true
		}
	}
	return false
}

// frameColumn returns the first synonym present anywhere in the frame
func frameColumn(rows []Row, synonyms []string) string {
	for _, name := range synonyms {
		if frameHasColumn(rows, name) {
			return name
		}
	}
	return ""
}

// columnValue reads a named column from a row, NaN when absent
func columnValue(row Row, name string) float64 {
	if name == "" {
		return math.NaN()
	}
	v, ok := row.Values[name]
	if !ok {
		return math.NaN()
	}
	return v
}
