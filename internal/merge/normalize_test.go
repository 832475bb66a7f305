package merge

import (
	"context"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "spreadcli/internal/errors"
	"spreadcli/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func at(minute int) time.Time {
	return time.Date(2025, 6, 26, 9, minute, 0, 0, time.UTC)
}

func TestNormalizeTrades_PricedLayout(t *testing.T) {
	rows := []Row{
		{Time: at(0), Values: map[string]float64{"price": 10.0, "volume": 5, "action": 1}, TradeID: "t1"},
		{Time: at(5), Values: map[string]float64{"price": 10.1, "volume": 3, "action": -1}, TradeID: "t2"},
		{Time: at(10), Values: map[string]float64{"price": 10.2}},
	}

	ticks, err := NormalizeTrades(context.Background(), rows, domain.SourceReal, testLogger())
	require.NoError(t, err)
	require.Len(t, ticks, 3)

	assert.Equal(t, domain.TradeTick{Time: at(0), Price: 10.0, Volume: 5, Action: domain.ActionBuy, Source: domain.SourceReal, TradeID: "t1"}, ticks[0])
	assert.Equal(t, domain.ActionSell, ticks[1].Action)

	// Missing volume defaults to 1, missing action to buy.
	assert.Equal(t, 1.0, ticks[2].Volume)
	assert.Equal(t, domain.ActionBuy, ticks[2].Action)
}

func TestNormalizeTrades_PricedLayoutSkipsRowsWithoutPrice(t *testing.T) {
	rows := []Row{
		{Time: at(0), Values: map[string]float64{"price": 10.0}},
		{Time: at(5), Values: map[string]float64{"volume": 3}},
		{Time: at(10), Values: map[string]float64{"price": math.NaN()}},
	}

	ticks, err := NormalizeTrades(context.Background(), rows, domain.SourceReal, testLogger())
	require.NoError(t, err)
	require.Len(t, ticks, 1)
	assert.Equal(t, 10.0, ticks[0].Price)
}

func TestNormalizeTrades_SidedLayout(t *testing.T) {
	rows := []Row{
		{Time: at(0), Values: map[string]float64{"buy": 10.0}},
		{Time: at(5), Values: map[string]float64{"sell": 10.1}},
		{Time: at(10), Values: map[string]float64{}},
	}

	ticks, err := NormalizeTrades(context.Background(), rows, domain.SourceSynthetic, testLogger())
	require.NoError(t, err)
	require.Len(t, ticks, 2)

	assert.Equal(t, domain.ActionBuy, ticks[0].Action)
	assert.Equal(t, 10.0, ticks[0].Price)
	assert.Equal(t, domain.ActionSell, ticks[1].Action)
	assert.Equal(t, 10.1, ticks[1].Price)
}

func TestNormalizeTrades_BothSidesTieBreaksToBuy(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	rows := []Row{
		{Time: at(0), Values: map[string]float64{"buy": 10.0, "sell": 10.1}},
	}

	ticks, err := NormalizeTrades(context.Background(), rows, domain.SourceSynthetic, logger)
	require.NoError(t, err)
	require.Len(t, ticks, 1)

	assert.Equal(t, domain.ActionBuy, ticks[0].Action)
	assert.Equal(t, 10.0, ticks[0].Price)
	assert.Contains(t, buf.String(), "both buy and sell")
}

func TestNormalizeTrades_SyntheticTradeIDGenerated(t *testing.T) {
	rows := []Row{
		{Time: at(0), Values: map[string]float64{"buy": 10.0}},
	}

	ticks, err := NormalizeTrades(context.Background(), rows, domain.SourceSynthetic, testLogger())
	require.NoError(t, err)
	require.Len(t, ticks, 1)
	assert.True(t, strings.HasPrefix(ticks[0].TradeID, "synth_"))
}

func TestNormalizeTrades_SchemaError(t *testing.T) {
	rows := []Row{
		{Time: at(0), Values: map[string]float64{"quantity": 5}},
	}

	_, err := NormalizeTrades(context.Background(), rows, domain.SourceReal, testLogger())
	require.Error(t, err)
	assert.True(t, apperrors.IsSchema(err))
}

func TestNormalizeTrades_EmptyInput(t *testing.T) {
	ticks, err := NormalizeTrades(context.Background(), nil, domain.SourceReal, testLogger())
	require.NoError(t, err)
	assert.Empty(t, ticks)
}

func TestNormalizeOrders_ColumnSynonyms(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
	}{
		{
			name: "real column names",
			rows: []Row{{Time: at(0), Values: map[string]float64{"b_price": 9.9, "a_price": 10.1}}},
		},
		{
			name: "synthetic column names",
			rows: []Row{{Time: at(0), Values: map[string]float64{"bid": 9.9, "ask": 10.1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotes, err := NormalizeOrders(context.Background(), tt.rows, domain.SourceReal, testLogger())
			require.NoError(t, err)
			require.Len(t, quotes, 1)
			assert.Equal(t, 9.9, quotes[0].Bid)
			assert.Equal(t, 10.1, quotes[0].Ask)
		})
	}
}

func TestNormalizeOrders_OneSidedRows(t *testing.T) {
	rows := []Row{
		{Time: at(0), Values: map[string]float64{"bid": 9.9}},
		{Time: at(5), Values: map[string]float64{"ask": 10.1}},
		{Time: at(10), Values: map[string]float64{}},
	}

	quotes, err := NormalizeOrders(context.Background(), rows, domain.SourceSynthetic, testLogger())
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, 9.9, quotes[0].Bid)
	assert.True(t, math.IsNaN(quotes[0].Ask))
	assert.True(t, math.IsNaN(quotes[1].Bid))
	assert.Equal(t, 10.1, quotes[1].Ask)
}

func TestNormalizeOrders_SchemaError(t *testing.T) {
	rows := []Row{
		{Time: at(0), Values: map[string]float64{"price": 10.0}},
	}

	_, err := NormalizeOrders(context.Background(), rows, domain.SourceReal, testLogger())
	require.Error(t, err)
	assert.True(t, apperrors.IsSchema(err))
}

func TestNormalizeOrders_EmptyInput(t *testing.T) {
	quotes, err := NormalizeOrders(context.Background(), nil, domain.SourceReal, testLogger())
	require.NoError(t, err)
	assert.Empty(t, quotes)
}
