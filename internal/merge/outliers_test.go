package merge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spreadcli/pkg/contracts/domain"
)

func steadyTrades(n int, price float64, step time.Duration) []domain.TradeTick {
	trades := make([]domain.TradeTick, n)
	base := at(0)
	for i := range trades {
		trades[i] = domain.TradeTick{
			Time:   base.Add(time.Duration(i) * step),
			Price:  price,
			Volume: 1,
			Action: domain.ActionBuy,
			Source: domain.SourceReal,
		}
	}
	return trades
}

func TestFilterOutliers_HardLimit(t *testing.T) {
	trades := steadyTrades(10, 10.0, time.Minute)
	trades[5].Price = 11.0 // 10% jump against an 8% hard limit

	kept, removed := FilterOutliers(context.Background(), trades, DefaultOutlierConfig(), testLogger())

	// Returns are computed on the raw stream, so both the spike and the trade
	// right after it exceed the hard limit.
	assert.Equal(t, 2, removed)
	require.Len(t, kept, 8)
	for _, tr := range kept {
		assert.NotEqual(t, 11.0, tr.Price)
	}
}

func TestFilterOutliers_CleanStreamUntouched(t *testing.T) {
	trades := []domain.TradeTick{
		{Time: at(0), Price: 10.00, Volume: 1, Source: domain.SourceReal},
		{Time: at(1), Price: 10.05, Volume: 1, Source: domain.SourceReal},
		{Time: at(2), Price: 10.02, Volume: 1, Source: domain.SourceReal},
		{Time: at(3), Price: 10.08, Volume: 1, Source: domain.SourceReal},
		{Time: at(4), Price: 10.04, Volume: 1, Source: domain.SourceReal},
	}

	kept, removed := FilterOutliers(context.Background(), trades, DefaultOutlierConfig(), testLogger())

	assert.Equal(t, 0, removed)
	assert.Equal(t, trades, kept)
}

func TestFilterOutliers_TooFewTrades(t *testing.T) {
	trades := steadyTrades(1, 10.0, time.Minute)
	kept, removed := FilterOutliers(context.Background(), trades, DefaultOutlierConfig(), testLogger())
	assert.Equal(t, 0, removed)
	assert.Equal(t, trades, kept)
}

func TestFilterOutliers_InvalidConfigIsNoOp(t *testing.T) {
	trades := steadyTrades(10, 10.0, time.Minute)
	trades[5].Price = 20.0

	kept, removed := FilterOutliers(context.Background(), trades, OutlierConfig{}, testLogger())

	assert.Equal(t, 0, removed)
	assert.Equal(t, trades, kept)
}

func TestFilterOutliers_ZeroPriceDoesNotPanic(t *testing.T) {
	trades := steadyTrades(5, 10.0, time.Minute)
	trades[2].Price = 0

	_, removed := FilterOutliers(context.Background(), trades, DefaultOutlierConfig(), testLogger())
	assert.GreaterOrEqual(t, removed, 0)
}

func TestOutlierConfig_IsValid(t *testing.T) {
	assert.True(t, DefaultOutlierConfig().IsValid())
	assert.False(t, OutlierConfig{}.IsValid())

	cfg := DefaultOutlierConfig()
	cfg.WindowSize = 1
	assert.False(t, cfg.IsValid())

	cfg = DefaultOutlierConfig()
	cfg.MaxGapFactor = 0.5
	assert.False(t, cfg.IsValid())
}

func TestGapFactor(t *testing.T) {
	cfg := DefaultOutlierConfig()
	trades := []domain.TradeTick{
		{Time: at(0)},
		{Time: at(0).Add(30 * time.Minute)},
		{Time: at(0).Add(30*time.Minute + 2*time.Hour)},
		{Time: at(0).Add(30*time.Minute + 2*time.Hour + 10*time.Hour)},
	}

	assert.Equal(t, 1.0, gapFactor(trades, 0, cfg))
	assert.Equal(t, 1.0, gapFactor(trades, 1, cfg)) // below MinTimeGap
	assert.Equal(t, 2.0, gapFactor(trades, 2, cfg)) // two hour gap
	assert.Equal(t, 3.0, gapFactor(trades, 3, cfg)) // capped at MaxGapFactor
}
