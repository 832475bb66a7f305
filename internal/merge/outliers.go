package merge

import (
	"context"
	"log/slog"
	"math"
	"time"

	"spreadcli/pkg/contracts/domain"
)

// OutlierConfig configures rolling z-score price outlier detection on a merged
// trade stream
type OutlierConfig struct {
	// ZThreshold is the base z-score above which a price return is an outlier
	ZThreshold float64
	// WindowSize is the rolling window length for return volatility estimation
	WindowSize int
	// MinObservations is the minimum number of returns in the window before
	// z-scores are trusted
	MinObservations int
	// MaxPctChange is a hard limit on absolute percentage price change between
	// consecutive trades, applied regardless of volatility
	MaxPctChange float64
	// MinTimeGap scales the z-threshold up for trades far apart in time: a gap
	// of k*MinTimeGap multiplies the threshold by min(k, MaxGapFactor)
	MinTimeGap time.Duration
	// MaxGapFactor caps the time-gap threshold multiplier
	MaxGapFactor float64
}

// DefaultOutlierConfig returns the conservative settings used for merged
// spread trade streams
func DefaultOutlierConfig() OutlierConfig {
	return OutlierConfig{
		ZThreshold:      5.0,
		WindowSize:      50,
		MinObservations: 5,
		MaxPctChange:    8.0,
		MinTimeGap:      time.Hour,
		MaxGapFactor:    3.0,
	}
}

// IsValid checks the configuration bounds
func (c OutlierConfig) IsValid() bool {
	return c.ZThreshold > 0 && c.WindowSize > 1 && c.MinObservations > 1 &&
		c.MaxPctChange > 0 && c.MinTimeGap > 0 && c.MaxGapFactor >= 1
}

// FilterOutliers removes extreme price outliers from a time-sorted trade
// stream. A trade is an outlier when its percentage return from the previous
// trade either exceeds the hard MaxPctChange limit, or deviates from the
// rolling mean return by more than the (time-gap adjusted) z-threshold.
// Returns the filtered stream and the number of trades removed.
func FilterOutliers(ctx context.Context, trades []domain.TradeTick, cfg OutlierConfig, logger *slog.Logger) ([]domain.TradeTick, int) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.IsValid() || len(trades) < 2 {
		return trades, 0
	}

	returns := make([]float64, len(trades))
	returns[0] = math.NaN()
	for i := 1; i < len(trades); i++ {
		prev := trades[i-1].Price
		if prev == 0 {
			returns[i] = math.NaN()
			continue
		}
		returns[i] = (trades[i].Price - prev) / prev * 100
	}

	kept := make([]domain.TradeTick, 0, len(trades))
	removed := 0
	for i, t := range trades {
		if math.IsNaN(returns[i]) {
			kept = append(kept, t)
			continue
		}

		if math.Abs(returns[i]) > cfg.MaxPctChange {
			removed++
			logger.WarnContext(ctx, "price outlier removed (hard limit)",
				slog.Time("timestamp", t.Time),
				slog.Float64("price", t.Price),
				slog.Float64("pct_change", returns[i]),
			)
			continue
		}

		mean, std, n := rollingStats(returns, i, cfg.WindowSize)
		if n < cfg.MinObservations || std == 0 || math.IsNaN(std) {
			kept = append(kept, t)
			continue
		}

		threshold := cfg.ZThreshold * gapFactor(trades, i, cfg)
		z := math.Abs((returns[i] - mean) / std)
		if z > threshold {
			removed++
			logger.WarnContext(ctx, "price outlier removed (z-score)",
				slog.Time("timestamp", t.Time),
				slog.Float64("price", t.Price),
				slog.Float64("z_score", z),
				slog.Float64("threshold", threshold),
			)
			continue
		}
		kept = append(kept, t)
	}

	if removed > 0 {
		logger.InfoContext(ctx, "price outlier filtering finished",
			slog.Int("input", len(trades)),
			slog.Int("removed", removed),
		)
	}
	return kept, removed
}

// rollingStats computes mean and sample standard deviation of the returns in
// the window ending at index i (inclusive), skipping NaN entries
func rollingStats(returns []float64, i, window int) (mean, std float64, n int) {
	start := i - window + 1
	if start < 0 {
		start = 0
	}

	sum := 0.0
	for j := start; j <= i; j++ {
		if math.IsNaN(returns[j]) {
			continue
		}
		sum += returns[j]
		n++
	}
	if n < 2 {
		return 0, math.NaN(), n
	}
	mean = sum / float64(n)

	ss := 0.0
	for j := start; j <= i; j++ {
		if math.IsNaN(returns[j]) {
			continue
		}
		d := returns[j] - mean
		ss += d * d
	}
	std = math.Sqrt(ss / float64(n-1))
	return mean, std, n
}

// gapFactor widens the z-threshold for trades separated by large time gaps,
// where bigger price moves are legitimate
func gapFactor(trades []domain.TradeTick, i int, cfg OutlierConfig) float64 {
	if i == 0 {
		return 1
	}
	gap := trades[i].Time.Sub(trades[i-1].Time)
	factor := float64(gap) / float64(cfg.MinTimeGap)
	if factor < 1 {
		return 1
	}
	if factor > cfg.MaxGapFactor {
		return cfg.MaxGapFactor
	}
	return factor
}
