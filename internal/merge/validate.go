package merge

import (
	"context"
	"log/slog"
	"math"

	"spreadcli/pkg/contracts/domain"
)

// QuoteValidator inspects quote streams for crossed markets (ask below bid).
// Crossed quotes are financially implausible but occur in real data; by default
// they are counted and logged, then passed through. Strict mode removes them,
// which matches the upstream system's pre-merge filtering.
type QuoteValidator struct {
	logger *slog.Logger
	strict bool

	crossed  int
	filtered int
}

// NewQuoteValidator creates a quote validator. strict controls whether crossed
// quotes are removed or merely flagged.
func NewQuoteValidator(logger *slog.Logger, strict bool) *QuoteValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteValidator{logger: logger, strict: strict}
}

// Validate checks one source's quote stream and returns the stream to merge.
// Quotes with only one side populated are never considered crossed.
func (v *QuoteValidator) Validate(ctx context.Context, quotes []domain.QuoteTick, source domain.SourceTag) []domain.QuoteTick {
	if len(quotes) == 0 {
		return quotes
	}

	kept := quotes
	if v.strict {
		kept = make([]domain.QuoteTick, 0, len(quotes))
	}

	crossedHere := 0
	for _, q := range quotes {
		isCrossed := !math.IsNaN(q.Bid) && !math.IsNaN(q.Ask) && q.Crossed()
		if isCrossed {
			crossedHere++
			if crossedHere <= 3 {
				v.logger.WarnContext(ctx, "crossed quote",
					slog.Time("timestamp", q.Time),
					slog.Float64("bid", q.Bid),
					slog.Float64("ask", q.Ask),
					slog.String("source", string(source)),
				)
			}
		}
		if v.strict {
			if isCrossed {
				continue
			}
			kept = append(kept, q)
		}
	}

	v.crossed += crossedHere
	if v.strict {
		v.filtered += crossedHere
	}

	if crossedHere > 0 {
		v.logger.WarnContext(ctx, "quote validation finished",
			slog.String("source", string(source)),
			slog.Int("crossed", crossedHere),
			slog.Int("total", len(quotes)),
			slog.Bool("filtered", v.strict),
		)
	}
	return kept
}

// Crossed returns the total number of crossed quotes observed
func (v *QuoteValidator) Crossed() int { return v.crossed }

// Filtered returns the number of quotes removed in strict mode
func (v *QuoteValidator) Filtered() int { return v.filtered }
