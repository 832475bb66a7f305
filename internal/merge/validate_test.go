package merge

import (
	"context"
	"math"
	"strings"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spreadcli/pkg/contracts/domain"
)

func TestQuoteValidator_LenientCountsAndKeeps(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	v := NewQuoteValidator(logger, false)

	quotes := []domain.QuoteTick{
		quote(0, 10.2, 10.0, domain.SourceReal),
		quote(5, 9.9, 10.1, domain.SourceReal),
	}

	kept := v.Validate(context.Background(), quotes, domain.SourceReal)
	assert.Len(t, kept, 2)
	assert.Equal(t, 1, v.Crossed())
	assert.Equal(t, 0, v.Filtered())
	assert.Contains(t, buf.String(), "crossed quote")
}

func TestQuoteValidator_StrictRemoves(t *testing.T) {
	v := NewQuoteValidator(testLogger(), true)

	quotes := []domain.QuoteTick{
		quote(0, 10.2, 10.0, domain.SourceReal),
		quote(5, 9.9, 10.1, domain.SourceReal),
		quote(10, 10.3, 10.25, domain.SourceReal),
	}

	kept := v.Validate(context.Background(), quotes, domain.SourceReal)
	require.Len(t, kept, 1)
	assert.Equal(t, at(5), kept[0].Time)
	assert.Equal(t, 2, v.Crossed())
	assert.Equal(t, 2, v.Filtered())
}

func TestQuoteValidator_OneSidedNeverCrossed(t *testing.T) {
	v := NewQuoteValidator(testLogger(), true)

	quotes := []domain.QuoteTick{
		{Time: at(0), Bid: 9.9, Ask: math.NaN(), Source: domain.SourceReal},
		{Time: at(5), Bid: math.NaN(), Ask: 10.1, Source: domain.SourceReal},
	}

	kept := v.Validate(context.Background(), quotes, domain.SourceReal)
	assert.Len(t, kept, 2)
	assert.Equal(t, 0, v.Crossed())
}

func TestQuoteValidator_AccumulatesAcrossSources(t *testing.T) {
	v := NewQuoteValidator(testLogger(), false)

	v.Validate(context.Background(), []domain.QuoteTick{quote(0, 10.2, 10.0, domain.SourceReal)}, domain.SourceReal)
	v.Validate(context.Background(), []domain.QuoteTick{quote(0, 10.2, 10.0, domain.SourceSynthetic)}, domain.SourceSynthetic)

	assert.Equal(t, 2, v.Crossed())
}

func TestQuoteValidator_EmptyStream(t *testing.T) {
	v := NewQuoteValidator(testLogger(), true)
	assert.Empty(t, v.Validate(context.Background(), nil, domain.SourceReal))
	assert.Equal(t, 0, v.Crossed())
}
