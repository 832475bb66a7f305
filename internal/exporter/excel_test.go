package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"spreadcli/pkg/contracts/domain"
)

func TestExcelWriter_WriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spread_unified.xlsx")
	stats := domain.SourceStats{
		RealTrades:      1,
		SyntheticOrders: 1,
		MergedTrades:    1,
		MergedOrders:    1,
	}

	err := NewExcelWriter(testLogger()).WriteWorkbook(path, sampleRows(), stats)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Unified", "Stats"}, f.GetSheetList())

	header, err := f.GetCellValue("Unified", "A1")
	require.NoError(t, err)
	assert.Equal(t, "timestamp", header)

	price, err := f.GetCellValue("Unified", "B2")
	require.NoError(t, err)
	assert.Equal(t, "10", price)

	// NaN trade columns on the quote row stay blank.
	quotePrice, err := f.GetCellValue("Unified", "B3")
	require.NoError(t, err)
	assert.Equal(t, "", quotePrice)

	bid, err := f.GetCellValue("Unified", "F3")
	require.NoError(t, err)
	assert.Equal(t, "9.9", bid)

	statName, err := f.GetCellValue("Stats", "A1")
	require.NoError(t, err)
	assert.Equal(t, "real_trades", statName)

	statValue, err := f.GetCellValue("Stats", "B1")
	require.NoError(t, err)
	assert.Equal(t, "1", statValue)
}
