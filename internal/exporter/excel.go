package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"spreadcli/internal/errors"
	"spreadcli/internal/merge"
	"spreadcli/pkg/contracts/domain"
)

// ExcelWriter writes unified spread datasets to Excel workbooks for manual
// inspection, one sheet for the data and one for merge statistics
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel writer
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// WriteWorkbook writes the unified rows and source stats to an xlsx workbook
func (w *ExcelWriter) WriteWorkbook(path string, rows []merge.UnifiedRow, stats domain.SourceStats) error {
	w.logger.Info("writing spread workbook",
		slog.String("path", path),
		slog.Int("rows", len(rows)),
	)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("create output directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const dataSheet = "Unified"
	f.SetSheetName("Sheet1", dataSheet)

	for col, name := range UnifiedHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(dataSheet, cell, name); err != nil {
			return errors.NewStorageError("write workbook header", err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.Time.Format(TimestampFormat),
			excelCell(row.Price),
			excelCell(row.Volume),
			excelCell(row.Action),
			excelCell(row.BrokerID),
			excelCell(row.Bid),
			excelCell(row.Ask),
			excelCell(row.Mid),
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(dataSheet, cell, v); err != nil {
				return errors.NewStorageError(fmt.Sprintf("write workbook row %d", i), err)
			}
		}
	}

	if err := w.writeStatsSheet(f, stats); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("save workbook", err)
	}
	return nil
}

// writeStatsSheet adds a sheet with pre- and post-merge record counts
func (w *ExcelWriter) writeStatsSheet(f *excelize.File, stats domain.SourceStats) error {
	const sheet = "Stats"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("create stats sheet", err)
	}

	entries := []struct {
		name  string
		value int
	}{
		{"real_trades", stats.RealTrades},
		{"real_orders", stats.RealOrders},
		{"synthetic_trades", stats.SyntheticTrades},
		{"synthetic_orders", stats.SyntheticOrders},
		{"merged_trades", stats.MergedTrades},
		{"merged_orders", stats.MergedOrders},
		{"dropped_trades", stats.DroppedTrades},
		{"crossed_quotes", stats.CrossedQuotes},
		{"filtered_quotes", stats.FilteredQuotes},
	}

	for i, e := range entries {
		nameCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(sheet, nameCell, e.name); err != nil {
			return errors.NewStorageError("write stats sheet", err)
		}
		if err := f.SetCellValue(sheet, valueCell, e.value); err != nil {
			return errors.NewStorageError("write stats sheet", err)
		}
	}
	return nil
}

// excelCell converts a float to a cell value, nil (blank) for NaN
func excelCell(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
