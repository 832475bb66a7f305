package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"spreadcli/internal/errors"
	"spreadcli/internal/merge"
)

// UnifiedHeader is the canonical column order of a persisted spread dataset.
// Trade columns are empty on quote rows; quote columns are forward-filled for
// every row once a quote exists. "mid" carries the quote mid-price, or the
// trade price on trade rows.
var UnifiedHeader = []string{"timestamp", "price", "volume", "action", "broker_id", "b_price", "a_price", "mid"}

// TimestampFormat is the timestamp layout used in persisted datasets
const TimestampFormat = "2006-01-02 15:04:05"

// CSVWriter writes unified spread datasets to CSV files
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteUnified writes a unified row stream to path, creating parent
// directories as needed. NaN cells are written empty.
func (w *CSVWriter) WriteUnified(path string, rows []merge.UnifiedRow) error {
	w.logger.Info("writing unified spread dataset",
		slog.String("path", path),
		slog.Int("rows", len(rows)),
	)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("create output directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("create unified CSV file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(UnifiedHeader); err != nil {
		return errors.NewStorageError("write CSV header", err)
	}

	for i, row := range rows {
		record := []string{
			row.Time.Format(TimestampFormat),
			formatCell(row.Price),
			formatCell(row.Volume),
			formatCell(row.Action),
			formatCell(row.BrokerID),
			formatCell(row.Bid),
			formatCell(row.Ask),
			formatCell(row.Mid),
		}
		if err := writer.Write(record); err != nil {
			return errors.NewStorageError(fmt.Sprintf("write CSV row %d", i), err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatCell renders a float cell, empty for NaN
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
