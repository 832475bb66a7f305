// Package loader reads raw spread data exports from CSV files into the rows
// the merge pipeline normalizes. It is deliberately tolerant of the column
// variations the two upstream systems produce; schema decisions belong to the
// normalization step, not here.
package loader

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"spreadcli/internal/errors"
	"spreadcli/internal/merge"
)

// timestampFormats are the layouts the upstream exports have been seen to use
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02",
}

// LoadRows reads a raw CSV export into rows keyed by its header columns. The
// first column must be the timestamp; a "tradeid" column is carried as the row
// ID, every other column is parsed as a float (empty cells are skipped, so a
// missing value is an absent key, not a zero). Unparseable rows are logged and
// skipped; a file without a usable header is an error.
func LoadRows(path string, logger *slog.Logger) ([]merge.Row, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("open %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("read %s", path), err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	if len(header) < 2 {
		return nil, errors.NewParsingError(
			fmt.Sprintf("%s: header needs a timestamp and at least one data column", path), nil)
	}

	rows := make([]merge.Row, 0, len(records)-1)
	for i, record := range records[1:] {
		row, err := parseRow(header, record)
		if err != nil {
			logger.Warn("skipping malformed CSV row",
				slog.String("file", path),
				slog.Int("line", i+2),
				slog.String("error", err.Error()),
			)
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseRow converts one CSV record into a merge.Row
func parseRow(header, record []string) (merge.Row, error) {
	if len(record) == 0 {
		return merge.Row{}, fmt.Errorf("empty record")
	}

	ts, err := parseTimestamp(strings.TrimSpace(record[0]))
	if err != nil {
		return merge.Row{}, err
	}

	row := merge.Row{Time: ts, Values: make(map[string]float64, len(record)-1)}
	for col := 1; col < len(record) && col < len(header); col++ {
		name := strings.ToLower(strings.TrimSpace(header[col]))
		cell := strings.TrimSpace(record[col])
		if cell == "" {
			continue
		}
		if name == "tradeid" {
			row.TradeID = cell
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return merge.Row{}, fmt.Errorf("parse column %q: %w", name, err)
		}
		row.Values[name] = v
	}
	return row, nil
}

// parseTimestamp tries the known upstream timestamp layouts in order
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
