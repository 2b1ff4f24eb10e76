// Package dataset loads kline series from local files: plain CSV in
// either the 12-column exchange dump layout or a simple headered
// timestamp,open,high,low,close,volume layout, and zip archives of
// those CSVs. Loaded series are validated before they reach the
// engine; a malformed or out-of-order file is an error, not a warning.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"futbt/market"
)

// Load reads bars from path, dispatching on the file extension:
// .zip archives are extracted and their CSVs concatenated, anything
// else is read as a single CSV.
func Load(path string) ([]market.Bar, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return LoadZip(path)
	}
	return LoadCSV(path)
}

// Find locates a symbol's kline file in dir, trying SYMBOL-interval.csv
// then the zipped form.
func Find(dir, symbol string, interval market.Interval) (string, error) {
	for _, ext := range []string{"csv", "zip"} {
		p := filepath.Join(dir, fmt.Sprintf("%s-%s.%s", symbol, interval, ext))
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no dataset for %s %s in %s", symbol, interval, dir)
}

// LoadCSV reads one kline CSV. The first row decides the layout: a
// header row ("timestamp" or "time" in the first field) introduces the
// simple 6-column format, a data row is parsed as-is. Exchange dumps
// are headerless with 12 columns and millisecond epoch open times.
func LoadCSV(path string) ([]market.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bars, err := parseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

func parseCSV(f io.Reader) ([]market.Bar, error) {
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	firstRow, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("no bars")
	}
	if err != nil {
		return nil, err
	}

	var bars []market.Bar

	hasHeader := len(firstRow) > 0 && isHeaderField(firstRow[0])
	if !hasHeader {
		b, err := parseRow(firstRow)
		if err != nil {
			return nil, fmt.Errorf("row 1: %w", err)
		}
		bars = append(bars, b)
	}

	for n := 2; ; n++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		b, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		bars = append(bars, b)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars")
	}
	if err := market.ValidateSeries(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

func isHeaderField(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, "timestamp") || strings.EqualFold(s, "time") ||
		strings.EqualFold(s, "open_time")
}

// parseRow accepts both layouts; columns past volume (exchange dumps
// carry close_time, quote volume, and taker splits) are ignored.
func parseRow(row []string) (market.Bar, error) {
	if len(row) < 6 {
		return market.Bar{}, fmt.Errorf("bad row (need at least 6 cols timestamp,open,high,low,close,volume): %v", row)
	}

	t, err := parseTimestamp(row[0])
	if err != nil {
		return market.Bar{}, err
	}

	vals := make([]float64, 5)
	names := [...]string{"open", "high", "low", "close", "volume"}
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return market.Bar{}, fmt.Errorf("bad %s %q: %w", names[i], row[i+1], err)
		}
		vals[i] = v
	}

	return market.NewBar(t, vals[0], vals[1], vals[2], vals[3], vals[4]), nil
}

// parseTimestamp reads a millisecond epoch (exchange dumps) or an
// RFC3339 string (exported simple CSVs).
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, s)
		if err2 != nil {
			return time.Time{}, fmt.Errorf("bad time %q: %w", s, err)
		}
		t = t2
	}
	return t.UTC(), nil
}
