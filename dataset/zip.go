package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xyproto/unzip"

	"futbt/market"
)

// LoadZip extracts a kline archive into a scratch directory and loads
// every CSV it contains. Archive members are read in name order, which
// is chronological for exchange dumps (SYMBOL-interval-YYYY-MM.csv),
// and the concatenated series must still be strictly ordered.
func LoadZip(path string) ([]market.Bar, error) {
	dir, err := os.MkdirTemp("", "futbt-dataset-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := unzip.Extract(path, dir); err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}

	var csvs []string
	err = filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(p), ".csv") {
			csvs = append(csvs, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(csvs) == 0 {
		return nil, fmt.Errorf("%s: no csv files in archive", path)
	}
	sort.Strings(csvs)

	var bars []market.Bar
	for _, p := range csvs {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		part, err := parseCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", path, filepath.Base(p), err)
		}
		bars = append(bars, part...)
	}

	if err := market.ValidateSeries(bars); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}
