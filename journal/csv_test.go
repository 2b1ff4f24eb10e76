package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futbt/market"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	j, err := NewCSV(dir)
	assert.NoError(t, err)
	assert.NoError(t, j.Close())

	runs := readCSV(t, filepath.Join(dir, "runs.csv"))
	trades := readCSV(t, filepath.Join(dir, "trades.csv"))
	equity := readCSV(t, filepath.Join(dir, "equity.csv"))

	wantRuns := []string{"run_id", "created", "strategy", "symbol", "interval", "dataset",
		"start_time", "end_time", "initial_balance", "final_balance",
		"trades", "wins", "losses", "win_rate", "net_pl", "return_pct",
		"max_drawdown_pct", "profit_factor", "sharpe_ratio", "total_commission"}
	assert.Equal(t, wantRuns, runs[0])

	wantTrades := []string{"run_id", "symbol", "side", "entry_time", "entry_price",
		"exit_time", "exit_price", "quantity", "tp_price", "sl_price",
		"pnl", "pnl_pct", "exit_reason", "commission", "reasons"}
	assert.Equal(t, wantTrades, trades[0])

	wantEquity := []string{"run_id", "time", "balance", "equity"}
	assert.Equal(t, wantEquity, equity[0])
}

func TestCSVJournalRecordTrade(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	j, err := NewCSV(dir)
	require.NoError(t, err)

	entry := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	exit := time.Date(2024, 1, 2, 4, 15, 0, 0, time.UTC)

	err = j.RecordTrade(TradeRecord{
		RunID:      "01RUN",
		Symbol:     "SOLUSDT",
		Side:       market.Long,
		EntryTime:  entry,
		ExitTime:   exit,
		EntryPrice: 150.25,
		ExitPrice:  151.7525,
		Quantity:   10,
		TakeProfit: 151.7525,
		StopLoss:   147.0,
		PnL:        73.9,
		PnLPct:     0.05,
		ExitReason: "tp",
		Commission: 1.21,
		Reasons:    "lower band bounce, volume surge (1.4x)",
	})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	rows := readCSV(t, filepath.Join(dir, "trades.csv"))
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "01RUN", row[0])
	assert.Equal(t, "SOLUSDT", row[1])
	assert.Equal(t, "long", row[2])
	assert.Equal(t, entry.Format(time.RFC3339), row[3])
	assert.Equal(t, "150.250000", row[4])
	assert.Equal(t, exit.Format(time.RFC3339), row[5])
	assert.Equal(t, "151.752500", row[6])
	assert.Equal(t, "10.000000", row[7])
	assert.Equal(t, "tp", row[12])
	assert.Equal(t, "lower band bounce, volume surge (1.4x)", row[14])
}

func TestCSVJournalRecordsFullRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	j, err := NewCSV(dir)
	require.NoError(t, err)

	created := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	res := seedRun(t, j, "01CSV", created)
	require.NoError(t, j.Close())

	runs := readCSV(t, filepath.Join(dir, "runs.csv"))
	require.Len(t, runs, 2)
	assert.Equal(t, "01CSV", runs[1][0])
	assert.Equal(t, "conservative", runs[1][2])
	assert.Equal(t, "15m", runs[1][4])

	trades := readCSV(t, filepath.Join(dir, "trades.csv"))
	assert.Len(t, trades, 1+len(res.Trades))

	equity := readCSV(t, filepath.Join(dir, "equity.csv"))
	assert.Len(t, equity, 1+len(res.Equity))
}

func TestCSVJournalCreatesDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "results", "nested")

	j, err := NewCSV(dir)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	_, err = os.Stat(filepath.Join(dir, "runs.csv"))
	assert.NoError(t, err)
}
