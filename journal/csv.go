package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// CSVJournal appends runs, trades, and equity points to three CSV
// files in a directory. Rows from different runs share the files; the
// run_id column ties them together.
type CSVJournal struct {
	runs   *csv.Writer
	trades *csv.Writer
	equity *csv.Writer

	rf, tf, ef *os.File
}

func NewCSV(dir string) (*CSVJournal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	rf, err := os.Create(filepath.Join(dir, "runs.csv"))
	if err != nil {
		return nil, err
	}
	tf, err := os.Create(filepath.Join(dir, "trades.csv"))
	if err != nil {
		rf.Close()
		return nil, err
	}
	ef, err := os.Create(filepath.Join(dir, "equity.csv"))
	if err != nil {
		rf.Close()
		tf.Close()
		return nil, err
	}

	rw := csv.NewWriter(rf)
	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)

	closeAll := func() {
		rf.Close()
		tf.Close()
		ef.Close()
	}

	if err := rw.Write([]string{"run_id", "created", "strategy", "symbol", "interval", "dataset",
		"start_time", "end_time", "initial_balance", "final_balance",
		"trades", "wins", "losses", "win_rate", "net_pl", "return_pct",
		"max_drawdown_pct", "profit_factor", "sharpe_ratio", "total_commission"}); err != nil {
		closeAll()
		return nil, err
	}
	if err := tw.Write([]string{"run_id", "symbol", "side", "entry_time", "entry_price",
		"exit_time", "exit_price", "quantity", "tp_price", "sl_price",
		"pnl", "pnl_pct", "exit_reason", "commission", "reasons"}); err != nil {
		closeAll()
		return nil, err
	}
	if err := ew.Write([]string{"run_id", "time", "balance", "equity"}); err != nil {
		closeAll()
		return nil, err
	}

	rw.Flush()
	tw.Flush()
	ew.Flush()
	for _, w := range []*csv.Writer{rw, tw, ew} {
		if err := w.Error(); err != nil {
			closeAll()
			return nil, err
		}
	}

	return &CSVJournal{rw, tw, ew, rf, tf, ef}, nil
}

func (j *CSVJournal) RecordRun(r RunRecord) error {
	err := j.runs.Write([]string{
		r.RunID,
		r.Created.Format(time.RFC3339),
		r.Strategy,
		r.Symbol,
		r.Interval,
		r.Dataset,
		r.Start.Format(time.RFC3339),
		r.End.Format(time.RFC3339),
		f(r.InitialBalance),
		f(r.FinalBalance),
		strconv.Itoa(r.Trades),
		strconv.Itoa(r.Wins),
		strconv.Itoa(r.Losses),
		f(r.WinRate),
		f(r.NetPL),
		f(r.ReturnPct),
		f(r.MaxDrawdownPct),
		f(r.ProfitFactor),
		f(r.SharpeRatio),
		f(r.TotalCommission),
	})
	if err != nil {
		return err
	}

	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.RunID,
		t.Symbol,
		t.Side.String(),
		t.EntryTime.Format(time.RFC3339),
		f(t.EntryPrice),
		t.ExitTime.Format(time.RFC3339),
		f(t.ExitPrice),
		f(t.Quantity),
		f(t.TakeProfit),
		f(t.StopLoss),
		f(t.PnL),
		f(t.PnLPct),
		t.ExitReason,
		f(t.Commission),
		t.Reasons,
	})
	if err != nil {
		return err
	}

	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(e EquityRecord) error {
	err := j.equity.Write([]string{
		e.RunID,
		e.Time.Format(time.RFC3339),
		f(e.Balance),
		f(e.Equity),
	})
	if err != nil {
		return err
	}

	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.rf.Close(); err != nil {
		return err
	}
	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
