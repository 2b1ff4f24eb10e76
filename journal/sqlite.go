package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, strategy, symbol, interval, dataset, config,
		 start_time, end_time, initial_balance, final_balance,
		 trades, wins, losses, win_rate, net_pl, return_pct,
		 max_drawdown_pct, profit_factor, sharpe_ratio, total_commission)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Strategy, r.Symbol, r.Interval, r.Dataset, r.Config,
		r.Start, r.End, r.InitialBalance, r.FinalBalance,
		r.Trades, r.Wins, r.Losses, r.WinRate, r.NetPL, r.ReturnPct,
		r.MaxDrawdownPct, r.ProfitFactor, r.SharpeRatio, r.TotalCommission,
	)
	return err
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, symbol, side, entry_time, exit_time, entry_price, exit_price,
		 quantity, tp_price, sl_price, pnl, pnl_pct, exit_reason, commission, reasons)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.Symbol, t.Side.String(), t.EntryTime, t.ExitTime, t.EntryPrice, t.ExitPrice,
		t.Quantity, t.TakeProfit, t.StopLoss, t.PnL, t.PnLPct, t.ExitReason, t.Commission, t.Reasons,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquityRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, time, balance, equity)
		VALUES (?, ?, ?, ?)`,
		e.RunID, e.Time, e.Balance, e.Equity,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
