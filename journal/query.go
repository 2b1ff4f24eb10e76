package journal

import (
	"database/sql"
	"fmt"

	"futbt/market"
)

// GetRun returns a single run record by ID.
func (j *SQLiteJournal) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord

	row := j.db.QueryRow(`
		SELECT run_id, created, strategy, symbol, interval, dataset, config,
		       start_time, end_time, initial_balance, final_balance,
		       trades, wins, losses, win_rate, net_pl, return_pct,
		       max_drawdown_pct, profit_factor, sharpe_ratio, total_commission
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.Created,
		&rec.Strategy,
		&rec.Symbol,
		&rec.Interval,
		&rec.Dataset,
		&rec.Config,
		&rec.Start,
		&rec.End,
		&rec.InitialBalance,
		&rec.FinalBalance,
		&rec.Trades,
		&rec.Wins,
		&rec.Losses,
		&rec.WinRate,
		&rec.NetPL,
		&rec.ReturnPct,
		&rec.MaxDrawdownPct,
		&rec.ProfitFactor,
		&rec.SharpeRatio,
		&rec.TotalCommission,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns every recorded run, most recent first.
func (j *SQLiteJournal) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, strategy, symbol, interval, dataset, config,
		       start_time, end_time, initial_balance, final_balance,
		       trades, wins, losses, win_rate, net_pl, return_pct,
		       max_drawdown_pct, profit_factor, sharpe_ratio, total_commission
		FROM runs
		ORDER BY created DESC, run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Created,
			&rec.Strategy,
			&rec.Symbol,
			&rec.Interval,
			&rec.Dataset,
			&rec.Config,
			&rec.Start,
			&rec.End,
			&rec.InitialBalance,
			&rec.FinalBalance,
			&rec.Trades,
			&rec.Wins,
			&rec.Losses,
			&rec.WinRate,
			&rec.NetPL,
			&rec.ReturnPct,
			&rec.MaxDrawdownPct,
			&rec.ProfitFactor,
			&rec.SharpeRatio,
			&rec.TotalCommission,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTradesByRun returns a run's trades in exit-time order.
func (j *SQLiteJournal) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, symbol, side, entry_time, exit_time, entry_price, exit_price,
		       quantity, tp_price, sl_price, pnl, pnl_pct, exit_reason, commission, reasons
		FROM trades
		WHERE run_id = ?
		ORDER BY exit_time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		var side string
		if err := rows.Scan(
			&rec.RunID,
			&rec.Symbol,
			&side,
			&rec.EntryTime,
			&rec.ExitTime,
			&rec.EntryPrice,
			&rec.ExitPrice,
			&rec.Quantity,
			&rec.TakeProfit,
			&rec.StopLoss,
			&rec.PnL,
			&rec.PnLPct,
			&rec.ExitReason,
			&rec.Commission,
			&rec.Reasons,
		); err != nil {
			return nil, err
		}
		rec.Side = market.ParseSide(side)
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityByRun returns a run's equity curve in time order.
func (j *SQLiteJournal) ListEquityByRun(runID string) ([]EquityRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, balance, equity
		FROM equity
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityRecord
	for rows.Next() {
		var rec EquityRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Time,
			&rec.Balance,
			&rec.Equity,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
