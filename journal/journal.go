// Package journal persists backtest runs so results survive the
// process: run summaries, closed trades, and equity curves, with
// SQLite and CSV backends and org-mode rendering for review notes.
package journal

import (
	"strings"
	"time"

	"futbt/backtest"
	"futbt/market"
)

// RunRecord mirrors the runs table: one row per completed backtest.
type RunRecord struct {
	RunID    string
	Created  time.Time
	Strategy string
	Symbol   string
	Interval string
	Dataset  string
	Config   []byte // engine/strategy settings as JSON, opaque to the journal

	Start time.Time
	End   time.Time

	InitialBalance float64
	FinalBalance   float64

	Trades int
	Wins   int
	Losses int

	// Rates carry backtest.Summary's units: fractions of 1, scaled
	// only at render time.
	WinRate         float64
	NetPL           float64
	ReturnPct       float64
	MaxDrawdownPct  float64
	ProfitFactor    float64
	SharpeRatio     float64
	TotalCommission float64
}

// TradeRecord mirrors the trades table: one closed trade of a run.
type TradeRecord struct {
	RunID      string
	Symbol     string
	Side       market.Side
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Quantity   float64
	TakeProfit float64
	StopLoss   float64
	PnL        float64
	PnLPct     float64
	ExitReason string
	Commission float64
	Reasons    string // comma-joined signal reasons
}

// EquityRecord mirrors the equity table: one curve point of a run.
type EquityRecord struct {
	RunID   string
	Time    time.Time
	Balance float64
	Equity  float64
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordTrade(TradeRecord) error
	RecordEquity(EquityRecord) error
	Close() error
}

// NewRunRecord summarizes a finished run for persistence. The run ID is
// assigned by the caller so results themselves stay deterministic.
func NewRunRecord(runID string, created time.Time, dataset string, res *backtest.Result) RunRecord {
	s := res.Summary
	return RunRecord{
		RunID:    runID,
		Created:  created,
		Strategy: res.Strategy,
		Symbol:   res.Symbol,
		Interval: string(res.Interval),
		Dataset:  dataset,

		Start: s.Start,
		End:   s.End,

		InitialBalance: res.InitialBalance,
		FinalBalance:   res.InitialBalance + s.TotalReturn,

		Trades: s.TotalTrades,
		Wins:   s.WinningTrades,
		Losses: s.LosingTrades,

		WinRate:         s.WinRate,
		NetPL:           s.TotalReturn,
		ReturnPct:       s.TotalReturnPct,
		MaxDrawdownPct:  s.MaxDrawdownPct,
		ProfitFactor:    s.ProfitFactor,
		SharpeRatio:     s.SharpeRatio,
		TotalCommission: s.TotalCommission,
	}
}

// TradeRecords converts a run's closed trades, stamping the run ID.
func TradeRecords(runID string, res *backtest.Result) []TradeRecord {
	out := make([]TradeRecord, 0, len(res.Trades))
	for _, t := range res.Trades {
		out = append(out, TradeRecord{
			RunID:      runID,
			Symbol:     t.Symbol,
			Side:       t.Side,
			EntryTime:  t.EntryTime,
			ExitTime:   t.ExitTime,
			EntryPrice: t.EntryPrice,
			ExitPrice:  t.ExitPrice,
			Quantity:   t.Quantity,
			TakeProfit: t.TakeProfit,
			StopLoss:   t.StopLoss,
			PnL:        t.PnL,
			PnLPct:     t.PnLPct,
			ExitReason: string(t.ExitReason),
			Commission: t.Commission,
			Reasons:    strings.Join(t.Reasons, ", "),
		})
	}
	return out
}

// EquityRecords converts a run's equity curve, stamping the run ID.
func EquityRecords(runID string, res *backtest.Result) []EquityRecord {
	out := make([]EquityRecord, 0, len(res.Equity))
	for _, e := range res.Equity {
		out = append(out, EquityRecord{
			RunID:   runID,
			Time:    e.Time,
			Balance: e.Balance,
			Equity:  e.Equity,
		})
	}
	return out
}

// Record persists a complete run: the summary row, every trade, and
// every equity point. It stops at the first failure.
func Record(j Journal, runID string, created time.Time, dataset string, res *backtest.Result) error {
	if err := j.RecordRun(NewRunRecord(runID, created, dataset, res)); err != nil {
		return err
	}
	for _, t := range TradeRecords(runID, res) {
		if err := j.RecordTrade(t); err != nil {
			return err
		}
	}
	for _, e := range EquityRecords(runID, res) {
		if err := j.RecordEquity(e); err != nil {
			return err
		}
	}
	return nil
}
