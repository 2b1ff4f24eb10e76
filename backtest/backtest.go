// Package backtest replays annotated bar series through a strategy,
// simulating leveraged futures positions with bracket exits, commission,
// and risk-based sizing, and aggregates the closed trades into a
// performance summary.
package backtest

import (
	"time"

	"futbt/market"
)

// ExitReason records why a position was closed.
type ExitReason string

const (
	ExitTakeProfit ExitReason = "tp"
	ExitStopLoss   ExitReason = "sl"
	ExitEnd        ExitReason = "end" // forced close at the end of the series
)

// Position is the single open trade of a run. It is owned by the
// engine and mutated nowhere else.
type Position struct {
	Symbol          string
	Side            market.Side
	EntryTime       time.Time
	EntryPrice      float64
	Quantity        float64
	TakeProfit      float64
	StopLoss        float64
	EntryCommission float64
	Reasons         []string
}

// Trade is a closed position. Immutable once appended to a run's trade
// list.
type Trade struct {
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
	PnLPct     float64 // leveraged percentage return
	ExitReason ExitReason
	Commission float64 // entry and exit legs combined
	Reasons    []string
}

// EquitySample is one point of the equity curve: realized balance plus
// the unrealized PnL of the open position, taken once per processed
// bar.
type EquitySample struct {
	Time    time.Time
	Balance float64
	Equity  float64
}

// Result is the complete outcome of one run. Interval and
// InitialBalance echo the engine settings the run was produced with so
// reports and journals do not need the engine around.
type Result struct {
	Strategy       string
	Description    string
	Symbol         string
	Interval       market.Interval
	InitialBalance float64
	Trades         []Trade
	Equity         []EquitySample
	Summary        Summary
}
