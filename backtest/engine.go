package backtest

import (
	"fmt"
	"time"

	"futbt/market"
	"futbt/risk"
	"futbt/strategy"
)

// Engine holds run configuration only. Per-run state lives in a Book
// created inside Run, so one Engine may serve concurrent runs.
type Engine struct {
	InitialBalance float64
	Leverage       float64
	RiskPerTrade   float64 // fraction of balance risked per entry
	CommissionRate float64 // per leg, on notional
	MaxExposure    float64 // fraction of balance usable as margin
	Interval       market.Interval
	WarmupBars     int // bars skipped before the first evaluation
	CooldownBars   int // bars to wait after an entry, 0 disables
	LongOnly       bool
	Listener       Listener
}

// NewEngine returns an engine with the standard futures defaults:
// 10k balance, 5x leverage, 2% risk per trade, 0.04% taker commission,
// 30% exposure cap, 15m bars.
func NewEngine() *Engine {
	return &Engine{
		InitialBalance: 10000,
		Leverage:       5,
		RiskPerTrade:   0.02,
		CommissionRate: 0.0004,
		MaxExposure:    0.3,
		Interval:       market.M15,
		WarmupBars:     50,
	}
}

func (e *Engine) validate() error {
	if e.InitialBalance <= 0 {
		return fmt.Errorf("backtest: InitialBalance must be > 0")
	}
	if e.Leverage <= 0 {
		return fmt.Errorf("backtest: Leverage must be > 0")
	}
	if e.RiskPerTrade <= 0 || e.RiskPerTrade > 1 {
		return fmt.Errorf("backtest: RiskPerTrade must be in (0, 1]")
	}
	if e.CommissionRate < 0 {
		return fmt.Errorf("backtest: CommissionRate must be >= 0")
	}
	if e.MaxExposure <= 0 {
		return fmt.Errorf("backtest: MaxExposure must be > 0")
	}
	if e.WarmupBars < 0 {
		return fmt.Errorf("backtest: WarmupBars must be >= 0")
	}
	if e.CooldownBars < 0 {
		return fmt.Errorf("backtest: CooldownBars must be >= 0")
	}
	if _, err := e.Interval.PeriodsPerYear(); err != nil {
		return fmt.Errorf("backtest: %w", err)
	}
	return nil
}

// Run replays bars through strat for one symbol. Bars must be ordered,
// annotated, and stripped of unwarmed rows; a series shorter than the
// warmup yields an all-flat result with zero statistics, not an error.
func (e *Engine) Run(strat strategy.Strategy, bars []market.Bar, symbol string) (*Result, error) {
	if strat == nil {
		return nil, fmt.Errorf("backtest: Strategy is required")
	}
	if symbol == "" {
		return nil, fmt.Errorf("backtest: symbol is required")
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	if err := market.ValidateSeries(bars); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	periodsPerYear, _ := e.Interval.PeriodsPerYear()

	book := NewBook(symbol, e.InitialBalance)
	lastEntry := -e.CooldownBars

	for i := e.WarmupBars; i < len(bars); i++ {
		bar := bars[i]
		window := bars[:i+1]

		// 1) settle the open position first: a bar may close one
		// position and open another, in that order
		if book.InPosition() {
			if price, reason, hit := checkExit(book.Position(), bar); hit {
				e.close(book, bar, price, reason)
			}
		}

		// 2) entries only while flat and out of cooldown
		if !book.InPosition() && i-lastEntry >= e.CooldownBars {
			if sig := strat.Evaluate(window); sig != nil {
				if !(e.LongOnly && sig.Side == market.Short) {
					if e.open(book, bar, sig) {
						lastEntry = i
					}
				}
			}
		}

		// 3) one equity point per bar
		book.Sample(bar.Time, e.unrealized(book, bar.Close))
	}

	// force-close whatever is still open at the final close
	if book.InPosition() {
		last := bars[len(bars)-1]
		e.close(book, last, last.Close, ExitEnd)
	}

	trades, equity := book.Trades(), book.Equity()

	var start, end time.Time
	if len(bars) > 0 {
		start, end = bars[0].Time, bars[len(bars)-1].Time
	}
	summary := Summarize(trades, equity, e.InitialBalance, periodsPerYear, start, end)

	return &Result{
		Strategy:       strat.Name(),
		Description:    strat.Description(),
		Symbol:         symbol,
		Interval:       e.Interval,
		InitialBalance: e.InitialBalance,
		Trades:         trades,
		Equity:         equity,
		Summary:        summary,
	}, nil
}

// open sizes and installs a position from a signal. Degenerate sizing
// (zero price risk or zero quantity) skips the entry silently; that is
// a missed trade, not an error.
func (e *Engine) open(book *Book, bar market.Bar, sig *strategy.Signal) bool {
	sz := risk.Calculate(risk.Inputs{
		Balance:        book.Balance(),
		EntryPrice:     sig.Entry,
		StopPrice:      sig.StopLoss,
		RiskPct:        e.RiskPerTrade,
		Leverage:       e.Leverage,
		MaxExposurePct: e.MaxExposure,
	})
	if sz.Quantity <= 0 {
		return false
	}

	p := Position{
		Symbol:          book.Symbol(),
		Side:            sig.Side,
		EntryTime:       bar.Time,
		EntryPrice:      sig.Entry,
		Quantity:        sz.Quantity,
		TakeProfit:      sig.TakeProfit,
		StopLoss:        sig.StopLoss,
		EntryCommission: sz.Quantity * sig.Entry * e.CommissionRate,
		Reasons:         sig.Reasons,
	}
	book.Open(p)
	e.emitOpen(p)
	return true
}

// close realizes the open position at price. Leverage multiplies the
// percentage return, not the notional used for commission.
func (e *Engine) close(book *Book, bar market.Bar, price float64, reason ExitReason) {
	p := book.Position()

	pnlPct := rawReturn(p.Side, p.EntryPrice, price) * e.Leverage
	exitCommission := p.Quantity * price * e.CommissionRate
	notional := p.Quantity * p.EntryPrice
	pnl := notional*pnlPct - p.EntryCommission - exitCommission

	t := book.Close(bar.Time, price, pnl, pnlPct, exitCommission, reason)
	e.emitClose(t)
}

// unrealized is the open position's leveraged mark-to-market PnL at
// close, without commission.
func (e *Engine) unrealized(book *Book, close float64) float64 {
	p := book.Position()
	if p == nil {
		return 0
	}
	return p.Quantity * p.EntryPrice * rawReturn(p.Side, p.EntryPrice, close) * e.Leverage
}

// rawReturn is the unleveraged fractional return of a fill, signed by
// side.
func rawReturn(side market.Side, entry, exit float64) float64 {
	return float64(side) * (exit - entry) / entry
}

// checkExit models TP/SL hits inside a bar using its high and low.
// IMPORTANT: when both are touched in the same bar we need a rule; the
// intrabar path is unknown from OHLC alone. The fill is reported at the
// TP price (optimistic). Keep this ordering, results depend on it.
func checkExit(p *Position, b market.Bar) (price float64, reason ExitReason, hit bool) {
	switch p.Side {
	case market.Long:
		if b.High >= p.TakeProfit {
			return p.TakeProfit, ExitTakeProfit, true
		}
		if b.Low <= p.StopLoss {
			return p.StopLoss, ExitStopLoss, true
		}
	case market.Short:
		if b.Low <= p.TakeProfit {
			return p.TakeProfit, ExitTakeProfit, true
		}
		if b.High >= p.StopLoss {
			return p.StopLoss, ExitStopLoss, true
		}
	}
	return 0, "", false
}
