package backtest

import "time"

// Book tracks the state of a single run: realized balance, the open
// position, the closed trade list, and the equity curve. Only Open,
// Close, and Sample mutate it.
type Book struct {
	symbol  string
	balance float64
	pos     *Position
	trades  []Trade
	equity  []EquitySample
}

func NewBook(symbol string, initialBalance float64) *Book {
	return &Book{symbol: symbol, balance: initialBalance}
}

func (b *Book) Symbol() string         { return b.symbol }
func (b *Book) Balance() float64       { return b.balance }
func (b *Book) Position() *Position    { return b.pos }
func (b *Book) InPosition() bool       { return b.pos != nil }
func (b *Book) Trades() []Trade        { return b.trades }
func (b *Book) Equity() []EquitySample { return b.equity }

// Open installs the position. The engine only opens while flat.
func (b *Book) Open(p Position) {
	b.pos = &p
}

// Close converts the open position into a Trade, credits the realized
// PnL to the balance, and returns to flat. PnL settles at close; the
// entry commission was carried on the position, not deducted earlier.
func (b *Book) Close(exitTime time.Time, exitPrice, pnl, pnlPct, exitCommission float64, reason ExitReason) Trade {
	p := b.pos
	b.pos = nil

	t := Trade{
		Symbol:     p.Symbol,
		Side:       p.Side,
		EntryTime:  p.EntryTime,
		ExitTime:   exitTime,
		EntryPrice: p.EntryPrice,
		ExitPrice:  exitPrice,
		Quantity:   p.Quantity,
		TakeProfit: p.TakeProfit,
		StopLoss:   p.StopLoss,
		PnL:        pnl,
		PnLPct:     pnlPct,
		ExitReason: reason,
		Commission: p.EntryCommission + exitCommission,
		Reasons:    p.Reasons,
	}
	b.trades = append(b.trades, t)
	b.balance += pnl
	return t
}

// Sample appends one equity point at ts.
func (b *Book) Sample(ts time.Time, unrealized float64) {
	b.equity = append(b.equity, EquitySample{
		Time:    ts,
		Balance: b.balance,
		Equity:  b.balance + unrealized,
	})
}
