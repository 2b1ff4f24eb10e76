// Package indicators provides streaming technical indicators and the
// annotation pass that stamps their values onto a bar series.
package indicators

import "futbt/market"

// Indicator computes a single streaming value from closed bars.
// It is deterministic and safe to reuse across backtest runs after Reset.
type Indicator interface {
	// Name returns a stable identifier like "EMA(50)" or "RSI(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next *closed* bar and updates internal state.
	Update(b market.Bar)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool
}

type ValueF64 interface {
	// Value returns the current indicator value, NaN until Ready().
	Value() float64
}
