package indicators

import (
	"fmt"
	"math"

	"futbt/market"
	"gonum.org/v1/gonum/stat"
)

// Bollinger is a streaming Bollinger Band indicator. The middle band is
// a simple moving average of closes and the outer bands sit mult sample
// standard deviations away.
type Bollinger struct {
	period int
	mult   float64
	window []float64
}

func NewBollinger(period int, mult float64) *Bollinger {
	if period <= 1 {
		panic("indicators: Bollinger period must be > 1")
	}
	if mult <= 0 {
		panic("indicators: Bollinger multiplier must be > 0")
	}
	return &Bollinger{period: period, mult: mult}
}

func (b *Bollinger) Name() string { return fmt.Sprintf("BB(%d,%.1f)", b.period, b.mult) }

func (b *Bollinger) Warmup() int { return b.period }

func (b *Bollinger) Reset() { b.window = nil }

func (b *Bollinger) Update(bar market.Bar) {
	b.window = append(b.window, bar.Close)
	if len(b.window) > b.period {
		b.window = b.window[1:]
	}
}

func (b *Bollinger) Ready() bool { return len(b.window) >= b.period }

func (b *Bollinger) Middle() float64 {
	if !b.Ready() {
		return math.NaN()
	}
	return stat.Mean(b.window, nil)
}

func (b *Bollinger) Upper() float64 {
	if !b.Ready() {
		return math.NaN()
	}
	m := stat.Mean(b.window, nil)
	return m + b.mult*stat.StdDev(b.window, nil)
}

func (b *Bollinger) Lower() float64 {
	if !b.Ready() {
		return math.NaN()
	}
	m := stat.Mean(b.window, nil)
	return m - b.mult*stat.StdDev(b.window, nil)
}

func (b *Bollinger) Value() float64 { return b.Middle() }
