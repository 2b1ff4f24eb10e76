package indicators

import (
	"fmt"
	"math"

	"futbt/market"
)

// SMA is a streaming simple moving average over a picked bar field
// (close by default, volume via NewVolumeSMA).
type SMA struct {
	period int
	label  string
	pick   func(market.Bar) float64
	window []float64
}

// NewSMA creates a simple moving average of bar closes.
func NewSMA(period int) *SMA {
	if period <= 0 {
		panic("indicators: SMA period must be > 0")
	}
	return &SMA{
		period: period,
		label:  fmt.Sprintf("SMA(%d)", period),
		pick:   func(b market.Bar) float64 { return b.Close },
		window: make([]float64, 0, period),
	}
}

// NewVolumeSMA creates a simple moving average of bar volumes.
func NewVolumeSMA(period int) *SMA {
	m := NewSMA(period)
	m.label = fmt.Sprintf("VOL_SMA(%d)", period)
	m.pick = func(b market.Bar) float64 { return b.Volume }
	return m
}

func (m *SMA) Name() string { return m.label }

func (m *SMA) Warmup() int { return m.period }

func (m *SMA) Reset() { m.window = m.window[:0] }

func (m *SMA) Update(b market.Bar) {
	m.window = append(m.window, m.pick(b))
	if len(m.window) > m.period {
		m.window = m.window[1:]
	}
}

func (m *SMA) Ready() bool { return len(m.window) >= m.period }

func (m *SMA) Value() float64 {
	if !m.Ready() {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range m.window {
		sum += v
	}
	return sum / float64(len(m.window))
}

// EMA is a streaming exponential moving average of bar closes, seeded with
// the SMA of the first period values.
type EMA struct {
	period     int
	multiplier float64
	ema        float64
	count      int
	warmupSum  float64
}

func NewEMA(period int) *EMA {
	if period <= 0 {
		panic("indicators: EMA period must be > 0")
	}
	return &EMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *EMA) Name() string { return fmt.Sprintf("EMA(%d)", e.period) }

func (e *EMA) Warmup() int { return e.period }

func (e *EMA) Reset() {
	e.ema = 0
	e.count = 0
	e.warmupSum = 0
}

func (e *EMA) Update(b market.Bar) {
	if e.count < e.period {
		e.warmupSum += b.Close
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum / float64(e.period)
		}
		return
	}
	e.ema = (b.Close-e.ema)*e.multiplier + e.ema
}

func (e *EMA) Ready() bool { return e.count >= e.period }

func (e *EMA) Value() float64 {
	if !e.Ready() {
		return math.NaN()
	}
	return e.ema
}
