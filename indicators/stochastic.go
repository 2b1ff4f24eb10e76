package indicators

import (
	"fmt"
	"math"

	"futbt/market"
)

// Stochastic is a streaming slow stochastic oscillator. The raw %K is
// smoothed twice: once into the slow %K line and again into the %D
// signal line.
type Stochastic struct {
	kPeriod int
	smooth  int
	dPeriod int

	highs []float64
	lows  []float64

	kWindow []float64
	dWindow []float64
}

func NewStochastic(kPeriod, smooth, dPeriod int) *Stochastic {
	if kPeriod <= 0 || smooth <= 0 || dPeriod <= 0 {
		panic("indicators: Stochastic periods must be > 0")
	}
	return &Stochastic{kPeriod: kPeriod, smooth: smooth, dPeriod: dPeriod}
}

func (s *Stochastic) Name() string {
	return fmt.Sprintf("STOCH(%d,%d,%d)", s.kPeriod, s.smooth, s.dPeriod)
}

func (s *Stochastic) Warmup() int { return s.kPeriod + s.smooth + s.dPeriod - 2 }

func (s *Stochastic) Reset() {
	s.highs = nil
	s.lows = nil
	s.kWindow = nil
	s.dWindow = nil
}

func (s *Stochastic) Update(b market.Bar) {
	s.highs = append(s.highs, b.High)
	s.lows = append(s.lows, b.Low)
	if len(s.highs) > s.kPeriod {
		s.highs = s.highs[1:]
		s.lows = s.lows[1:]
	}
	if len(s.highs) < s.kPeriod {
		return
	}

	highest := s.highs[0]
	lowest := s.lows[0]
	for i := 1; i < s.kPeriod; i++ {
		if s.highs[i] > highest {
			highest = s.highs[i]
		}
		if s.lows[i] < lowest {
			lowest = s.lows[i]
		}
	}

	raw := 50.0
	if highest != lowest {
		raw = 100 * (b.Close - lowest) / (highest - lowest)
	}

	s.kWindow = append(s.kWindow, raw)
	if len(s.kWindow) > s.smooth {
		s.kWindow = s.kWindow[1:]
	}
	if len(s.kWindow) < s.smooth {
		return
	}

	s.dWindow = append(s.dWindow, mean(s.kWindow))
	if len(s.dWindow) > s.dPeriod {
		s.dWindow = s.dWindow[1:]
	}
}

func (s *Stochastic) Ready() bool { return len(s.dWindow) >= s.dPeriod }

// K returns the slow %K line.
func (s *Stochastic) K() float64 {
	if len(s.dWindow) == 0 {
		return math.NaN()
	}
	return s.dWindow[len(s.dWindow)-1]
}

// D returns the %D signal line.
func (s *Stochastic) D() float64 {
	if !s.Ready() {
		return math.NaN()
	}
	return mean(s.dWindow)
}

func (s *Stochastic) Value() float64 { return s.K() }

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
