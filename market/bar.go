// Package market holds the shared data vocabulary: bars, sides, intervals.
package market

import (
	"math"
	"time"
)

// Side: +1 long, -1 short
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	switch s {
	case Long:
		return "long"
	case Short:
		return "short"
	}
	return "unknown"
}

// ParseSide converts a journal/CLI string back into a Side.
func ParseSide(s string) Side {
	if s == "short" {
		return Short
	}
	return Long
}

// Bar is one closed OHLCV sample annotated with the indicator values
// strategies read. Indicator fields are NaN until their lookback window has
// filled; see indicators.Annotate. Bars are immutable once produced and are
// ordered by strictly increasing Time.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	RSI      float64
	StochK   float64
	StochD   float64
	BBUpper  float64
	BBMiddle float64
	BBLower  float64
	ATR      float64
	VolumeMA float64
	EMAFast  float64
	EMASlow  float64
}

// NewBar returns a bar with every indicator field set to NaN.
func NewBar(t time.Time, o, h, l, c, v float64) Bar {
	nan := math.NaN()
	return Bar{
		Time: t, Open: o, High: h, Low: l, Close: c, Volume: v,
		RSI: nan, StochK: nan, StochD: nan,
		BBUpper: nan, BBMiddle: nan, BBLower: nan,
		ATR: nan, VolumeMA: nan, EMAFast: nan, EMASlow: nan,
	}
}

// IndicatorsReady reports whether every indicator field carries a real value.
func (b Bar) IndicatorsReady() bool {
	for _, v := range []float64{
		b.RSI, b.StochK, b.StochD,
		b.BBUpper, b.BBMiddle, b.BBLower,
		b.ATR, b.VolumeMA, b.EMAFast, b.EMASlow,
	} {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}
