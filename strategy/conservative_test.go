package strategy

import (
	"testing"

	"futbt/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// conservativeLongSetup returns a prev/last pair satisfying all four
// long entry conditions with default parameters.
func conservativeLongSetup() (prev, last market.Bar) {
	prev = flatBar()
	prev.RSI = 30
	prev.StochK = 20
	prev.StochD = 25

	last = flatBar()
	last.Open, last.High, last.Low, last.Close = 100.8, 101.5, 100.5, 101
	last.RSI = 32
	last.StochK = 30
	last.StochD = 25
	last.BBUpper = 110
	last.BBMiddle = 105
	last.BBLower = 100
	last.ATR = 2
	last.Volume = 2000
	last.VolumeMA = 1000
	return prev, last
}

func conservativeShortSetup() (prev, last market.Bar) {
	prev = flatBar()
	prev.RSI = 70
	prev.StochK = 80
	prev.StochD = 75

	last = flatBar()
	last.Open, last.High, last.Low, last.Close = 109, 109.5, 108, 108.5
	last.RSI = 68
	last.StochK = 70
	last.StochD = 75
	last.BBUpper = 110
	last.BBMiddle = 105
	last.BBLower = 90
	last.ATR = 2
	last.Volume = 2000
	last.VolumeMA = 1000
	return prev, last
}

func TestConservative_LongEntry(t *testing.T) {
	s := NewConservative(DefaultConservativeParams())

	prev, last := conservativeLongSetup()
	sig := s.Evaluate(signalWindow(prev, last))
	require.NotNil(t, sig)

	assert.Equal(t, market.Long, sig.Side)
	assert.Equal(t, 1.0, sig.Strength)
	assert.InDelta(t, 101.0, sig.Entry, 1e-9)
	assert.InDelta(t, 101*1.01, sig.TakeProfit, 1e-9)
	assert.InDelta(t, 101-2*2.5, sig.StopLoss, 1e-9)
	assert.Len(t, sig.Reasons, 4)
}

func TestConservative_ShortEntry(t *testing.T) {
	s := NewConservative(DefaultConservativeParams())

	prev, last := conservativeShortSetup()
	sig := s.Evaluate(signalWindow(prev, last))
	require.NotNil(t, sig)

	assert.Equal(t, market.Short, sig.Side)
	assert.Equal(t, 1.0, sig.Strength)
	assert.InDelta(t, 108.5, sig.Entry, 1e-9)
	assert.InDelta(t, 108.5*0.99, sig.TakeProfit, 1e-9)
	assert.InDelta(t, 108.5+2*2.5, sig.StopLoss, 1e-9)
	assert.Len(t, sig.Reasons, 4)
}

func TestConservative_AnyFailingConditionSuppressesLong(t *testing.T) {
	s := NewConservative(DefaultConservativeParams())

	cases := []struct {
		name   string
		mutate func(prev, last *market.Bar)
	}{
		{"rsi not oversold", func(prev, last *market.Bar) {
			last.RSI = 36
		}},
		{"rsi not rising", func(prev, last *market.Bar) {
			last.RSI = 29
		}},
		{"no stoch cross", func(prev, last *market.Bar) {
			prev.StochK = 26
		}},
		{"no band touch", func(prev, last *market.Bar) {
			last.BBLower = 99
		}},
		{"close below band", func(prev, last *market.Bar) {
			last.Low, last.Close = 99.5, 99.8
		}},
		{"volume too thin", func(prev, last *market.Bar) {
			last.Volume = 1200
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prev, last := conservativeLongSetup()
			tc.mutate(&prev, &last)
			assert.Nil(t, s.Evaluate(signalWindow(prev, last)))
		})
	}
}

func TestConservative_AnyFailingConditionSuppressesShort(t *testing.T) {
	s := NewConservative(DefaultConservativeParams())

	cases := []struct {
		name   string
		mutate func(prev, last *market.Bar)
	}{
		{"rsi not overbought", func(prev, last *market.Bar) {
			last.RSI = 64
		}},
		{"rsi not falling", func(prev, last *market.Bar) {
			last.RSI = 71
		}},
		{"no stoch cross", func(prev, last *market.Bar) {
			prev.StochK = 74
		}},
		{"no band touch", func(prev, last *market.Bar) {
			last.BBUpper = 112
		}},
		{"volume too thin", func(prev, last *market.Bar) {
			last.Volume = 1200
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prev, last := conservativeShortSetup()
			tc.mutate(&prev, &last)
			assert.Nil(t, s.Evaluate(signalWindow(prev, last)))
		})
	}
}

func TestConservative_CustomTakeProfit(t *testing.T) {
	p := DefaultConservativeParams()
	p.TakeProfitPct = 0.02

	s := NewConservative(p)
	prev, last := conservativeLongSetup()
	sig := s.Evaluate(signalWindow(prev, last))
	require.NotNil(t, sig)
	assert.InDelta(t, 101*1.02, sig.TakeProfit, 1e-9)
}

func TestConservative_InvalidParamsPanic(t *testing.T) {
	p := DefaultConservativeParams()
	p.TakeProfitPct = 0
	assert.Panics(t, func() { NewConservative(p) })
}
