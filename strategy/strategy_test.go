package strategy

import (
	"testing"
	"time"

	"futbt/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatBar is a fully annotated bar that triggers no condition of either
// strategy. Tests overwrite the fields they care about.
func flatBar() market.Bar {
	b := market.NewBar(time.Time{}, 100, 100.5, 99.5, 100, 1000)
	b.RSI = 50
	b.StochK = 50
	b.StochD = 50
	b.BBUpper = 110
	b.BBMiddle = 100
	b.BBLower = 90
	b.ATR = 2
	b.VolumeMA = 1000
	b.EMAFast = 100
	b.EMASlow = 100
	return b
}

// signalWindow builds a MinWindow-sized series ending in prev, last.
func signalWindow(prev, last market.Bar) []market.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, MinWindow)
	for i := range bars {
		bars[i] = flatBar()
		bars[i].Time = base.Add(time.Duration(i) * 15 * time.Minute)
	}
	prev.Time = bars[MinWindow-2].Time
	last.Time = bars[MinWindow-1].Time
	bars[MinWindow-2] = prev
	bars[MinWindow-1] = last
	return bars
}

func TestByName(t *testing.T) {
	s, err := ByName("conservative")
	require.NoError(t, err)
	assert.IsType(t, &Conservative{}, s)

	s, err = ByName("BALANCED")
	require.NoError(t, err)
	assert.IsType(t, &Balanced{}, s)

	_, err = ByName("momentum")
	assert.Error(t, err)

	for _, name := range Names() {
		_, err := ByName(name)
		assert.NoError(t, err)
	}
}

func TestResolve_StrongerSideWins(t *testing.T) {
	long := &Signal{Side: market.Long, Strength: 0.8}
	short := &Signal{Side: market.Short, Strength: 0.7}

	require.Equal(t, long, resolve(long, short))

	short.Strength = 0.9
	require.Equal(t, short, resolve(long, short))
}

func TestResolve_TieGoesShort(t *testing.T) {
	long := &Signal{Side: market.Long, Strength: 1.0}
	short := &Signal{Side: market.Short, Strength: 1.0}

	require.Equal(t, short, resolve(long, short))
	require.Equal(t, long, resolve(long, nil))
	require.Equal(t, short, resolve(nil, short))
	require.Nil(t, resolve(nil, nil))
}

func TestEvaluate_WindowTooShort(t *testing.T) {
	prev, last := conservativeLongSetup()
	window := signalWindow(prev, last)

	for _, name := range Names() {
		s, err := ByName(name)
		require.NoError(t, err)
		assert.Nil(t, s.Evaluate(window[1:]), "%s should not signal on a short window", name)
		assert.Nil(t, s.Evaluate(nil))
	}
}

func TestEvaluate_UnwarmedBarsYieldNoSignal(t *testing.T) {
	// NaN indicator values fail every threshold comparison.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, MinWindow)
	for i := range bars {
		bars[i] = market.NewBar(base.Add(time.Duration(i)*15*time.Minute), 100, 101, 99, 100, 1000)
	}

	for _, name := range Names() {
		s, err := ByName(name)
		require.NoError(t, err)
		assert.Nil(t, s.Evaluate(bars))
	}
}

func TestEvaluate_PureAndRepeatable(t *testing.T) {
	prev, last := conservativeLongSetup()
	window := signalWindow(prev, last)
	before := make([]market.Bar, len(window))
	copy(before, window)

	s, err := ByName("conservative")
	require.NoError(t, err)

	first := s.Evaluate(window)
	second := s.Evaluate(window)
	require.NotNil(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, before, window, "evaluation must not mutate the window")
}
