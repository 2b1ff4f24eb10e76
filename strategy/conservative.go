package strategy

import (
	"fmt"

	"futbt/market"
)

// Conservative requires every entry condition to hold at once: an RSI
// extreme that is already reversing, a stochastic cross, a Bollinger
// band touch with rejection, and expanding volume. It trades rarely
// and always at full strength.
type Conservative struct {
	p ConservativeParams
}

type ConservativeParams struct {
	RSIOversold   float64 `json:"rsi_oversold" yaml:"rsi_oversold"`
	RSIOverbought float64 `json:"rsi_overbought" yaml:"rsi_overbought"`
	BBTouchLong   float64 `json:"bb_touch_long" yaml:"bb_touch_long"`
	BBTouchShort  float64 `json:"bb_touch_short" yaml:"bb_touch_short"`
	VolumeMult    float64 `json:"volume_mult" yaml:"volume_mult"`
	TakeProfitPct float64 `json:"take_profit_pct" yaml:"take_profit_pct"`
	StopATRMult   float64 `json:"stop_atr_mult" yaml:"stop_atr_mult"`
}

func DefaultConservativeParams() ConservativeParams {
	return ConservativeParams{
		RSIOversold:   35,
		RSIOverbought: 65,
		BBTouchLong:   1.01,
		BBTouchShort:  0.99,
		VolumeMult:    1.3,
		TakeProfitPct: 0.01,
		StopATRMult:   2.5,
	}
}

func NewConservative(p ConservativeParams) *Conservative {
	if p.TakeProfitPct <= 0 || p.StopATRMult <= 0 {
		panic("strategy: Conservative requires positive TP and SL parameters")
	}
	return &Conservative{p: p}
}

func (s *Conservative) Name() string { return "conservative" }

func (s *Conservative) Description() string {
	return "all conditions required: RSI reversal, stoch cross, band touch, volume surge"
}

func (s *Conservative) Evaluate(window []market.Bar) *Signal {
	if len(window) < MinWindow {
		return nil
	}
	last := window[len(window)-1]
	prev := window[len(window)-2]
	return resolve(s.long(last, prev), s.short(last, prev))
}

func (s *Conservative) long(last, prev market.Bar) *Signal {
	var reasons []string

	// RSI oversold and already turning up
	rsi := last.RSI < s.p.RSIOversold && last.RSI > prev.RSI
	if rsi {
		reasons = append(reasons, fmt.Sprintf("RSI oversold bounce (%.1f)", last.RSI))
	}

	cross := goldenCross(last, prev)
	if cross {
		reasons = append(reasons, fmt.Sprintf("stoch golden cross (K %.1f)", last.StochK))
	}

	// Lower band touched intrabar with the close holding above it
	touch := last.Low <= last.BBLower*s.p.BBTouchLong
	bounce := last.Close > last.BBLower
	if touch && bounce {
		reasons = append(reasons, "lower band bounce")
	}

	volume := last.Volume > last.VolumeMA*s.p.VolumeMult
	if volume {
		reasons = append(reasons, fmt.Sprintf("volume surge (%.1fx)", last.Volume/last.VolumeMA))
	}

	if !(rsi && cross && touch && bounce && volume) {
		return nil
	}

	entry := last.Close
	return &Signal{
		Side:       market.Long,
		Strength:   1.0,
		Entry:      entry,
		TakeProfit: entry * (1 + s.p.TakeProfitPct),
		StopLoss:   entry - last.ATR*s.p.StopATRMult,
		Reasons:    reasons,
	}
}

func (s *Conservative) short(last, prev market.Bar) *Signal {
	var reasons []string

	// RSI overbought and already turning down
	rsi := last.RSI > s.p.RSIOverbought && last.RSI < prev.RSI
	if rsi {
		reasons = append(reasons, fmt.Sprintf("RSI overbought fade (%.1f)", last.RSI))
	}

	cross := deadCross(last, prev)
	if cross {
		reasons = append(reasons, fmt.Sprintf("stoch dead cross (K %.1f)", last.StochK))
	}

	// Upper band touched intrabar with the close rejected below it
	touch := last.High >= last.BBUpper*s.p.BBTouchShort
	reject := last.Close < last.BBUpper
	if touch && reject {
		reasons = append(reasons, "upper band rejection")
	}

	volume := last.Volume > last.VolumeMA*s.p.VolumeMult
	if volume {
		reasons = append(reasons, fmt.Sprintf("volume surge (%.1fx)", last.Volume/last.VolumeMA))
	}

	if !(rsi && cross && touch && reject && volume) {
		return nil
	}

	entry := last.Close
	return &Signal{
		Side:       market.Short,
		Strength:   1.0,
		Entry:      entry,
		TakeProfit: entry * (1 - s.p.TakeProfitPct),
		StopLoss:   entry + last.ATR*s.p.StopATRMult,
		Reasons:    reasons,
	}
}
