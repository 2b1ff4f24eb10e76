package strategy

import (
	"fmt"

	"futbt/market"
)

// Balanced gates entries on two required conditions (RSI regime and
// price position relative to the Bollinger midline) plus a minimum
// number of confirmations out of five. Strength grows with the number
// of confirmations.
type Balanced struct {
	p BalancedParams
}

type BalancedParams struct {
	RSILongMax      float64 `json:"rsi_long_max" yaml:"rsi_long_max"`
	RSIShortMin     float64 `json:"rsi_short_min" yaml:"rsi_short_min"`
	StochOversold   float64 `json:"stoch_oversold" yaml:"stoch_oversold"`
	StochOverbought float64 `json:"stoch_overbought" yaml:"stoch_overbought"`
	BBTouchLong     float64 `json:"bb_touch_long" yaml:"bb_touch_long"`
	BBTouchShort    float64 `json:"bb_touch_short" yaml:"bb_touch_short"`
	VolumeMult      float64 `json:"volume_mult" yaml:"volume_mult"`
	MinConfirms     int     `json:"min_confirms" yaml:"min_confirms"`
	TakeProfitPct   float64 `json:"take_profit_pct" yaml:"take_profit_pct"`
	StopATRMult     float64 `json:"stop_atr_mult" yaml:"stop_atr_mult"`
}

func DefaultBalancedParams() BalancedParams {
	return BalancedParams{
		RSILongMax:      40,
		RSIShortMin:     60,
		StochOversold:   35,
		StochOverbought: 65,
		BBTouchLong:     1.02,
		BBTouchShort:    0.98,
		VolumeMult:      1.2,
		MinConfirms:     2,
		TakeProfitPct:   0.01,
		StopATRMult:     1.5,
	}
}

func NewBalanced(p BalancedParams) *Balanced {
	if p.TakeProfitPct <= 0 || p.StopATRMult <= 0 {
		panic("strategy: Balanced requires positive TP and SL parameters")
	}
	if p.MinConfirms < 0 {
		panic("strategy: Balanced requires MinConfirms >= 0")
	}
	return &Balanced{p: p}
}

func (s *Balanced) Name() string { return "balanced" }

func (s *Balanced) Description() string {
	return "RSI regime and midline position required, plus 2 of 5 confirmations"
}

func (s *Balanced) Evaluate(window []market.Bar) *Signal {
	if len(window) < MinWindow {
		return nil
	}
	last := window[len(window)-1]
	prev := window[len(window)-2]
	return resolve(s.long(last, prev), s.short(last, prev))
}

func (s *Balanced) long(last, prev market.Bar) *Signal {
	if !(last.RSI < s.p.RSILongMax && last.Close < last.BBMiddle) {
		return nil
	}
	reasons := []string{
		fmt.Sprintf("RSI<%.0f (%.1f)", s.p.RSILongMax, last.RSI),
		"below midline",
	}

	confirms := 0
	if last.RSI > prev.RSI {
		confirms++
		reasons = append(reasons, "RSI turning up")
	}
	if goldenCross(last, prev) {
		confirms++
		reasons = append(reasons, "stoch golden cross")
	}
	if last.StochK < s.p.StochOversold {
		confirms++
		reasons = append(reasons, fmt.Sprintf("stoch oversold (%.1f)", last.StochK))
	}
	if last.Low <= last.BBLower*s.p.BBTouchLong {
		confirms++
		reasons = append(reasons, "near lower band")
	}
	if last.Volume > last.VolumeMA*s.p.VolumeMult {
		confirms++
		reasons = append(reasons, "volume surge")
	}

	if confirms < s.p.MinConfirms {
		return nil
	}

	entry := last.Close
	return &Signal{
		Side:       market.Long,
		Strength:   strengthFor(confirms),
		Entry:      entry,
		TakeProfit: entry * (1 + s.p.TakeProfitPct),
		StopLoss:   entry - last.ATR*s.p.StopATRMult,
		Reasons:    reasons,
	}
}

func (s *Balanced) short(last, prev market.Bar) *Signal {
	if !(last.RSI > s.p.RSIShortMin && last.Close > last.BBMiddle) {
		return nil
	}
	reasons := []string{
		fmt.Sprintf("RSI>%.0f (%.1f)", s.p.RSIShortMin, last.RSI),
		"above midline",
	}

	confirms := 0
	if last.RSI < prev.RSI {
		confirms++
		reasons = append(reasons, "RSI turning down")
	}
	if deadCross(last, prev) {
		confirms++
		reasons = append(reasons, "stoch dead cross")
	}
	if last.StochK > s.p.StochOverbought {
		confirms++
		reasons = append(reasons, fmt.Sprintf("stoch overbought (%.1f)", last.StochK))
	}
	if last.High >= last.BBUpper*s.p.BBTouchShort {
		confirms++
		reasons = append(reasons, "near upper band")
	}
	if last.Volume > last.VolumeMA*s.p.VolumeMult {
		confirms++
		reasons = append(reasons, "volume surge")
	}

	if confirms < s.p.MinConfirms {
		return nil
	}

	entry := last.Close
	return &Signal{
		Side:       market.Short,
		Strength:   strengthFor(confirms),
		Entry:      entry,
		TakeProfit: entry * (1 - s.p.TakeProfitPct),
		StopLoss:   entry + last.ATR*s.p.StopATRMult,
		Reasons:    reasons,
	}
}

// strengthFor maps a confirmation count onto [0.5, 1.0].
func strengthFor(confirms int) float64 {
	strength := 0.5 + 0.1*float64(confirms)
	if strength > 1.0 {
		strength = 1.0
	}
	return strength
}
