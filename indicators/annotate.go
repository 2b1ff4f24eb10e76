package indicators

import (
	"fmt"

	"futbt/market"
)

// Params selects the periods used to annotate a series.
type Params struct {
	RSIPeriod      int     `json:"rsi_period" yaml:"rsi_period"`
	StochK         int     `json:"stoch_k" yaml:"stoch_k"`
	StochSmooth    int     `json:"stoch_smooth" yaml:"stoch_smooth"`
	StochD         int     `json:"stoch_d" yaml:"stoch_d"`
	BBPeriod       int     `json:"bb_period" yaml:"bb_period"`
	BBStdDev       float64 `json:"bb_stddev" yaml:"bb_stddev"`
	ATRPeriod      int     `json:"atr_period" yaml:"atr_period"`
	VolumeMAPeriod int     `json:"volume_ma_period" yaml:"volume_ma_period"`
	EMAFast        int     `json:"ema_fast" yaml:"ema_fast"`
	EMASlow        int     `json:"ema_slow" yaml:"ema_slow"`
}

func DefaultParams() Params {
	return Params{
		RSIPeriod:      14,
		StochK:         14,
		StochSmooth:    3,
		StochD:         3,
		BBPeriod:       20,
		BBStdDev:       2.0,
		ATRPeriod:      14,
		VolumeMAPeriod: 20,
		EMAFast:        50,
		EMASlow:        200,
	}
}

func (p Params) Validate() error {
	if p.RSIPeriod <= 0 || p.StochK <= 0 || p.StochSmooth <= 0 || p.StochD <= 0 ||
		p.BBPeriod <= 1 || p.ATRPeriod <= 0 || p.VolumeMAPeriod <= 0 ||
		p.EMAFast <= 0 || p.EMASlow <= 0 {
		return fmt.Errorf("indicators: all periods must be positive")
	}
	if p.BBStdDev <= 0 {
		return fmt.Errorf("indicators: bb_stddev must be positive")
	}
	return nil
}

// Annotate returns a copy of bars with the indicator fields filled in.
// Bars inside the warmup of an indicator keep NaN for that field, so a
// market.DropUnready pass afterwards leaves only fully annotated bars.
func Annotate(bars []market.Bar, p Params) ([]market.Bar, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rsi := NewRSI(p.RSIPeriod)
	stoch := NewStochastic(p.StochK, p.StochSmooth, p.StochD)
	bb := NewBollinger(p.BBPeriod, p.BBStdDev)
	atr := NewATR(p.ATRPeriod)
	volMA := NewVolumeSMA(p.VolumeMAPeriod)
	emaFast := NewEMA(p.EMAFast)
	emaSlow := NewEMA(p.EMASlow)

	out := make([]market.Bar, len(bars))
	for i, b := range bars {
		rsi.Update(b)
		stoch.Update(b)
		bb.Update(b)
		atr.Update(b)
		volMA.Update(b)
		emaFast.Update(b)
		emaSlow.Update(b)

		b.RSI = rsi.Value()
		b.StochK = stoch.K()
		b.StochD = stoch.D()
		b.BBUpper = bb.Upper()
		b.BBMiddle = bb.Middle()
		b.BBLower = bb.Lower()
		b.ATR = atr.Value()
		b.VolumeMA = volMA.Value()
		b.EMAFast = emaFast.Value()
		b.EMASlow = emaSlow.Value()
		out[i] = b
	}
	return out, nil
}
