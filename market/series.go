package market

import "fmt"

// ValidateSeries checks the bar-source contract: strictly increasing
// timestamps and complete, sane OHLC fields. A violation is a precondition
// failure the caller must not ignore; the engine does not recover from a
// malformed series.
func ValidateSeries(bars []Bar) error {
	for i, b := range bars {
		if b.Time.IsZero() {
			return fmt.Errorf("bar %d: zero timestamp", i)
		}
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return fmt.Errorf("bar %d at %s: non-positive ohlc", i, b.Time.Format("2006-01-02 15:04"))
		}
		if b.High < b.Low {
			return fmt.Errorf("bar %d at %s: high %.8f below low %.8f", i, b.Time.Format("2006-01-02 15:04"), b.High, b.Low)
		}
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			return fmt.Errorf("bar %d at %s: timestamp not increasing", i, b.Time.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

// DropUnready removes bars whose indicator fields have not warmed up yet,
// leaving a series every strategy predicate can read without NaN checks.
func DropUnready(bars []Bar) []Bar {
	out := make([]Bar, 0, len(bars))
	for _, b := range bars {
		if b.IndicatorsReady() {
			out = append(out, b)
		}
	}
	return out
}
