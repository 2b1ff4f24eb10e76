package backtest

import (
	"fmt"
	"sync"

	"futbt/market"
	"futbt/strategy"
)

// Compare runs every strategy over the same series and returns the
// results in input order. Runs share no state, so they execute
// concurrently; results are deterministic regardless of scheduling.
func (e *Engine) Compare(strats []strategy.Strategy, bars []market.Bar, symbol string) ([]*Result, error) {
	if len(strats) == 0 {
		return nil, fmt.Errorf("backtest: at least one strategy is required")
	}

	results := make([]*Result, len(strats))
	errs := make([]error, len(strats))

	var wg sync.WaitGroup
	for i, s := range strats {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = e.Run(s, bars, symbol)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("backtest: compare strategy %d: %w", i, err)
		}
	}
	return results, nil
}
