// Package strategy holds the entry-signal strategies evaluated by the
// backtest engine. A strategy inspects a window of annotated bars and
// proposes at most one entry per bar.
package strategy

import (
	"fmt"
	"strings"

	"futbt/market"
)

// MinWindow is the shortest bar window a strategy will evaluate.
// Shorter windows yield no signal rather than an error.
const MinWindow = 50

// Signal is a proposed entry produced by a strategy for the latest bar
// of a window. It is never mutated after creation.
type Signal struct {
	Side       market.Side
	Strength   float64
	Entry      float64
	TakeProfit float64
	StopLoss   float64
	Reasons    []string
}

// Strategy evaluates entry conditions over a bar window. The window is
// the series up to and including the current bar; implementations must
// never look past its end.
type Strategy interface {
	Name() string
	Description() string
	Evaluate(window []market.Bar) *Signal
}

// Names lists the built-in strategies in ByName order.
func Names() []string {
	return []string{"conservative", "balanced"}
}

// ByName returns a built-in strategy with its default parameters.
func ByName(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "conservative":
		return NewConservative(DefaultConservativeParams()), nil
	case "balanced":
		return NewBalanced(DefaultBalancedParams()), nil
	default:
		return nil, fmt.Errorf("strategy: unknown strategy %q", name)
	}
}

// resolve picks between the long and short candidates when both fire.
// Ties go to the short side.
func resolve(long, short *Signal) *Signal {
	if long != nil && short != nil {
		if long.Strength > short.Strength {
			return long
		}
		return short
	}
	if long != nil {
		return long
	}
	return short
}

// goldenCross reports %K crossing above %D on the latest bar.
func goldenCross(last, prev market.Bar) bool {
	return last.StochK > last.StochD && prev.StochK <= prev.StochD
}

// deadCross reports %K crossing below %D on the latest bar.
func deadCross(last, prev market.Bar) bool {
	return last.StochK < last.StochD && prev.StochK >= prev.StochD
}
