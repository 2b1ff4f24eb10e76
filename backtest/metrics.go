package backtest

import (
	"math"
	"time"

	"futbt/market"
	"gonum.org/v1/gonum/stat"
)

// Summary is the aggregate performance of one run, computed once after
// all bars are processed.
type Summary struct {
	TotalTrades   int
	LongTrades    int
	ShortTrades   int
	WinningTrades int
	LosingTrades  int

	WinRate      float64
	LongWinRate  float64
	ShortWinRate float64

	TotalReturn    float64
	TotalReturnPct float64
	MaxDrawdown    float64
	MaxDrawdownPct float64

	ProfitFactor float64
	AvgWin       float64
	AvgLoss      float64
	AvgTrade     float64
	AvgWinPct    float64
	AvgLossPct   float64

	SharpeRatio     float64
	TotalCommission float64

	Start        time.Time
	End          time.Time
	DurationDays int
}

// Summarize reduces a run's trade list and equity curve to its
// statistics. A winning trade has PnL > 0; breakeven counts as a loss.
// A run with no trades reports all-zero statistics.
func Summarize(trades []Trade, equity []EquitySample, initialBalance, periodsPerYear float64, start, end time.Time) Summary {
	var s Summary
	if len(trades) == 0 {
		return s
	}

	var allPnL, winPnL, lossPnL, winPct, lossPct []float64
	var totalPnL, grossProfit, grossLoss float64
	var longWins, shortWins int

	for _, t := range trades {
		allPnL = append(allPnL, t.PnL)
		totalPnL += t.PnL
		s.TotalCommission += t.Commission

		if t.Side == market.Long {
			s.LongTrades++
		} else {
			s.ShortTrades++
		}

		if t.PnL > 0 {
			s.WinningTrades++
			winPnL = append(winPnL, t.PnL)
			winPct = append(winPct, t.PnLPct)
			grossProfit += t.PnL
			if t.Side == market.Long {
				longWins++
			} else {
				shortWins++
			}
		} else {
			s.LosingTrades++
			lossPnL = append(lossPnL, t.PnL)
			lossPct = append(lossPct, t.PnLPct)
			grossLoss += -t.PnL
		}
	}

	s.TotalTrades = len(trades)
	s.WinRate = rate(s.WinningTrades, s.TotalTrades)
	s.LongWinRate = rate(longWins, s.LongTrades)
	s.ShortWinRate = rate(shortWins, s.ShortTrades)

	s.TotalReturn = totalPnL
	s.TotalReturnPct = totalPnL / initialBalance

	s.AvgWin = meanOrZero(winPnL)
	s.AvgLoss = meanOrZero(lossPnL)
	s.AvgTrade = stat.Mean(allPnL, nil)
	s.AvgWinPct = meanOrZero(winPct)
	s.AvgLossPct = meanOrZero(lossPct)

	// Zero gross loss reports factor 0, not infinity. A run that never
	// lost says nothing about the ratio, and 0 keeps comparisons sane.
	if grossLoss > 0 {
		s.ProfitFactor = grossProfit / grossLoss
	}

	if len(equity) > 0 {
		peak := equity[0].Equity
		for _, pt := range equity {
			if pt.Equity > peak {
				peak = pt.Equity
			}
			if dd := (peak - pt.Equity) / peak; dd > s.MaxDrawdownPct {
				s.MaxDrawdownPct = dd
			}
		}
		s.MaxDrawdown = s.MaxDrawdownPct * initialBalance
	}

	if len(equity) > 1 {
		returns := make([]float64, 0, len(equity)-1)
		for i := 1; i < len(equity); i++ {
			prev := equity[i-1].Equity
			returns = append(returns, (equity[i].Equity-prev)/prev)
		}
		mean := stat.Mean(returns, nil)
		std := stat.StdDev(returns, nil)
		if std > 0 {
			s.SharpeRatio = mean / std * math.Sqrt(periodsPerYear)
		}
	}

	s.Start = start
	s.End = end
	s.DurationDays = int(end.Sub(start).Hours() / 24)

	return s
}

func rate(hits, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

func meanOrZero(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}
