package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"futbt/backtest"
)

// printDetailed writes the full breakdown of one run: trade counts,
// profit, risk metrics, per-trade averages, and the most recent trades.
func printDetailed(w io.Writer, res *backtest.Result) {
	s := res.Summary

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "BACKTEST RESULTS: %s on %s\n", res.Strategy, res.Symbol)
	if res.Description != "" {
		fmt.Fprintln(w, res.Description)
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))

	if s.TotalTrades == 0 {
		fmt.Fprintln(w, "\nNo trades taken.")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w, "\nTrade Statistics:")
	fmt.Fprintf(w, "  Total Trades: %d (%d long / %d short)\n", s.TotalTrades, s.LongTrades, s.ShortTrades)
	fmt.Fprintf(w, "  Wins: %d  Losses: %d\n", s.WinningTrades, s.LosingTrades)
	fmt.Fprintf(w, "  Win Rate: %.1f%% (long %.1f%%, short %.1f%%)\n",
		s.WinRate*100, s.LongWinRate*100, s.ShortWinRate*100)

	fmt.Fprintln(w, "\nProfit Analysis:")
	fmt.Fprintf(w, "  Net PnL: $%.2f (%+.2f%%)\n", s.TotalReturn, s.TotalReturnPct*100)
	fmt.Fprintf(w, "  Final Balance: $%.2f\n", res.InitialBalance+s.TotalReturn)
	fmt.Fprintf(w, "  Profit Factor: %.2f\n", s.ProfitFactor)
	fmt.Fprintf(w, "  Commission Paid: $%.2f\n", s.TotalCommission)

	fmt.Fprintln(w, "\nPerformance Metrics:")
	fmt.Fprintf(w, "  Max Drawdown: %.2f%% ($%.2f)\n", s.MaxDrawdownPct*100, s.MaxDrawdown)
	fmt.Fprintf(w, "  Sharpe Ratio: %.2f\n", s.SharpeRatio)
	fmt.Fprintf(w, "  Period: %s to %s (%d days)\n",
		s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"), s.DurationDays)

	fmt.Fprintln(w, "\nPer-Trade Averages:")
	fmt.Fprintf(w, "  Avg Trade: $%.2f\n", s.AvgTrade)
	fmt.Fprintf(w, "  Avg Win: $%.2f (%+.2f%%)\n", s.AvgWin, s.AvgWinPct*100)
	fmt.Fprintf(w, "  Avg Loss: $%.2f (%+.2f%%)\n", s.AvgLoss, s.AvgLossPct*100)

	recent := res.Trades
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	fmt.Fprintf(w, "\nRecent Trades (last %d):\n", len(recent))
	for _, t := range recent {
		fmt.Fprintf(w, "  %-5s %12.5f -> %-12.5f %+7.2f%%  $%+10.2f  %s\n",
			strings.ToUpper(t.Side.String()), t.EntryPrice, t.ExitPrice,
			t.PnLPct*100, t.PnL, strings.ToUpper(string(t.ExitReason)))
	}
	fmt.Fprintln(w)
}

// printComparison writes one row of statistics per strategy, aligned
// for eyeballing across runs of the same data.
func printComparison(w io.Writer, results []*backtest.Result) {
	fmt.Fprintln(w, strings.Repeat("=", 110))
	fmt.Fprintln(w, "STRATEGY COMPARISON")
	fmt.Fprintln(w, strings.Repeat("=", 110))
	fmt.Fprintf(w, "%-14s %7s %8s %7s %7s %7s %9s %8s %6s %7s %9s %10s\n",
		"Strategy", "Trades", "L/S", "Win%", "LWin%", "SWin%", "Return%", "MaxDD%", "PF", "Sharpe", "AvgTrade", "Fees")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, res := range results {
		s := res.Summary
		fmt.Fprintf(w, "%-14s %7d %8s %7.1f %7.1f %7.1f %+9.2f %8.2f %6.2f %7.2f %9.2f %10.2f\n",
			res.Strategy,
			s.TotalTrades,
			fmt.Sprintf("%d/%d", s.LongTrades, s.ShortTrades),
			s.WinRate*100,
			s.LongWinRate*100,
			s.ShortWinRate*100,
			s.TotalReturnPct*100,
			s.MaxDrawdownPct*100,
			s.ProfitFactor,
			s.SharpeRatio,
			s.AvgTrade,
			s.TotalCommission)
	}

	fmt.Fprintln(w, strings.Repeat("=", 110))
	fmt.Fprintln(w)
}

// printListener streams opens and closes as the engine emits them. The
// mutex keeps lines whole if a Compare run ever shares it.
type printListener struct {
	mu  sync.Mutex
	out io.Writer
}

func newPrintListener(w io.Writer) *printListener {
	return &printListener{out: w}
}

func (l *printListener) OnOpen(p backtest.Position) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "OPEN  %s %-5s %s qty %.6f @ %.5f tp %.5f sl %.5f  %s\n",
		p.EntryTime.Format("2006-01-02 15:04"), strings.ToUpper(p.Side.String()), p.Symbol,
		p.Quantity, p.EntryPrice, p.TakeProfit, p.StopLoss, strings.Join(p.Reasons, ", "))
}

func (l *printListener) OnClose(t backtest.Trade) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "CLOSE %s %-5s %s @ %.5f  %+.2f%% ($%+.2f)  %s\n",
		t.ExitTime.Format("2006-01-02 15:04"), strings.ToUpper(t.Side.String()), t.Symbol,
		t.ExitPrice, t.PnLPct*100, t.PnL, strings.ToUpper(string(t.ExitReason)))
}
