package backtest

import (
	"math"
	"reflect"
	"testing"
	"time"

	"futbt/market"
	"futbt/strategy"
)

var base = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func barAt(i int, o, h, l, c float64) market.Bar {
	return market.NewBar(base.Add(time.Duration(i)*15*time.Minute), o, h, l, c, 1000)
}

func flatSeries(n int) []market.Bar {
	bars := make([]market.Bar, n)
	for i := range bars {
		bars[i] = barAt(i, 100, 101, 99, 100)
	}
	return bars
}

// scriptStrategy fires a canned signal when the window ends on one of
// its keyed bar times.
type scriptStrategy struct {
	name    string
	signals map[time.Time]*strategy.Signal
}

func (s *scriptStrategy) Name() string        { return s.name }
func (s *scriptStrategy) Description() string { return "scripted" }

func (s *scriptStrategy) Evaluate(window []market.Bar) *strategy.Signal {
	if len(window) == 0 {
		return nil
	}
	return s.signals[window[len(window)-1].Time]
}

func script(signals map[int]*strategy.Signal) *scriptStrategy {
	byTime := make(map[time.Time]*strategy.Signal, len(signals))
	for i, sig := range signals {
		byTime[base.Add(time.Duration(i)*15*time.Minute)] = sig
	}
	return &scriptStrategy{name: "script", signals: byTime}
}

func longSignal(entry, tp, sl float64) *strategy.Signal {
	return &strategy.Signal{Side: market.Long, Strength: 1, Entry: entry, TakeProfit: tp, StopLoss: sl, Reasons: []string{"scripted"}}
}

func shortSignal(entry, tp, sl float64) *strategy.Signal {
	return &strategy.Signal{Side: market.Short, Strength: 1, Entry: entry, TakeProfit: tp, StopLoss: sl, Reasons: []string{"scripted"}}
}

func testEngine() *Engine {
	e := NewEngine()
	e.WarmupBars = 1 // tiny synthetic series
	return e
}

func mustRun(t *testing.T, e *Engine, strat strategy.Strategy, bars []market.Bar) *Result {
	t.Helper()
	res, err := e.Run(strat, bars, "BTCUSDT")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestEngineLongTakeProfit(t *testing.T) {
	bars := []market.Bar{
		barAt(0, 100, 101, 99, 100),
		barAt(1, 100, 101, 99, 100),
		barAt(2, 100, 103, 99.5, 101),
	}
	strat := script(map[int]*strategy.Signal{1: longSignal(100, 102, 95)})

	res := mustRun(t, testEngine(), strat, bars)

	if len(res.Trades) != 1 {
		t.Fatalf("trades: got %d want 1", len(res.Trades))
	}
	tr := res.Trades[0]

	// risk 200 over price risk 5 sizes 40 units, under the 150 cap
	if !approxEqual(tr.Quantity, 40, 1e-9) {
		t.Fatalf("quantity: got %.9f want 40", tr.Quantity)
	}
	if tr.ExitReason != ExitTakeProfit {
		t.Fatalf("exit reason: got %q want %q", tr.ExitReason, ExitTakeProfit)
	}
	if !tr.EntryTime.Equal(bars[1].Time) || !tr.ExitTime.Equal(bars[2].Time) {
		t.Fatalf("trade times: entry %s exit %s", tr.EntryTime, tr.ExitTime)
	}
	if !approxEqual(tr.ExitPrice, 102, 1e-9) {
		t.Fatalf("exit price: got %.6f want 102", tr.ExitPrice)
	}

	// raw 2% backs a 10% leveraged return on 4000 notional,
	// less 1.6 entry and 1.632 exit commission
	if !approxEqual(tr.PnLPct, 0.10, 1e-9) {
		t.Fatalf("pnl pct: got %.9f want 0.10", tr.PnLPct)
	}
	wantPnL := 4000*0.10 - 1.6 - 40*102*0.0004
	if !approxEqual(tr.PnL, wantPnL, 1e-9) {
		t.Fatalf("pnl: got %.9f want %.9f", tr.PnL, wantPnL)
	}
	if !approxEqual(tr.Commission, 1.6+40*102*0.0004, 1e-9) {
		t.Fatalf("commission: got %.9f", tr.Commission)
	}

	if res.Summary.TotalTrades != 1 || res.Summary.WinningTrades != 1 {
		t.Fatalf("summary counts: %+v", res.Summary)
	}
	if !approxEqual(res.Summary.TotalReturn, wantPnL, 1e-9) {
		t.Fatalf("total return: got %.9f want %.9f", res.Summary.TotalReturn, wantPnL)
	}
}

func TestEngineShortStopLoss(t *testing.T) {
	bars := []market.Bar{
		barAt(0, 100, 101, 99, 100),
		barAt(1, 100, 101, 99, 100),
		barAt(2, 100, 104, 99, 103),
	}
	strat := script(map[int]*strategy.Signal{1: shortSignal(100, 97, 103)})

	res := mustRun(t, testEngine(), strat, bars)

	if len(res.Trades) != 1 {
		t.Fatalf("trades: got %d want 1", len(res.Trades))
	}
	tr := res.Trades[0]

	if tr.ExitReason != ExitStopLoss {
		t.Fatalf("exit reason: got %q want %q", tr.ExitReason, ExitStopLoss)
	}
	if !approxEqual(tr.ExitPrice, 103, 1e-9) {
		t.Fatalf("exit price: got %.6f want 103", tr.ExitPrice)
	}

	qty := 200.0 / 3.0
	if !approxEqual(tr.Quantity, qty, 1e-9) {
		t.Fatalf("quantity: got %.9f want %.9f", tr.Quantity, qty)
	}
	if !approxEqual(tr.PnLPct, -0.15, 1e-9) {
		t.Fatalf("pnl pct: got %.9f want -0.15", tr.PnLPct)
	}
	wantPnL := qty*100*-0.15 - qty*100*0.0004 - qty*103*0.0004
	if !approxEqual(tr.PnL, wantPnL, 1e-9) {
		t.Fatalf("pnl: got %.9f want %.9f", tr.PnL, wantPnL)
	}

	if res.Summary.LosingTrades != 1 || res.Summary.ShortTrades != 1 {
		t.Fatalf("summary counts: %+v", res.Summary)
	}
}

func TestEngineTakeProfitWinsWhenBothTouched(t *testing.T) {
	bars := []market.Bar{
		barAt(0, 100, 101, 99, 100),
		barAt(1, 100, 101, 99, 100),
		barAt(2, 100, 103, 94, 100), // high tags the TP, low tags the SL
	}
	strat := script(map[int]*strategy.Signal{1: longSignal(100, 102, 95)})

	res := mustRun(t, testEngine(), strat, bars)

	if len(res.Trades) != 1 {
		t.Fatalf("trades: got %d want 1", len(res.Trades))
	}
	if res.Trades[0].ExitReason != ExitTakeProfit {
		t.Fatalf("exit reason: got %q want tp", res.Trades[0].ExitReason)
	}
	if !approxEqual(res.Trades[0].ExitPrice, 102, 1e-9) {
		t.Fatalf("exit price: got %.6f want 102", res.Trades[0].ExitPrice)
	}
}

func TestEngineForcedEndClose(t *testing.T) {
	bars := []market.Bar{
		barAt(0, 100, 101, 99, 100),
		barAt(1, 100, 101, 99, 100),
		barAt(2, 100, 101, 99, 100),
		barAt(3, 99, 100, 98.5, 99),
	}
	// brackets out of reach so the series end is the only exit
	strat := script(map[int]*strategy.Signal{1: longSignal(100, 200, 1)})

	res := mustRun(t, testEngine(), strat, bars)

	if len(res.Trades) != 1 {
		t.Fatalf("trades: got %d want 1", len(res.Trades))
	}
	tr := res.Trades[0]
	if tr.ExitReason != ExitEnd {
		t.Fatalf("exit reason: got %q want %q", tr.ExitReason, ExitEnd)
	}
	if !approxEqual(tr.ExitPrice, 99, 1e-9) {
		t.Fatalf("exit price: got %.6f want 99", tr.ExitPrice)
	}
	if !tr.ExitTime.Equal(bars[3].Time) {
		t.Fatalf("exit time: got %s want %s", tr.ExitTime, bars[3].Time)
	}

	// one equity point per processed bar, none for the forced close
	if len(res.Equity) != 3 {
		t.Fatalf("equity samples: got %d want 3", len(res.Equity))
	}
	lastEq := res.Equity[len(res.Equity)-1]
	if !approxEqual(lastEq.Balance, 10000, 1e-9) {
		t.Fatalf("last sample balance: got %.6f want 10000 (close settles after sampling)", lastEq.Balance)
	}
	qty := 200.0 / 99.0
	wantUnrealized := qty * 100 * ((99.0 - 100.0) / 100.0) * 5
	if !approxEqual(lastEq.Equity, 10000+wantUnrealized, 1e-9) {
		t.Fatalf("last sample equity: got %.9f want %.9f", lastEq.Equity, 10000+wantUnrealized)
	}
}

func TestEngineSameBarCloseThenOpen(t *testing.T) {
	bars := []market.Bar{
		barAt(0, 100, 101, 99, 100),
		barAt(1, 100, 101, 99, 100),
		barAt(2, 100, 103, 99, 100), // TP fill and a fresh signal
		barAt(3, 100, 101, 99, 100),
	}
	strat := script(map[int]*strategy.Signal{
		1: longSignal(100, 102, 95),
		2: longSignal(100, 150, 50),
	})

	res := mustRun(t, testEngine(), strat, bars)

	if len(res.Trades) != 2 {
		t.Fatalf("trades: got %d want 2", len(res.Trades))
	}
	if !res.Trades[0].ExitTime.Equal(bars[2].Time) {
		t.Fatalf("first exit time: got %s", res.Trades[0].ExitTime)
	}
	if !res.Trades[1].EntryTime.Equal(bars[2].Time) {
		t.Fatalf("second entry time: got %s", res.Trades[1].EntryTime)
	}
	if res.Trades[1].ExitReason != ExitEnd {
		t.Fatalf("second exit reason: got %q want end", res.Trades[1].ExitReason)
	}
}

func TestEngineZeroPriceRiskSkipsEntry(t *testing.T) {
	bars := flatSeries(5)
	strat := script(map[int]*strategy.Signal{
		1: longSignal(100, 102, 100), // stop at entry cannot be sized
		3: longSignal(100, 200, 1),
	})

	res := mustRun(t, testEngine(), strat, bars)

	if len(res.Trades) != 1 {
		t.Fatalf("trades: got %d want 1", len(res.Trades))
	}
	if !res.Trades[0].EntryTime.Equal(bars[3].Time) {
		t.Fatalf("entry time: got %s want %s", res.Trades[0].EntryTime, bars[3].Time)
	}
}

func TestEngineLongOnlySkipsShorts(t *testing.T) {
	bars := flatSeries(5)
	strat := script(map[int]*strategy.Signal{
		1: shortSignal(100, 97, 103),
		2: longSignal(100, 200, 1),
	})

	e := testEngine()
	e.LongOnly = true
	res := mustRun(t, e, strat, bars)

	if len(res.Trades) != 1 {
		t.Fatalf("trades: got %d want 1", len(res.Trades))
	}
	if res.Trades[0].Side != market.Long {
		t.Fatalf("side: got %s want long", res.Trades[0].Side)
	}
}

func TestEngineCooldownSuppressesEntries(t *testing.T) {
	bars := flatSeries(7)
	strat := script(map[int]*strategy.Signal{
		1: longSignal(100, 101, 95), // TP fills on the next bar
		3: longSignal(100, 200, 1),  // still cooling down
		4: longSignal(100, 200, 1),
	})

	e := testEngine()
	e.CooldownBars = 3
	res := mustRun(t, e, strat, bars)

	if len(res.Trades) != 2 {
		t.Fatalf("trades: got %d want 2", len(res.Trades))
	}
	if !res.Trades[1].EntryTime.Equal(bars[4].Time) {
		t.Fatalf("second entry time: got %s want %s", res.Trades[1].EntryTime, bars[4].Time)
	}
}

func TestEngineShortSeriesIsFlatRun(t *testing.T) {
	e := NewEngine() // default 50-bar warmup
	res := mustRun(t, e, script(nil), flatSeries(10))

	if len(res.Trades) != 0 || len(res.Equity) != 0 {
		t.Fatalf("expected empty run, got %d trades %d samples", len(res.Trades), len(res.Equity))
	}
	if res.Summary != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", res.Summary)
	}

	res = mustRun(t, e, script(nil), nil)
	if res.Summary != (Summary{}) {
		t.Fatalf("expected zero summary on empty series, got %+v", res.Summary)
	}
}

func TestEngineValidation(t *testing.T) {
	bars := flatSeries(3)

	if _, err := testEngine().Run(nil, bars, "BTCUSDT"); err == nil {
		t.Fatal("expected error for nil strategy")
	}
	if _, err := testEngine().Run(script(nil), bars, ""); err == nil {
		t.Fatal("expected error for empty symbol")
	}

	e := testEngine()
	e.InitialBalance = 0
	if _, err := e.Run(script(nil), bars, "BTCUSDT"); err == nil {
		t.Fatal("expected error for zero balance")
	}

	e = testEngine()
	e.Interval = market.Interval("15x")
	if _, err := e.Run(script(nil), bars, "BTCUSDT"); err == nil {
		t.Fatal("expected error for bad interval")
	}

	unsorted := []market.Bar{barAt(1, 100, 101, 99, 100), barAt(0, 100, 101, 99, 100)}
	if _, err := testEngine().Run(script(nil), unsorted, "BTCUSDT"); err == nil {
		t.Fatal("expected error for unsorted series")
	}
}

func TestEngineNoLookahead(t *testing.T) {
	bars := flatSeries(6)
	var lastSeen []time.Time
	strat := &probeStrategy{onWindow: func(window []market.Bar) {
		lastSeen = append(lastSeen, window[len(window)-1].Time)
	}}

	mustRun(t, testEngine(), strat, bars)

	// the window handed to the strategy must end exactly at the bar
	// being processed, bar by bar
	if len(lastSeen) != 5 {
		t.Fatalf("evaluations: got %d want 5", len(lastSeen))
	}
	for i, ts := range lastSeen {
		if !ts.Equal(bars[i+1].Time) {
			t.Fatalf("evaluation %d saw window ending %s want %s", i, ts, bars[i+1].Time)
		}
	}
}

type probeStrategy struct {
	onWindow func([]market.Bar)
}

func (p *probeStrategy) Name() string        { return "probe" }
func (p *probeStrategy) Description() string { return "records windows" }

func (p *probeStrategy) Evaluate(window []market.Bar) *strategy.Signal {
	p.onWindow(window)
	return nil
}

func TestEngineDeterministicReruns(t *testing.T) {
	bars := []market.Bar{
		barAt(0, 100, 101, 99, 100),
		barAt(1, 100, 101, 99, 100),
		barAt(2, 100, 103, 99, 100),
		barAt(3, 100, 101, 94, 100),
		barAt(4, 100, 101, 99, 100),
	}
	strat := script(map[int]*strategy.Signal{
		1: longSignal(100, 102, 95),
		2: shortSignal(100, 97, 103),
	})

	e := testEngine()
	first := mustRun(t, e, strat, bars)
	second := mustRun(t, e, strat, bars)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs must produce identical results")
	}
}

type countingListener struct {
	opens  int
	closes []Trade
}

func (l *countingListener) OnOpen(Position) { l.opens++ }
func (l *countingListener) OnClose(t Trade) { l.closes = append(l.closes, t) }

func TestEngineListener(t *testing.T) {
	bars := []market.Bar{
		barAt(0, 100, 101, 99, 100),
		barAt(1, 100, 101, 99, 100),
		barAt(2, 100, 103, 99, 100),
	}
	strat := script(map[int]*strategy.Signal{1: longSignal(100, 102, 95)})

	l := &countingListener{}
	e := testEngine()
	e.Listener = l
	res := mustRun(t, e, strat, bars)

	if l.opens != 1 || len(l.closes) != 1 {
		t.Fatalf("listener: %d opens %d closes", l.opens, len(l.closes))
	}
	if l.closes[0].ExitReason != ExitTakeProfit {
		t.Fatalf("listener close reason: got %q", l.closes[0].ExitReason)
	}
	if !reflect.DeepEqual(l.closes[0], res.Trades[0]) {
		t.Fatal("listener should see the recorded trade")
	}
}
