package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"futbt/backtest"
	"futbt/config"
	"futbt/dataset"
	"futbt/indicators"
	"futbt/journal"
	"futbt/market"
	"futbt/pkg/id"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a strategy over historical klines",
	Long: `Backtest replays historical futures klines through a strategy and
reports how it would have traded.

Supported strategies:
  - conservative: stochastic RSI reversals with trend and volume confirmation
  - balanced: multi-signal scoring with a confirmation threshold

Data is resolved per symbol from the dataset directory as
SYMBOL-interval.csv or SYMBOL-interval.zip; --data points at a single
file instead.

Example:
  futbt backtest --symbols BTCUSDT --interval 15m --strategy balanced`,
	RunE: runBacktest,
}

var (
	btDataPath   string
	btSymbols    string
	btInterval   string
	btBalance    float64
	btLeverage   float64
	btRisk       float64
	btCommission float64
	btCooldown   int
	btStrategy   string
	btDBPath     string
	btOrgDir     string
	btVerbose    bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	addRunFlags(backtestCmd)
	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "balanced", "strategy name (conservative, balanced)")
	backtestCmd.Flags().BoolVarP(&btVerbose, "verbose", "v", false, "print every open and close as it happens")
}

// addRunFlags registers the flags shared by backtest and compare; both
// drive the same run pipeline, so they bind the same variables.
func addRunFlags(c *cobra.Command) {
	c.Flags().StringVarP(&btDataPath, "data", "d", "", "kline CSV or zip archive; overrides the dataset dir lookup (single symbol)")
	c.Flags().StringVar(&btSymbols, "symbols", "BTCUSDT,ETHUSDT,SOLUSDT", "comma-separated symbols to backtest")
	c.Flags().StringVarP(&btInterval, "interval", "i", "15m", "kline interval (1m, 3m, 5m, 15m, 30m, 1h, 2h, 4h, 6h, 12h, 1d)")
	c.Flags().Float64VarP(&btBalance, "balance", "b", 10_000, "starting account balance")
	c.Flags().Float64Var(&btLeverage, "leverage", 5, "position leverage")
	c.Flags().Float64Var(&btRisk, "risk", 0.02, "fraction of balance risked per trade (0.02 = 2%)")
	c.Flags().Float64Var(&btCommission, "commission", 0.0004, "per-leg commission rate on notional")
	c.Flags().IntVar(&btCooldown, "cooldown", 0, "bars to wait after an entry before the next one")
	c.Flags().StringVar(&btDBPath, "db", "", "journal runs to this SQLite DB, overriding the config")
	c.Flags().StringVar(&btOrgDir, "org", "", "write an org-mode report per run into this directory")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := runConfig(cmd)
	if err != nil {
		return err
	}
	if btDataPath != "" && len(cfg.Symbols) != 1 {
		return fmt.Errorf("--data serves a single symbol, got %d", len(cfg.Symbols))
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if j != nil {
		defer j.Close()
	}

	for _, symbol := range cfg.Symbols {
		if err := backtestSymbol(cfg, j, symbol); err != nil {
			return fmt.Errorf("%s: %w", symbol, err)
		}
	}
	return nil
}

func backtestSymbol(cfg *config.Config, j journal.Journal, symbol string) error {
	path := btDataPath
	if path == "" {
		var err error
		path, err = dataset.Find(cfg.Dataset.Dir, symbol, market.Interval(cfg.Engine.Interval))
		if err != nil {
			return err
		}
	}

	bars, err := loadAnnotated(path)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	eng := cfg.NewEngine()
	eng.LongOnly = cfg.LongOnly(symbol)
	if btVerbose {
		eng.Listener = newPrintListener(os.Stdout)
	}

	strat, err := cfg.NewStrategy(btStrategy, symbol)
	if err != nil {
		return err
	}

	fmt.Printf("Backtesting %s on %s\n", strat.Name(), symbol)
	fmt.Printf("  Data: %s (%d bars, %s)\n", path, len(bars), cfg.Engine.Interval)
	fmt.Printf("  Balance: $%.2f  Leverage: %.0fx  Risk: %.1f%%\n\n",
		cfg.Engine.InitialBalance, cfg.Engine.Leverage, cfg.Engine.RiskPerTrade*100)

	res, err := eng.Run(strat, bars, symbol)
	if err != nil {
		return err
	}

	printDetailed(os.Stdout, res)

	return recordRun(j, path, res)
}

// recordRun persists a finished run to the journal and, when --org is
// set, renders its report. A nil journal skips persistence.
func recordRun(j journal.Journal, path string, res *backtest.Result) error {
	runID := id.New()
	created := time.Now().UTC()

	if j != nil {
		if err := journal.Record(j, runID, created, path, res); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		fmt.Printf("Journaled run %s\n\n", runID)
	}

	if btOrgDir != "" {
		if err := os.MkdirAll(btOrgDir, 0755); err != nil {
			return fmt.Errorf("org dir: %w", err)
		}
		rec := journal.NewRunRecord(runID, created, path, res)
		out := filepath.Join(btOrgDir, fmt.Sprintf("%s-%s-%s.org", res.Symbol, res.Strategy, runID))
		if err := rec.WriteOrg(out); err != nil {
			return fmt.Errorf("org report: %w", err)
		}
		fmt.Printf("Wrote report %s\n\n", out)
	}

	return nil
}

// runConfig resolves the effective config for a run command: file or
// defaults, environment, then explicitly set flags on top, re-validated
// after the overlay.
func runConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("symbols") {
		cfg.Symbols = splitSymbols(btSymbols)
	}
	if cmd.Flags().Changed("interval") {
		cfg.Engine.Interval = btInterval
	}
	if cmd.Flags().Changed("balance") {
		cfg.Engine.InitialBalance = btBalance
	}
	if cmd.Flags().Changed("leverage") {
		cfg.Engine.Leverage = btLeverage
	}
	if cmd.Flags().Changed("risk") {
		cfg.Engine.RiskPerTrade = btRisk
	}
	if cmd.Flags().Changed("commission") {
		cfg.Engine.CommissionRate = btCommission
	}
	if cmd.Flags().Changed("cooldown") {
		cfg.Engine.CooldownBars = btCooldown
	}
	if cmd.Flags().Changed("db") {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = btDBPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func splitSymbols(s string) []string {
	var out []string
	for _, sym := range strings.Split(s, ",") {
		if sym = strings.TrimSpace(sym); sym != "" {
			out = append(out, strings.ToUpper(sym))
		}
	}
	return out
}

// loadAnnotated loads a kline file, annotates it with the default
// indicator set, and drops the warmup rows that are not fully ready.
func loadAnnotated(path string) ([]market.Bar, error) {
	bars, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	annotated, err := indicators.Annotate(bars, indicators.DefaultParams())
	if err != nil {
		return nil, err
	}
	ready := market.DropUnready(annotated)
	if len(ready) == 0 {
		return nil, fmt.Errorf("no bars left after indicator warmup (%d loaded)", len(bars))
	}
	return ready, nil
}
