package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"futbt/config"
	"futbt/dataset"
	"futbt/journal"
	"futbt/market"
	"futbt/strategy"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run every strategy over the same klines and compare them",
	Long: `Compare runs all built-in strategies over the same data with the same
engine settings and prints their statistics side by side.

Example:
  futbt compare --symbols BTCUSDT,ETHUSDT --interval 15m --detailed`,
	RunE: runCompare,
}

var cmpDetailed bool

func init() {
	rootCmd.AddCommand(compareCmd)

	addRunFlags(compareCmd)
	compareCmd.Flags().BoolVar(&cmpDetailed, "detailed", false, "print the full breakdown for each strategy before the table")
}

func runCompare(cmd *cobra.Command, args []string) error {
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
		if err := compareSymbol(cfg, j, symbol); err != nil {
			return fmt.Errorf("%s: %w", symbol, err)
		}
	}
	return nil
}

func compareSymbol(cfg *config.Config, j journal.Journal, symbol string) error {
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

	var strats []strategy.Strategy
	for _, name := range strategy.Names() {
		s, err := cfg.NewStrategy(name, symbol)
		if err != nil {
			return err
		}
		strats = append(strats, s)
	}

	eng := cfg.NewEngine()
	eng.LongOnly = cfg.LongOnly(symbol)

	fmt.Printf("Comparing %d strategies on %s\n", len(strats), symbol)
	fmt.Printf("  Data: %s (%d bars, %s)\n\n", path, len(bars), cfg.Engine.Interval)

	results, err := eng.Compare(strats, bars, symbol)
	if err != nil {
		return err
	}

	if cmpDetailed {
		for _, res := range results {
			printDetailed(os.Stdout, res)
		}
	}

	printComparison(os.Stdout, results)

	for _, res := range results {
		if err := recordRun(j, path, res); err != nil {
			return err
		}
	}
	return nil
}
