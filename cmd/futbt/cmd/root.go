package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"futbt/config"
	"futbt/journal"
)

var rootCmd = &cobra.Command{
	Use:   "futbt",
	Short: "A futures strategy backtester for crypto kline data",
	Long: `Futbt replays historical futures klines through rule-based strategies
and reports how they would have traded.

It provides tools for:
  - Backtesting the conservative and balanced strategies on local kline files
  - Comparing strategies side by side on the same data
  - Journaling runs, trades and equity curves to SQLite or CSV
  - Rendering org-mode run reports for review notes
  - Risk-based position sizing with leverage and commission accounting`,
}

var cfgFile string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON); defaults apply when unset")
}

// loadConfig resolves the effective configuration: the --config file
// when given, built-in defaults otherwise, then FUTBT_* environment
// overrides on top.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openJournal builds the configured journal backend; a "none" config
// returns nil and the caller skips persistence.
func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		return journal.NewCSV(cfg.Journal.CSVDir)
	}
	return nil, nil
}
