package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"futbt/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded backtest runs",
	Long: `Query and display recorded runs from the SQLite journal.

Subcommands:
  list    - List recorded runs, most recent first
  show    - Render one run's org-mode report
  trades  - Render one run's trades as org-mode blocks

Examples:
  futbt journal list
  futbt journal show 01HWXYZ0000000000000000000
  futbt journal trades 01HWXYZ0000000000000000000`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Render one run's org-mode report",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades <run-id>",
	Short: "Render one run's trades as org-mode blocks",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrades,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalTradesCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./futbt.db", "path to SQLite journal DB")
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns()
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-26s %-16s %-14s %-10s %-8s %6s %7s %9s %8s\n",
		"Run ID", "Created", "Strategy", "Symbol", "Interval", "Trades", "Win%", "Return%", "MaxDD%")
	for _, r := range runs {
		fmt.Printf("%-26s %-16s %-14s %-10s %-8s %6d %7.1f %+9.2f %8.2f\n",
			r.RunID, r.Created.Format("2006-01-02 15:04"), r.Strategy, r.Symbol, r.Interval,
			r.Trades, r.WinRate*100, r.ReturnPct*100, r.MaxDrawdownPct*100)
	}
	return nil
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetRun(args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	report, err := rec.OrgReport()
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	fmt.Println(report)
	return nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListTradesByRun(args[0])
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	if len(recs) == 0 {
		fmt.Println("No trades recorded for this run.")
		return nil
	}

	fmt.Println(journal.FormatTradesOrg(recs))
	return nil
}
