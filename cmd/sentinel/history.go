package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"SMASentinel/internal/backtest"
	"SMASentinel/internal/notifier"
	"SMASentinel/internal/strategy"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the suggestion for each of the last N bars",
		Long: `Re-run the analysis on every prefix of the series ending at each of the last N bars.
With --backtest the timeline is also replayed as a long-only spot account that
goes all in on BUY and all out on SELL, and a return, drawdown and win-rate
summary is printed after the table.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
	defaults := backtest.DefaultConfig()
	cmd.Flags().Int("last", 24, "Number of most recent bars to evaluate")
	cmd.Flags().Bool("backtest", false, "Replay the timeline as a spot account and print a summary")
	cmd.Flags().Float64("initial-cash", defaults.InitialCash, "Starting cash for --backtest")
	cmd.Flags().Float64("fee-bps", defaults.FeeBps, "Fee per fill in basis points for --backtest")
	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	last, _ := cmd.Flags().GetInt("last")
	if last < 1 {
		return fmt.Errorf("--last must be >= 1, got %d", last)
	}
	runBacktest, _ := cmd.Flags().GetBool("backtest")
	var bt backtest.Config
	bt.InitialCash, _ = cmd.Flags().GetFloat64("initial-cash")
	bt.FeeBps, _ = cmd.Flags().GetFloat64("fee-bps")
	if runBacktest {
		if err := bt.Validate(); err != nil {
			return fmt.Errorf("backtest: %w", err)
		}
	}

	ds, err := newCollector(cfg).Collect()
	if err != nil {
		return err
	}
	hist, err := strategy.History(ds.Window, cfg.Params(), last)
	if err != nil {
		return fmt.Errorf("history %s: %w", ds.Source, err)
	}
	if err := notifier.WriteHistory(cmd.OutOrStdout(), hist); err != nil {
		return err
	}

	if !runBacktest {
		return nil
	}
	res, err := backtest.Run(hist, bt)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return notifier.WriteBacktest(cmd.OutOrStdout(), res)
}
