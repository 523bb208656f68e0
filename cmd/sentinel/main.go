package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"SMASentinel/internal/collector"
	"SMASentinel/internal/config"
	"SMASentinel/internal/logger"
	"SMASentinel/internal/model"
	"SMASentinel/internal/recorder"
	"SMASentinel/internal/scheduler"
)

const version = "v0.3.0"

// Exit codes per failure kind; anything unclassified exits with 1.
var exitCodes = map[string]int{
	"file_not_found":      2,
	"csv_parse":           3,
	"insufficient_data":   4,
	"malformed_timestamp": 5,
	"non_numeric_price":   6,
}

func exitCode(err error) int {
	if code, ok := exitCodes[model.ErrorKind(err)]; ok {
		return code
	}
	return 1
}

func main() {
	logger.InitDefault()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "sentinel --input <path>",
		Short:   "Suggest BUY/SELL/HOLD from SMA20/SMA50 signals on a price CSV",
		Version: version,
		Long: `sentinel reads a timestamp,price CSV, resamples it to hourly closes and reduces
SMA crossovers, breakouts, pullbacks and trend bias to a single suggestion.

For offline research only. Nothing here places orders.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAnalyze,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "YAML config file (default $SENTINEL_CONFIG or "+config.DefaultPath+")")
	pf.String("input", "", "Path to the timestamp,price CSV file")
	pf.Int("resample-hours", 1, "Resample to N-hour closes (0 disables)")
	pf.Int("breakout-lookback", 20, "Samples before the last one that form the breakout range")
	pf.Float64("pullback-tolerance", 0.001, "Proximity band around SMA20 that counts as a touch")
	pf.Bool("atr-filter", false, "Suppress BUY/SELL while ATR% is below the configured floor")
	pf.Bool("regime-filter", false, "Only allow BUY in a rising regime and SELL in a falling one")
	pf.String("metrics-file", "", "Write Prometheus metrics to this textfile")
	pf.String("log-level", "info", "Log level (debug|info|warn|error)")

	root.Flags().String("format", scheduler.FormatText, "Output format (text|json)")
	root.Flags().Bool("explain", false, "Also print the intermediate signals")

	root.AddCommand(newHistoryCmd(), newScheduleCmd())
	return root
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	explain, _ := cmd.Flags().GetBool("explain")

	rec, err := newRecorder(cfg)
	if err != nil {
		return err
	}
	defer closeRecorder(rec)

	job := &scheduler.Job{
		Collector: newCollector(cfg),
		Params:    cfg.Params(),
		Recorder:  rec,
		Out:       cmd.OutOrStdout(),
		Format:    format,
		Explain:   explain,
	}
	_, err = job.Run()
	return err
}

// outputFormat returns the --format flag value if it names a known format.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	if format != scheduler.FormatText && format != scheduler.FormatJSON {
		return "", fmt.Errorf("unknown format %q", format)
	}
	return format, nil
}

// loadSettings merges the config file, environment and explicitly set flags, then
// configures logging.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	if path == "" {
		path = os.Getenv("SENTINEL_CONFIG")
	}
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if flags.Changed("input") {
		cfg.Data.Input, _ = flags.GetString("input")
	}
	if flags.Changed("resample-hours") {
		cfg.Data.ResampleHours, _ = flags.GetInt("resample-hours")
	}
	if flags.Changed("breakout-lookback") {
		cfg.Strategy.BreakoutLookback, _ = flags.GetInt("breakout-lookback")
	}
	if flags.Changed("pullback-tolerance") {
		cfg.Strategy.PullbackTolerance, _ = flags.GetFloat64("pullback-tolerance")
	}
	if flags.Changed("atr-filter") {
		cfg.Strategy.Filters.ATR.Enabled, _ = flags.GetBool("atr-filter")
	}
	if flags.Changed("regime-filter") {
		cfg.Strategy.Filters.Regime.Enabled, _ = flags.GetBool("regime-filter")
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile, _ = flags.GetString("metrics-file")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Lookup("cron") != nil && flags.Changed("cron") {
		cfg.Schedule.Cron, _ = flags.GetString("cron")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	if cfg.Data.Input == "" {
		return nil, fmt.Errorf("--input is required")
	}
	if err := logger.Init(cmd.ErrOrStderr(), cfg.Log.Level); err != nil {
		return nil, err
	}
	log.Debug().
		Str("config", path).
		Str("input", cfg.Data.Input).
		Int("resample_hours", cfg.Data.ResampleHours).
		Int("breakout_lookback", cfg.Strategy.BreakoutLookback).
		Float64("pullback_tolerance", cfg.Strategy.PullbackTolerance).
		Msg("settings loaded")
	return cfg, nil
}

func newCollector(cfg *config.Config) *collector.Collector {
	return collector.NewCollector(collector.NewCSVFetcher(cfg.Data.Input), cfg.Data.ResampleHours)
}

func newRecorder(cfg *config.Config) (recorder.Recorder, error) {
	if cfg.Metrics.Textfile == "" {
		return recorder.NewNoopRecorder(), nil
	}
	rec, err := recorder.NewPrometheusRecorder(cfg.Metrics.Textfile)
	if err != nil {
		return nil, fmt.Errorf("init metrics recorder: %w", err)
	}
	return rec, nil
}

func closeRecorder(rec recorder.Recorder) {
	if err := rec.Close(); err != nil {
		log.Warn().Err(err).Msg("close metrics recorder")
	}
}
