package main

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"SMASentinel/internal/scheduler"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Re-run the analysis on a cron schedule until interrupted",
		Long: `Re-read the input file and print a fresh report on every cron tick.
Specs take a leading seconds field, e.g. "0 5 * * * *" runs five minutes past each hour.`,
		Args: cobra.NoArgs,
		RunE: runSchedule,
	}
	cmd.Flags().String("cron", "0 5 * * * *", "Cron spec with seconds field")
	cmd.Flags().Bool("run-on-start", false, "Run once immediately before waiting for the first tick")
	cmd.Flags().String("format", scheduler.FormatText, "Output format (text|json)")
	return cmd
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	runOnStart, _ := cmd.Flags().GetBool("run-on-start")

	rec, err := newRecorder(cfg)
	if err != nil {
		return err
	}
	defer closeRecorder(rec)

	sched := scheduler.NewScheduler(&scheduler.Job{
		Collector: newCollector(cfg),
		Params:    cfg.Params(),
		Recorder:  rec,
		Out:       cmd.OutOrStdout(),
		Format:    format,
	})
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if runOnStart {
		log.Info().Msg("run-on-start enabled, executing analysis now")
		sched.RunNow()
	}
	sched.Start()
	log.Info().Str("cron", cfg.Schedule.Cron).Str("input", cfg.Data.Input).Msg("waiting for schedule, press Ctrl+C to stop")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping")
	sched.Stop()
	return nil
}
