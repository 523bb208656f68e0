package scheduler

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"SMASentinel/internal/collector"
	"SMASentinel/internal/model"
	"SMASentinel/internal/notifier"
	"SMASentinel/internal/recorder"
	"SMASentinel/internal/strategy"
)

// Output formats understood by Job.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Job is one collect, analyze, report pass over the input.
type Job struct {
	Collector *collector.Collector
	Params    strategy.Params
	Recorder  recorder.Recorder
	Out       io.Writer
	Format    string
	Explain   bool
}

// Run executes the job once. Failures are recorded before being returned.
func (j *Job) Run() (*model.AnalysisResult, error) {
	start := time.Now()
	res, ds, err := j.analyze()
	if err != nil {
		if rerr := j.Recorder.RecordFailure(err); rerr != nil {
			log.Warn().Err(rerr).Msg("record failure")
		}
		return nil, err
	}

	if err := j.write(res, ds); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	if err := j.Recorder.RecordAnalysis(res, time.Since(start)); err != nil {
		log.Warn().Err(err).Msg("record analysis")
	}
	log.Info().
		Str("suggestion", string(res.Suggestion)).
		Str("rule", res.Rule).
		Time("last_sample", res.LastTime).
		Dur("elapsed", time.Since(start)).
		Msg("analysis complete")
	return res, nil
}

func (j *Job) analyze() (*model.AnalysisResult, *collector.Dataset, error) {
	ds, err := j.Collector.Collect()
	if err != nil {
		return nil, nil, err
	}
	res, err := strategy.Analyze(ds.Window, j.Params)
	if err != nil {
		return nil, ds, fmt.Errorf("analyze %s: %w", ds.Source, err)
	}
	return res, ds, nil
}

func (j *Job) write(res *model.AnalysisResult, ds *collector.Dataset) error {
	if j.Format == FormatJSON {
		return notifier.WriteJSON(j.Out, res)
	}
	report := notifier.FormatLoadSummary(ds.RawCount, ds.Window.Len(), j.Collector.ResampleHours) + "\n" +
		notifier.FormatReport(res)
	if j.Explain {
		report += notifier.FormatSignals(res)
	}
	_, err := io.WriteString(j.Out, report)
	return err
}
