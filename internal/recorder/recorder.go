package recorder

import (
	"time"

	"SMASentinel/internal/model"
)

// Recorder collects run metrics for analysis runs.
type Recorder interface {
	RecordAnalysis(res *model.AnalysisResult, elapsed time.Duration) error
	RecordFailure(err error) error
	Close() error
}
