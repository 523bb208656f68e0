package recorder

import (
	"time"

	"SMASentinel/internal/model"
)

// NoopRecorder is a no-op implementation used when no metrics file is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAnalysis(_ *model.AnalysisResult, _ time.Duration) error { return nil }
func (n *NoopRecorder) RecordFailure(_ error) error                                   { return nil }
func (n *NoopRecorder) Close() error                                                  { return nil }
