package recorder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SMASentinel/internal/model"
)

func TestPrometheusRecorder_RecordAnalysis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentinel.prom")
	rec, err := NewPrometheusRecorder(path)
	require.NoError(t, err)

	res := &model.AnalysisResult{
		LastTime:   time.Unix(1764324000, 0).UTC(),
		LastPrice:  110,
		Suggestion: model.SuggestionBuy,
		Rule:       "golden_cross",
		Signals: model.Signals{
			Short: model.SMAState{Period: 20, Current: 100.5, Previous: 100},
			Long:  model.SMAState{Period: 50, Current: 100.2, Previous: 100},
		},
	}
	require.NoError(t, rec.RecordAnalysis(res, 3*time.Millisecond))
	require.NoError(t, rec.RecordAnalysis(res, 2*time.Millisecond))

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.analyses.WithLabelValues("BUY", "golden_cross")))
	assert.Equal(t, 110.0, testutil.ToFloat64(rec.lastPrice))
	assert.Equal(t, 100.2, testutil.ToFloat64(rec.sma.WithLabelValues("50", "current")))
	assert.Equal(t, 1764324000.0, testutil.ToFloat64(rec.lastSample))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sentinel_analyses_total")
	assert.Contains(t, string(data), `suggestion="BUY"`)
}

func TestPrometheusRecorder_RecordFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentinel.prom")
	rec, err := NewPrometheusRecorder(path)
	require.NoError(t, err)

	require.NoError(t, rec.RecordFailure(&model.InsufficientDataError{Required: 51, Found: 10}))
	require.NoError(t, rec.RecordFailure(errors.New("boom")))
	require.NoError(t, rec.Close())

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.failures.WithLabelValues("insufficient_data")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.failures.WithLabelValues("other")))
	assert.FileExists(t, path)
}

func TestPrometheusRecorder_UnwritablePath(t *testing.T) {
	rec, err := NewPrometheusRecorder(filepath.Join(t.TempDir(), "missing", "dir", "sentinel.prom"))
	require.NoError(t, err)
	assert.Error(t, rec.RecordFailure(errors.New("boom")))
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordAnalysis(&model.AnalysisResult{}, time.Second))
	assert.NoError(t, rec.RecordFailure(errors.New("x")))
	assert.NoError(t, rec.Close())
}
