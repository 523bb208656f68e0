package recorder

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"SMASentinel/internal/model"
)

// PrometheusRecorder keeps run metrics in a private registry and rewrites a
// node-exporter textfile after every recorded run.
type PrometheusRecorder struct {
	path     string
	registry *prometheus.Registry
	mu       sync.Mutex

	analyses   *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   prometheus.Histogram
	lastPrice  prometheus.Gauge
	sma        *prometheus.GaugeVec
	lastSample prometheus.Gauge
	lastRun    prometheus.Gauge
}

// NewPrometheusRecorder registers all collectors. Nothing is written until the first record.
func NewPrometheusRecorder(path string) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		path:     path,
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_analyses_total",
			Help: "Completed analyses by suggestion.",
		}, []string{"suggestion", "rule"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_analysis_failures_total",
			Help: "Failed analyses by error kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_analysis_duration_seconds",
			Help:    "Wall time of one analysis including ingestion.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		lastPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_last_price",
			Help: "Price of the most recent analysed sample.",
		}),
		sma: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sentinel_sma",
			Help: "Simple moving averages at the most recent sample.",
		}, []string{"period", "point"}),
		lastSample: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_last_sample_timestamp_seconds",
			Help: "Unix time of the most recent analysed sample.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_last_run_timestamp_seconds",
			Help: "Unix time of the last analysis attempt.",
		}),
	}

	for _, c := range []prometheus.Collector{
		r.analyses, r.failures, r.duration, r.lastPrice, r.sma, r.lastSample, r.lastRun,
	} {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

func (r *PrometheusRecorder) RecordAnalysis(res *model.AnalysisResult, elapsed time.Duration) error {
	r.analyses.WithLabelValues(string(res.Suggestion), res.Rule).Inc()
	r.duration.Observe(elapsed.Seconds())
	r.lastPrice.Set(res.LastPrice)
	r.lastSample.Set(float64(res.LastTime.Unix()))
	r.setSMA(res.Signals.Short)
	r.setSMA(res.Signals.Long)
	r.lastRun.SetToCurrentTime()
	return r.flush()
}

func (r *PrometheusRecorder) setSMA(s model.SMAState) {
	period := strconv.Itoa(s.Period)
	r.sma.WithLabelValues(period, "current").Set(s.Current)
	r.sma.WithLabelValues(period, "previous").Set(s.Previous)
}

func (r *PrometheusRecorder) RecordFailure(err error) error {
	r.failures.WithLabelValues(model.ErrorKind(err)).Inc()
	r.lastRun.SetToCurrentTime()
	return r.flush()
}

func (r *PrometheusRecorder) Close() error {
	return r.flush()
}

func (r *PrometheusRecorder) flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	log.Debug().Str("path", r.path).Msg("metrics textfile written")
	return nil
}
