package collector

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"SMASentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Samples   []model.Sample
	BasePrice float64
	Step      float64
	Count     int
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSamples() ([]model.Sample, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Samples != nil {
		return m.Samples, nil
	}
	return generateMockSamples(m.BasePrice, m.Step, m.Count), nil
}

// generateMockSamples builds an hourly linear series ending one hour ago.
func generateMockSamples(basePrice, step float64, count int) []model.Sample {
	end := time.Now().UTC().Truncate(time.Hour).Add(-time.Hour)
	samples := make([]model.Sample, count)
	for i := 0; i < count; i++ {
		samples[i] = model.Sample{
			Time:  end.Add(-time.Duration(count-1-i) * time.Hour),
			Price: basePrice + step*float64(i),
		}
	}
	return samples
}

// Dataset is a fetched and resampled series ready for analysis.
type Dataset struct {
	Source    string
	RawCount  int
	Window    *model.SeriesWindow
	FetchedAt time.Time
}

// Collector orchestrates data fetching and resampling.
type Collector struct {
	Fetcher       Fetcher
	ResampleHours int
}

// NewCollector creates a new Collector. resampleHours <= 0 disables resampling.
func NewCollector(fetcher Fetcher, resampleHours int) *Collector {
	return &Collector{Fetcher: fetcher, ResampleHours: resampleHours}
}

// Collect fetches the raw samples and builds an immutable window over them.
func (c *Collector) Collect() (*Dataset, error) {
	raw, err := c.Fetcher.FetchSamples()
	if err != nil {
		return nil, fmt.Errorf("fetch samples from %s: %w", c.Fetcher.Name(), err)
	}

	samples := raw
	if c.ResampleHours > 0 {
		samples = ResampleHours(raw, c.ResampleHours)
	}
	log.Debug().
		Str("source", c.Fetcher.Name()).
		Int("raw", len(raw)).
		Int("resampled", len(samples)).
		Int("resample_hours", c.ResampleHours).
		Msg("samples collected")

	return &Dataset{
		Source:    c.Fetcher.Name(),
		RawCount:  len(raw),
		Window:    model.NewSeriesWindow(samples),
		FetchedAt: time.Now(),
	}, nil
}
