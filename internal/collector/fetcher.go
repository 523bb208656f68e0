package collector

import "SMASentinel/internal/model"

// Fetcher defines the interface for acquiring an ordered price series.
type Fetcher interface {
	FetchSamples() ([]model.Sample, error)
	Name() string
}
