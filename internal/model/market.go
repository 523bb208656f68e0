package model

import "time"

// Sample is a single (timestamp, price) observation.
type Sample struct {
	Time  time.Time `json:"timestamp"`
	Price float64   `json:"price"`
}

// SeriesWindow is an immutable, time-ascending sequence of samples.
// It is built once from ingested data and only read afterwards.
type SeriesWindow struct {
	samples []Sample
	prices  []float64
}

// NewSeriesWindow copies samples into a new read-only window.
func NewSeriesWindow(samples []Sample) *SeriesWindow {
	w := &SeriesWindow{
		samples: make([]Sample, len(samples)),
		prices:  make([]float64, len(samples)),
	}
	copy(w.samples, samples)
	for i, s := range samples {
		w.prices[i] = s.Price
	}
	return w
}

// Len returns the number of samples in the window.
func (w *SeriesWindow) Len() int { return len(w.samples) }

// Last returns the most recent sample. The window must not be empty.
func (w *SeriesWindow) Last() Sample { return w.samples[len(w.samples)-1] }

// Prices returns the price column. Callers must not modify the returned slice.
func (w *SeriesWindow) Prices() []float64 { return w.prices }

// Prefix returns a window over the first n samples. It shares storage with w,
// which is safe because neither window is ever mutated.
func (w *SeriesWindow) Prefix(n int) *SeriesWindow {
	if n > len(w.samples) {
		n = len(w.samples)
	}
	if n < 0 {
		n = 0
	}
	return &SeriesWindow{samples: w.samples[:n:n], prices: w.prices[:n:n]}
}
