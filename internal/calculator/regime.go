package calculator

import (
	"math"

	"SMASentinel/internal/model"
)

// RegimeFilter classifies the bigger-picture trend from a long average, the
// percentage move over a slope window and the high/low range of that window.
type RegimeFilter struct {
	LongWindow       int     `yaml:"long_window"`
	SlopeWindow      int     `yaml:"slope_window"`
	MinTrendStrength float64 `yaml:"min_trend_strength"`
	MinRange         float64 `yaml:"min_range"`
}

// DefaultRegimeFilter is tuned for hourly closes: a 200-bar average, a 48-bar
// slope window, at least a 2% move and a 3% range.
func DefaultRegimeFilter() RegimeFilter {
	return RegimeFilter{
		LongWindow:       200,
		SlopeWindow:      48,
		MinTrendStrength: 0.02,
		MinRange:         0.03,
	}
}

// Required is the number of prices Detect needs before it can report a trend.
func (f RegimeFilter) Required() int {
	return max(f.LongWindow, f.SlopeWindow) + 1
}

// Detect returns the regime at the last price. Short history and non-positive
// reference prices are treated as sideways.
func (f RegimeFilter) Detect(prices []float64) model.Regime {
	n := len(prices)
	if f.LongWindow <= 0 || f.SlopeWindow <= 0 || n < f.Required() {
		return model.RegimeSideways
	}

	longSMA, err := Average(prices, f.LongWindow, 0)
	if err != nil || longSMA <= 0 {
		return model.RegimeSideways
	}

	start := n - 1 - f.SlopeWindow
	startPrice, endPrice := prices[start], prices[n-1]
	if startPrice <= 0 {
		return model.RegimeSideways
	}
	trend := endPrice/startPrice - 1

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range prices[start:] {
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	rng := (hi - lo) / longSMA

	if math.Abs(trend) < f.MinTrendStrength || rng < f.MinRange {
		return model.RegimeSideways
	}
	switch {
	case endPrice > longSMA && trend > 0:
		return model.RegimeTrendingUp
	case endPrice < longSMA && trend < 0:
		return model.RegimeTrendingDown
	default:
		return model.RegimeSideways
	}
}
