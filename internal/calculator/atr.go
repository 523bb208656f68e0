package calculator

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"SMASentinel/internal/model"
)

// ATR approximates the average true range from closes only: the mean of
// |close[i] - close[i-1]| over the last period intervals. It needs period+1 prices.
func ATR(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period+1 {
		return 0, &model.InsufficientDataError{Required: period + 1, Found: len(prices)}
	}
	n := len(prices)
	sum := 0.0
	for i := n - period; i < n; i++ {
		sum += math.Abs(prices[i] - prices[i-1])
	}
	return sum / float64(period), nil
}

// ATRPercent is ATR as a fraction of the last price (0.02 = 2%).
func ATRPercent(prices []float64, period int) (float64, error) {
	atr, err := ATR(prices, period)
	if err != nil {
		return 0, err
	}
	last := prices[len(prices)-1]
	if last <= 0 {
		return 0, fmt.Errorf("atr percent undefined for last price %g", last)
	}
	return atr / last, nil
}

// ATRFloorFromHistory derives an adaptive ATR% floor: the given percentile of ATR%
// measured at every prefix of prices long enough to have one. percentile is
// clamped to [0, 1]. It needs period+2 prices.
func ATRFloorFromHistory(prices []float64, period int, percentile float64) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period+2 {
		return 0, &model.InsufficientDataError{Required: period + 2, Found: len(prices)}
	}

	values := make([]float64, 0, len(prices)-period)
	for end := period + 1; end <= len(prices); end++ {
		if v, err := ATRPercent(prices[:end], period); err == nil {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0, errors.New("no positive prices to measure atr percent")
	}
	slices.Sort(values)

	p := math.Min(math.Max(percentile, 0), 1)
	idx := int(math.Round(float64(len(values)-1) * p))
	return values[idx], nil
}
