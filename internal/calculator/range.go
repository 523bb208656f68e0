package calculator

import (
	"errors"
	"math"

	"SMASentinel/internal/model"
)

// breakoutEpsilon keeps an exact retest of the range edge from counting as a breakout.
const breakoutEpsilon = 1e-6

// TrailingRange scans the lookback samples before the last one and returns their
// high and low. The last sample is never part of the range.
func TrailingRange(prices []float64, lookback int) (high, low float64, err error) {
	if lookback <= 0 {
		return 0, 0, errors.New("lookback must be positive")
	}
	if len(prices) < lookback+1 {
		return 0, 0, &model.InsufficientDataError{Required: lookback + 1, Found: len(prices)}
	}
	last := len(prices) - 1
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := last - lookback; i < last; i++ {
		if prices[i] > high {
			high = prices[i]
		}
		if prices[i] < low {
			low = prices[i]
		}
	}
	return high, low, nil
}

// DetectBreakout classifies the last price against the trailing range.
// Too little history yields BreakoutNone.
func DetectBreakout(prices []float64, lookback int) model.Breakout {
	high, low, err := TrailingRange(prices, lookback)
	if err != nil {
		return model.BreakoutNone
	}
	last := prices[len(prices)-1]
	switch {
	case last > high+math.Abs(high)*breakoutEpsilon:
		return model.BreakoutUp
	case last < low-math.Abs(low)*breakoutEpsilon:
		return model.BreakoutDown
	default:
		return model.BreakoutNone
	}
}
