package calculator

import (
	"errors"

	"SMASentinel/internal/model"
)

// Average computes the simple moving average of period consecutive prices ending
// offset samples before the last one. offset 0 is the current window, offset 1 the
// window shifted one sample earlier.
func Average(prices []float64, period, offset int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if offset < 0 {
		return 0, errors.New("offset must not be negative")
	}
	if len(prices) < period+offset {
		return 0, &model.InsufficientDataError{Required: period + offset, Found: len(prices)}
	}
	end := len(prices) - offset
	sum := 0.0
	for i := end - period; i < end; i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// NewSMAState returns the current and previous SMA for period.
// It needs period+1 prices.
func NewSMAState(prices []float64, period int) (model.SMAState, error) {
	prev, err := Average(prices, period, 1)
	if err != nil {
		return model.SMAState{}, err
	}
	curr, err := Average(prices, period, 0)
	if err != nil {
		return model.SMAState{}, err
	}
	return model.SMAState{Period: period, Current: curr, Previous: prev}, nil
}
