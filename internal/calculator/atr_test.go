package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SMASentinel/internal/model"
)

func TestATR_Errors(t *testing.T) {
	_, err := ATR([]float64{100, 101, 102}, 3)
	var insufficient *model.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 4, insufficient.Required)

	_, err = ATR([]float64{100, 101, 102}, 0)
	assert.Error(t, err)
}

func TestATR(t *testing.T) {
	cases := []struct {
		name   string
		prices []float64
		period int
		want   float64
	}{
		{"flat", []float64{100, 100, 100, 100}, 3, 0},
		{"mean of changes", []float64{10, 11, 13, 16}, 3, 2},
		{"period one is last change", []float64{10, 13, 9}, 1, 4},
		{"only trailing intervals", []float64{1, 50, 10, 11, 13}, 2, 1.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ATR(tc.prices, tc.period)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestATRPercent(t *testing.T) {
	got, err := ATRPercent([]float64{10, 11, 13, 16}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.125, got, 1e-12)

	_, err = ATRPercent([]float64{10, 5, 0}, 2)
	assert.Error(t, err)
}

func TestATRFloorFromHistory(t *testing.T) {
	// ATR% per prefix with period 2: 1.5/13, 2.5/16, 2/15.
	prices := []float64{10, 11, 13, 16, 15}

	cases := []struct {
		percentile float64
		want       float64
	}{
		{0, 1.5 / 13},
		{0.5, 2.0 / 15},
		{1, 2.5 / 16},
		{-1, 1.5 / 13},
		{2, 2.5 / 16},
	}
	for _, tc := range cases {
		got, err := ATRFloorFromHistory(prices, 2, tc.percentile)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got, 1e-12, "percentile=%v", tc.percentile)
	}
}

func TestATRFloorFromHistory_NeedsTwoExtraPrices(t *testing.T) {
	_, err := ATRFloorFromHistory([]float64{100, 101, 102, 103}, 3, 0.4)
	var insufficient *model.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 5, insufficient.Required)
}
