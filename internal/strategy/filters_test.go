package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SMASentinel/internal/calculator"
	"SMASentinel/internal/model"
)

func withATR(floor float64) Params {
	p := DefaultParams()
	p.Filters.ATR = ATRFilter{Enabled: true, Period: 5, Floor: floor}
	return p
}

func TestATRFilter_QuietMarketFallsThroughToBias(t *testing.T) {
	// ATR% of a unit-step ramp ending at 51 is 1/51, about 2%.
	w := window(linear(1, 1, 51)...)

	res, err := Analyze(w, withATR(0.003))
	require.NoError(t, err)
	assert.Equal(t, model.SuggestionBuy, res.Suggestion)
	assert.InDelta(t, 1.0/51, res.Signals.ATRPercent, 1e-12)
	assert.Equal(t, model.Gate{}, res.Signals.Gate)

	res, err = Analyze(w, withATR(0.05))
	require.NoError(t, err)
	assert.Equal(t, model.SuggestionHoldLongBias, res.Suggestion)
	assert.Equal(t, "long_bias", res.Rule)
	assert.Equal(t, model.Gate{BlockBuy: true, BlockSell: true, Cause: "atr"}, res.Signals.Gate)
	assert.Equal(t, 0.05, res.Signals.ATRFloor)
}

func TestATRFilter_AdaptiveFloor(t *testing.T) {
	// On a rising unit-step ramp ATR% shrinks every bar, so the last reading is the
	// lowest in the window's history.
	w := window(linear(1, 1, 51)...)
	p := withATR(0)
	p.Filters.ATR.Adaptive = true

	p.Filters.ATR.Percentile = 0
	res, err := Analyze(w, p)
	require.NoError(t, err)
	assert.Equal(t, res.Signals.ATRPercent, res.Signals.ATRFloor)
	assert.Equal(t, model.SuggestionBuy, res.Suggestion)

	p.Filters.ATR.Percentile = 0.4
	res, err = Analyze(w, p)
	require.NoError(t, err)
	assert.Greater(t, res.Signals.ATRFloor, res.Signals.ATRPercent)
	assert.Equal(t, model.SuggestionHoldLongBias, res.Suggestion)
}

func TestRegimeGate(t *testing.T) {
	small := calculator.RegimeFilter{LongWindow: 10, SlopeWindow: 5, MinTrendStrength: 0.01, MinRange: 0.01}

	cases := []struct {
		name   string
		filter calculator.RegimeFilter
		prices []float64
		regime model.Regime
		want   model.Suggestion
	}{
		{"uptrend lets buy through", small, linear(1, 1, 51), model.RegimeTrendingUp, model.SuggestionBuy},
		{"downtrend lets sell through", small, linear(300, -1, 51), model.RegimeTrendingDown, model.SuggestionSell},
		{"short history is sideways", calculator.DefaultRegimeFilter(), linear(1, 1, 51), model.RegimeSideways, model.SuggestionHoldLongBias},
		{"sideways blocks sell", calculator.DefaultRegimeFilter(), linear(300, -1, 51), model.RegimeSideways, model.SuggestionHoldShortBias},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			p.Filters.Regime = RegimeGate{Enabled: true, RegimeFilter: tc.filter}

			res, err := Analyze(window(tc.prices...), p)
			require.NoError(t, err)
			assert.Equal(t, tc.regime, res.Signals.Regime)
			assert.Equal(t, tc.want, res.Suggestion)
		})
	}
}

func TestEvaluate_SkipsGatedRules(t *testing.T) {
	sig := model.Signals{
		LastPrice: 4,
		Short:     model.SMAState{Period: 20, Current: 3, Previous: 1},
		Long:      model.SMAState{Period: 50, Current: 2, Previous: 1},
		Crossover: model.CrossoverGolden,
		Bias:      model.BiasLong,
	}
	assert.Equal(t, "golden_cross", Evaluate(sig, AllRules()).Name)

	sig.Gate = model.Gate{BlockBuy: true, Cause: "regime"}
	assert.Equal(t, "long_bias", Evaluate(sig, AllRules()).Name)

	sig.Gate = model.Gate{BlockSell: true}
	assert.Equal(t, "golden_cross", Evaluate(sig, AllRules()).Name)
}

func TestMergeGates(t *testing.T) {
	atr := model.Gate{BlockBuy: true, BlockSell: true, Cause: "atr"}
	up := model.Gate{BlockSell: true}
	down := model.Gate{BlockBuy: true}

	assert.Equal(t, atr, mergeGates(atr, up, "regime"))
	assert.Equal(t, model.Gate{BlockBuy: true, Cause: "regime"}, mergeGates(model.Gate{}, down, "regime"))
	assert.Equal(t, model.Gate{BlockBuy: true, BlockSell: true, Cause: "atr+regime"},
		mergeGates(model.Gate{BlockSell: true, Cause: "atr"}, down, "regime"))
}

func TestFilters_Validate(t *testing.T) {
	require.NoError(t, DefaultFilters().Validate())

	f := DefaultFilters()
	f.ATR.Enabled = true
	f.ATR.Period = 0
	assert.Error(t, f.Validate())

	f = DefaultFilters()
	f.ATR.Enabled = true
	f.ATR.Percentile = 1.5
	assert.Error(t, f.Validate())

	f = DefaultFilters()
	f.Regime.Enabled = true
	f.Regime.MinRange = -1
	assert.Error(t, f.Validate())

	p := DefaultParams()
	p.Filters = f
	assert.Error(t, p.Validate())
}
