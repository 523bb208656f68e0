package strategy

import (
	"errors"
	"fmt"

	"SMASentinel/internal/calculator"
	"SMASentinel/internal/model"
)

// ATRFilter suppresses BUY and SELL while the market is too quiet: ATR% over
// Period below Floor. With Adaptive set, the floor is the Percentile of ATR%
// across the window's own history instead of the fixed Floor.
type ATRFilter struct {
	Enabled    bool    `yaml:"enabled"`
	Period     int     `yaml:"period"`
	Floor      float64 `yaml:"floor"`
	Adaptive   bool    `yaml:"adaptive"`
	Percentile float64 `yaml:"percentile"`
}

// RegimeGate only lets BUY through in a rising regime and SELL in a falling one.
// A sideways regime suppresses both.
type RegimeGate struct {
	Enabled                 bool `yaml:"enabled"`
	calculator.RegimeFilter `yaml:",inline"`
}

// Filters are optional market gates applied on top of the rule table.
type Filters struct {
	ATR    ATRFilter  `yaml:"atr"`
	Regime RegimeGate `yaml:"regime"`
}

// DefaultFilters leaves both gates off with a 5-bar, 0.3% ATR floor and the
// hourly regime defaults ready when switched on.
func DefaultFilters() Filters {
	return Filters{
		ATR:    ATRFilter{Period: 5, Floor: 0.003, Percentile: 0.4},
		Regime: RegimeGate{RegimeFilter: calculator.DefaultRegimeFilter()},
	}
}

// Validate rejects filter settings that can never be evaluated on a valid window.
func (f Filters) Validate() error {
	if f.ATR.Enabled {
		// The adaptive floor needs period+2 prices.
		if f.ATR.Period < 1 || f.ATR.Period > MinSamples-2 {
			return fmt.Errorf("atr period must be in [1, %d], got %d", MinSamples-2, f.ATR.Period)
		}
		if f.ATR.Floor < 0 {
			return fmt.Errorf("atr floor must not be negative, got %g", f.ATR.Floor)
		}
		if f.ATR.Percentile < 0 || f.ATR.Percentile > 1 {
			return fmt.Errorf("atr percentile must be in [0, 1], got %g", f.ATR.Percentile)
		}
	}
	if f.Regime.Enabled {
		if f.Regime.LongWindow < 1 || f.Regime.SlopeWindow < 1 {
			return errors.New("regime windows must be >= 1")
		}
		if f.Regime.MinTrendStrength < 0 || f.Regime.MinRange < 0 {
			return errors.New("regime thresholds must not be negative")
		}
	}
	return nil
}

// apply fills the filter readings and the resulting gate into s.
func (f Filters) apply(prices []float64, s *model.Signals) {
	if f.ATR.Enabled {
		floor := f.ATR.Floor
		if f.ATR.Adaptive {
			if v, err := calculator.ATRFloorFromHistory(prices, f.ATR.Period, f.ATR.Percentile); err == nil {
				floor = v
			}
		}
		s.ATRFloor = floor
		atrPct, err := calculator.ATRPercent(prices, f.ATR.Period)
		s.ATRPercent = atrPct
		if err != nil || atrPct < floor {
			s.Gate = model.Gate{BlockBuy: true, BlockSell: true, Cause: "atr"}
		}
	}

	if f.Regime.Enabled {
		s.Regime = f.Regime.Detect(prices)
		var g model.Gate
		switch s.Regime {
		case model.RegimeTrendingUp:
			g.BlockSell = true
		case model.RegimeTrendingDown:
			g.BlockBuy = true
		default:
			g.BlockBuy, g.BlockSell = true, true
		}
		s.Gate = mergeGates(s.Gate, g, "regime")
	}
}

func mergeGates(prev, next model.Gate, cause string) model.Gate {
	out := model.Gate{
		BlockBuy:  prev.BlockBuy || next.BlockBuy,
		BlockSell: prev.BlockSell || next.BlockSell,
		Cause:     prev.Cause,
	}
	if (next.BlockBuy && !prev.BlockBuy) || (next.BlockSell && !prev.BlockSell) {
		if out.Cause == "" {
			out.Cause = cause
		} else {
			out.Cause += "+" + cause
		}
	}
	return out
}
