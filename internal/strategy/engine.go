package strategy

import (
	"fmt"

	"SMASentinel/internal/calculator"
	"SMASentinel/internal/model"
)

const (
	ShortPeriod = 20
	LongPeriod  = 50
	// MinSamples covers the long average at the last sample and one sample earlier.
	MinSamples = LongPeriod + 1

	DefaultBreakoutLookback  = 20
	DefaultPullbackTolerance = 0.001
)

// RuleGroup names a family of rules that can be switched off together.
type RuleGroup string

const (
	GroupCrossover RuleGroup = "crossovers"
	GroupBreakout  RuleGroup = "breakouts"
	GroupPullback  RuleGroup = "pullbacks"
	GroupBiasOnly  RuleGroup = "bias_only"
	GroupFallback  RuleGroup = "fallback"
)

// RuleSet toggles rule groups. The fallback Hold rule is always active.
type RuleSet struct {
	Crossovers bool `yaml:"crossovers"`
	Breakouts  bool `yaml:"breakouts"`
	Pullbacks  bool `yaml:"pullbacks"`
	BiasOnly   bool `yaml:"bias_only"`
}

// AllRules enables every rule group.
func AllRules() RuleSet {
	return RuleSet{Crossovers: true, Breakouts: true, Pullbacks: true, BiasOnly: true}
}

func (rs RuleSet) enabled(g RuleGroup) bool {
	switch g {
	case GroupCrossover:
		return rs.Crossovers
	case GroupBreakout:
		return rs.Breakouts
	case GroupPullback:
		return rs.Pullbacks
	case GroupBiasOnly:
		return rs.BiasOnly
	default:
		return true
	}
}

// Params are the tunable inputs of the engine.
type Params struct {
	BreakoutLookback  int
	PullbackTolerance float64
	Rules             RuleSet
	Filters           Filters
}

// DefaultParams returns a 20-sample breakout lookback, a 0.1% pullback band, all
// rules and no market filters.
func DefaultParams() Params {
	return Params{
		BreakoutLookback:  DefaultBreakoutLookback,
		PullbackTolerance: DefaultPullbackTolerance,
		Rules:             AllRules(),
		Filters:           DefaultFilters(),
	}
}

// Validate rejects parameters the detectors cannot work with.
func (p Params) Validate() error {
	if p.BreakoutLookback < 1 {
		return fmt.Errorf("breakout lookback must be >= 1, got %d", p.BreakoutLookback)
	}
	if p.PullbackTolerance < 0 || p.PullbackTolerance >= 0.1 {
		return fmt.Errorf("pullback tolerance must be in [0, 0.1), got %g", p.PullbackTolerance)
	}
	if err := p.Filters.Validate(); err != nil {
		return fmt.Errorf("filters: %w", err)
	}
	return nil
}

// Rule maps a predicate over the derived signals to a suggestion.
type Rule struct {
	Name       string
	Group      RuleGroup
	Suggestion model.Suggestion
	Reason     string
	Match      func(s model.Signals) bool
}

// Rules is the decision tree in priority order; the first match wins.
var Rules = []Rule{
	{
		Name: "golden_cross", Group: GroupCrossover, Suggestion: model.SuggestionBuy,
		Reason: "Golden Cross + SMA50 rising + price above SMA20 & SMA50",
		Match: func(s model.Signals) bool {
			return s.Crossover == model.CrossoverGolden && s.Long.Rising() && s.PriceAboveBoth()
		},
	},
	{
		Name: "death_cross", Group: GroupCrossover, Suggestion: model.SuggestionSell,
		Reason: "Death Cross + SMA50 falling + price below SMA20 & SMA50",
		Match: func(s model.Signals) bool {
			return s.Crossover == model.CrossoverDeath && s.Long.Falling() && s.PriceBelowBoth()
		},
	},
	{
		Name: "breakout_up", Group: GroupBreakout, Suggestion: model.SuggestionBuy,
		Reason: "Breakout above recent high in uptrend",
		Match: func(s model.Signals) bool {
			return s.Breakout == model.BreakoutUp && s.Bias == model.BiasLong
		},
	},
	{
		Name: "breakout_down", Group: GroupBreakout, Suggestion: model.SuggestionSell,
		Reason: "Breakout below recent low in downtrend",
		Match: func(s model.Signals) bool {
			return s.Breakout == model.BreakoutDown && s.Bias == model.BiasShort
		},
	},
	{
		Name: "pullback_bounce", Group: GroupPullback, Suggestion: model.SuggestionBuy,
		Reason: "Pullback to SMA20 + bounce in uptrend",
		Match:  func(s model.Signals) bool { return s.Pullback == model.PullbackBounce },
	},
	{
		Name: "pullback_rejection", Group: GroupPullback, Suggestion: model.SuggestionSell,
		Reason: "Pullback to SMA20 + rejection in downtrend",
		Match:  func(s model.Signals) bool { return s.Pullback == model.PullbackRejection },
	},
	{
		Name: "long_bias", Group: GroupBiasOnly, Suggestion: model.SuggestionHoldLongBias,
		Reason: "Uptrend (SMA20 > SMA50, SMA50 rising) and price above SMA20",
		Match:  func(s model.Signals) bool { return s.Bias == model.BiasLong },
	},
	{
		Name: "short_bias", Group: GroupBiasOnly, Suggestion: model.SuggestionHoldShortBias,
		Reason: "Downtrend (SMA20 < SMA50, SMA50 falling) and price below SMA20",
		Match:  func(s model.Signals) bool { return s.Bias == model.BiasShort },
	},
}

// FallbackRule fires when nothing else matches.
var FallbackRule = Rule{
	Name: "no_edge", Group: GroupFallback, Suggestion: model.SuggestionHold,
	Reason: "No clear breakout, pullback bounce/rejection, or crossover signal",
	Match:  func(model.Signals) bool { return true },
}

// Evaluate returns the first enabled rule whose predicate holds. A rule whose
// suggestion the gate blocks is skipped, so evaluation falls through to later rules.
func Evaluate(s model.Signals, rs RuleSet) Rule {
	for _, r := range Rules {
		if rs.enabled(r.Group) && !s.Gate.Blocks(r.Suggestion) && r.Match(s) {
			return r
		}
	}
	return FallbackRule
}

// ComputeSignals derives every signal from the window.
func ComputeSignals(w *model.SeriesWindow, p Params) (model.Signals, error) {
	if w.Len() < MinSamples {
		return model.Signals{}, &model.InsufficientDataError{Required: MinSamples, Found: w.Len()}
	}
	prices := w.Prices()

	short, err := calculator.NewSMAState(prices, ShortPeriod)
	if err != nil {
		return model.Signals{}, fmt.Errorf("sma%d: %w", ShortPeriod, err)
	}
	long, err := calculator.NewSMAState(prices, LongPeriod)
	if err != nil {
		return model.Signals{}, fmt.Errorf("sma%d: %w", LongPeriod, err)
	}

	last := prices[len(prices)-1]
	bias := ClassifyBias(last, short, long)

	sig := model.Signals{
		LastPrice: last,
		Short:     short,
		Long:      long,
		Crossover: DetectCrossover(short.Previous, long.Previous, short.Current, long.Current),
		Bias:      bias,
		Breakout:  calculator.DetectBreakout(prices, p.BreakoutLookback),
		Pullback:  DetectPullback(prices, short.Current, p.PullbackTolerance, bias),
	}
	p.Filters.apply(prices, &sig)
	return sig, nil
}

// Analyze reduces the window to one suggestion. It needs at least MinSamples samples.
func Analyze(w *model.SeriesWindow, p Params) (*model.AnalysisResult, error) {
	sig, err := ComputeSignals(w, p)
	if err != nil {
		return nil, err
	}
	rule := Evaluate(sig, p.Rules)
	last := w.Last()

	return &model.AnalysisResult{
		LastTime:   last.Time,
		LastPrice:  last.Price,
		SMA20:      sig.Short.Current,
		SMA50:      sig.Long.Current,
		PrevSMA20:  sig.Short.Previous,
		PrevSMA50:  sig.Long.Previous,
		Suggestion: rule.Suggestion,
		Reason:     rule.Reason,
		Rule:       rule.Name,
		Signals:    sig,
	}, nil
}

// History runs Analyze on the prefix ending at each of the last n samples, oldest first.
// Prefixes shorter than MinSamples are skipped.
func History(w *model.SeriesWindow, p Params, n int) ([]*model.AnalysisResult, error) {
	if w.Len() < MinSamples {
		return nil, &model.InsufficientDataError{Required: MinSamples, Found: w.Len()}
	}
	start := w.Len() - n
	if start < MinSamples-1 {
		start = MinSamples - 1
	}
	out := make([]*model.AnalysisResult, 0, w.Len()-start)
	for end := start + 1; end <= w.Len(); end++ {
		res, err := Analyze(w.Prefix(end), p)
		if err != nil {
			return nil, fmt.Errorf("analyze prefix %d: %w", end, err)
		}
		out = append(out, res)
	}
	return out, nil
}
