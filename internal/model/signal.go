package model

import "time"

// Suggestion is the discrete outcome of one analysis.
type Suggestion string

const (
	SuggestionBuy           Suggestion = "BUY"
	SuggestionSell          Suggestion = "SELL"
	SuggestionHoldLongBias  Suggestion = "HOLD / LONG BIAS"
	SuggestionHoldShortBias Suggestion = "HOLD / SHORT BIAS"
	SuggestionHold          Suggestion = "HOLD"
)

// Suggestions lists every suggestion in display order.
var Suggestions = []Suggestion{
	SuggestionBuy,
	SuggestionSell,
	SuggestionHoldLongBias,
	SuggestionHoldShortBias,
	SuggestionHold,
}

// Crossover classifies how the short average moved relative to the long one.
type Crossover string

const (
	CrossoverNone   Crossover = "NONE"
	CrossoverGolden Crossover = "GOLDEN"
	CrossoverDeath  Crossover = "DEATH"
)

// Bias is the directional lean derived from average slope and price position.
type Bias string

const (
	BiasNeutral Bias = "NEUTRAL"
	BiasLong    Bias = "LONG"
	BiasShort   Bias = "SHORT"
)

// Breakout classifies the last price against the trailing range.
type Breakout string

const (
	BreakoutNone Breakout = "NONE"
	BreakoutUp   Breakout = "UP"
	BreakoutDown Breakout = "DOWN"
)

// Pullback classifies a touch of the short average followed by continuation.
type Pullback string

const (
	PullbackNone      Pullback = "NONE"
	PullbackBounce    Pullback = "BOUNCE"
	PullbackRejection Pullback = "REJECTION"
)

// Regime is the bigger-picture market state used by the regime filter.
type Regime string

const (
	RegimeTrendingUp   Regime = "TRENDING_UP"
	RegimeTrendingDown Regime = "TRENDING_DOWN"
	RegimeSideways     Regime = "SIDEWAYS"
)

// AnalysisResult is the final output of the signal engine.
type AnalysisResult struct {
	LastTime   time.Time  `json:"last_timestamp"`
	LastPrice  float64    `json:"last_price"`
	SMA20      float64    `json:"sma20"`
	SMA50      float64    `json:"sma50"`
	PrevSMA20  float64    `json:"prev_sma20"`
	PrevSMA50  float64    `json:"prev_sma50"`
	Suggestion Suggestion `json:"suggestion"`
	Reason     string     `json:"reason"`
	Rule       string     `json:"rule"`
	Signals    Signals    `json:"signals"`
}
