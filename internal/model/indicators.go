package model

// SMAState holds a simple moving average at the last sample and one sample earlier.
type SMAState struct {
	Period   int     `json:"period"`
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
}

// Rising reports whether the average increased over the last sample.
func (s SMAState) Rising() bool { return s.Current > s.Previous }

// Falling reports whether the average decreased over the last sample.
func (s SMAState) Falling() bool { return s.Current < s.Previous }

// Signals holds every derived signal the engine reduces to one suggestion.
type Signals struct {
	LastPrice float64   `json:"last_price"`
	Short     SMAState  `json:"short"`
	Long      SMAState  `json:"long"`
	Crossover Crossover `json:"crossover"`
	Bias      Bias      `json:"bias"`
	Breakout  Breakout  `json:"breakout"`
	Pullback  Pullback  `json:"pullback"`

	// Filter readings; zero when the matching filter is off.
	ATRPercent float64 `json:"atr_percent,omitempty"`
	ATRFloor   float64 `json:"atr_floor,omitempty"`
	Regime     Regime  `json:"regime,omitempty"`
	Gate       Gate    `json:"gate"`
}

// Gate records which action suggestions the market filters suppress.
type Gate struct {
	BlockBuy  bool   `json:"block_buy"`
	BlockSell bool   `json:"block_sell"`
	Cause     string `json:"cause,omitempty"`
}

// Blocks reports whether the gate suppresses suggestion s. Hold suggestions pass.
func (g Gate) Blocks(s Suggestion) bool {
	switch s {
	case SuggestionBuy:
		return g.BlockBuy
	case SuggestionSell:
		return g.BlockSell
	default:
		return false
	}
}

// PriceAboveBoth reports whether the last price is strictly above both averages.
func (s Signals) PriceAboveBoth() bool {
	return s.LastPrice > s.Short.Current && s.LastPrice > s.Long.Current
}

// PriceBelowBoth reports whether the last price is strictly below both averages.
func (s Signals) PriceBelowBoth() bool {
	return s.LastPrice < s.Short.Current && s.LastPrice < s.Long.Current
}
