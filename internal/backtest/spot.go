// Package backtest replays a suggestion timeline as a long-only spot account.
package backtest

import (
	"errors"
	"fmt"
	"time"

	"SMASentinel/internal/model"
)

// Config sets the starting cash and the fee charged on every fill.
type Config struct {
	InitialCash float64
	FeeBps      float64
}

// DefaultConfig starts with 10000 in cash and a 10bp fee.
func DefaultConfig() Config {
	return Config{InitialCash: 10000, FeeBps: 10}
}

// Validate rejects configs the account cannot trade with.
func (c Config) Validate() error {
	if c.InitialCash <= 0 {
		return fmt.Errorf("initial cash must be positive, got %g", c.InitialCash)
	}
	if c.FeeBps < 0 || c.FeeBps >= 10000 {
		return fmt.Errorf("fee must be in [0, 10000) bps, got %g", c.FeeBps)
	}
	return nil
}

// Trade is one closed round trip.
type Trade struct {
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	EntryValue float64 // cash committed after the entry fee
	ExitValue  float64 // cash received after the exit fee
	Profit     float64
	Return     float64
}

// EquityPoint is the marked account value at one bar, before that bar's fill.
type EquityPoint struct {
	Time   time.Time
	Equity float64
}

// Result summarises a replay. Ratios are fractions (0.05 = 5%).
type Result struct {
	InitialEquity    float64
	FinalEquity      float64
	TotalReturn      float64
	BuyAndHoldReturn float64
	MaxDrawdown      float64
	WinRate          float64
	Trades           []Trade
	Equity           []EquityPoint
	OpenPosition     bool
}

type account struct {
	cash, qty  float64
	entryTime  time.Time
	entryPrice float64
	entryValue float64
}

// Run replays hist oldest first. A BUY while flat converts all cash into the
// asset, a SELL while long converts it all back; every other suggestion holds.
// A position still open at the end is marked to the last price.
func Run(hist []*model.AnalysisResult, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(hist) == 0 {
		return nil, errors.New("no bars to replay")
	}

	feeMult := 1 - cfg.FeeBps/10000
	acct := account{cash: cfg.InitialCash}
	res := &Result{
		InitialEquity: cfg.InitialCash,
		Equity:        make([]EquityPoint, 0, len(hist)),
	}

	for _, bar := range hist {
		price := bar.LastPrice
		res.Equity = append(res.Equity, EquityPoint{Time: bar.LastTime, Equity: acct.cash + acct.qty*price})
		if price <= 0 {
			continue
		}

		switch {
		case bar.Suggestion == model.SuggestionBuy && acct.qty == 0:
			net := acct.cash * feeMult
			acct = account{
				qty:        net / price,
				entryTime:  bar.LastTime,
				entryPrice: price,
				entryValue: net,
			}
		case bar.Suggestion == model.SuggestionSell && acct.qty > 0:
			exit := acct.qty * price * feeMult
			res.Trades = append(res.Trades, Trade{
				EntryTime:  acct.entryTime,
				ExitTime:   bar.LastTime,
				EntryPrice: acct.entryPrice,
				ExitPrice:  price,
				EntryValue: acct.entryValue,
				ExitValue:  exit,
				Profit:     exit - acct.entryValue,
				Return:     exit/acct.entryValue - 1,
			})
			acct = account{cash: exit}
		}
	}

	first, last := hist[0].LastPrice, hist[len(hist)-1].LastPrice
	res.FinalEquity = acct.cash + acct.qty*last
	res.TotalReturn = res.FinalEquity/res.InitialEquity - 1
	if first > 0 {
		res.BuyAndHoldReturn = last/first - 1
	}
	res.MaxDrawdown = MaxDrawdown(res.Equity)
	res.WinRate = winRate(res.Trades)
	res.OpenPosition = acct.qty > 0
	return res, nil
}

// MaxDrawdown is the largest peak-to-trough fall of the curve as a fraction of the peak.
func MaxDrawdown(curve []EquityPoint) float64 {
	if len(curve) == 0 {
		return 0
	}
	peak := curve[0].Equity
	worst := 0.0
	for _, p := range curve {
		peak = max(peak, p.Equity)
		if peak > 0 {
			worst = max(worst, (peak-p.Equity)/peak)
		}
	}
	return worst
}

func winRate(trades []Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.Profit > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(trades))
}
