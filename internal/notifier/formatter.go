package notifier

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"SMASentinel/internal/backtest"
	"SMASentinel/internal/model"
)

// pct renders a fraction as a percentage with two decimals.
func pct(v float64) string {
	return decimal.NewFromFloat(v).Mul(decimal.New(1, 2)).StringFixed(2) + "%"
}

// fixed4 renders a price or average with exactly four decimals.
func fixed4(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(4)
}

// FormatLoadSummary describes how many raw and resampled samples were analysed.
func FormatLoadSummary(raw, resampled, hours int) string {
	if hours <= 0 {
		return fmt.Sprintf("Loaded %d points (no resampling).", raw)
	}
	return fmt.Sprintf("Loaded %d raw points, %d %dh candles after resampling.", raw, resampled, hours)
}

// FormatReport formats the analysis result as the fixed-field text report.
func FormatReport(res *model.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Last timestamp: %s\n", res.LastTime.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Last price:     %s\n", fixed4(res.LastPrice)))
	b.WriteString(fmt.Sprintf("SMA(20):        %s\n", fixed4(res.SMA20)))
	b.WriteString(fmt.Sprintf("SMA(50):        %s\n", fixed4(res.SMA50)))
	b.WriteString(fmt.Sprintf("Prev SMA(20):   %s\n", fixed4(res.PrevSMA20)))
	b.WriteString(fmt.Sprintf("Prev SMA(50):   %s\n", fixed4(res.PrevSMA50)))
	b.WriteString(fmt.Sprintf("Suggestion:     %s\n", res.Suggestion))
	b.WriteString(fmt.Sprintf("Reason:         %s\n", res.Reason))
	return b.String()
}

// FormatSignals lists the intermediate signals behind a suggestion.
func FormatSignals(res *model.AnalysisResult) string {
	s := res.Signals
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Rule:           %s\n", res.Rule))
	b.WriteString(fmt.Sprintf("Crossover:      %s\n", s.Crossover))
	b.WriteString(fmt.Sprintf("Bias:           %s\n", s.Bias))
	b.WriteString(fmt.Sprintf("Breakout:       %s\n", s.Breakout))
	b.WriteString(fmt.Sprintf("Pullback:       %s\n", s.Pullback))
	if s.ATRFloor > 0 || s.ATRPercent > 0 {
		b.WriteString(fmt.Sprintf("ATR%%:           %s (floor %s)\n", pct(s.ATRPercent), pct(s.ATRFloor)))
	}
	if s.Regime != "" {
		b.WriteString(fmt.Sprintf("Regime:         %s\n", s.Regime))
	}
	if s.Gate.BlockBuy || s.Gate.BlockSell {
		b.WriteString(fmt.Sprintf("Gate:           %s (buy blocked: %t, sell blocked: %t)\n",
			s.Gate.Cause, s.Gate.BlockBuy, s.Gate.BlockSell))
	}
	return b.String()
}

// jsonReport mirrors the text report with prices kept as fixed-point strings.
type jsonReport struct {
	LastTimestamp string           `json:"last_timestamp"`
	LastPrice     decimal.Decimal  `json:"last_price"`
	SMA20         decimal.Decimal  `json:"sma20"`
	SMA50         decimal.Decimal  `json:"sma50"`
	PrevSMA20     decimal.Decimal  `json:"prev_sma20"`
	PrevSMA50     decimal.Decimal  `json:"prev_sma50"`
	Suggestion    model.Suggestion `json:"suggestion"`
	Reason        string           `json:"reason"`
	Rule          string           `json:"rule"`
	Crossover     model.Crossover  `json:"crossover"`
	Bias          model.Bias       `json:"bias"`
	Breakout      model.Breakout   `json:"breakout"`
	Pullback      model.Pullback   `json:"pullback"`
	Regime        model.Regime     `json:"regime,omitempty"`
	Gate          *model.Gate      `json:"gate,omitempty"`
}

func round4(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(4)
}

// WriteJSON writes the analysis result as one indented JSON object.
func WriteJSON(w io.Writer, res *model.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		LastTimestamp: res.LastTime.Format(time.RFC3339),
		LastPrice:     round4(res.LastPrice),
		SMA20:         round4(res.SMA20),
		SMA50:         round4(res.SMA50),
		PrevSMA20:     round4(res.PrevSMA20),
		PrevSMA50:     round4(res.PrevSMA50),
		Suggestion:    res.Suggestion,
		Reason:        res.Reason,
		Rule:          res.Rule,
		Crossover:     res.Signals.Crossover,
		Bias:          res.Signals.Bias,
		Breakout:      res.Signals.Breakout,
		Pullback:      res.Signals.Pullback,
		Regime:        res.Signals.Regime,
		Gate:          gateOf(res.Signals),
	})
}

func gateOf(s model.Signals) *model.Gate {
	if !s.Gate.BlockBuy && !s.Gate.BlockSell {
		return nil
	}
	g := s.Gate
	return &g
}

// WriteHistory writes one row per analysed bar followed by a suggestion tally.
func WriteHistory(w io.Writer, hist []*model.AnalysisResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tPRICE\tSMA20\tSMA50\tSUGGESTION\tRULE")
	counts := make(map[model.Suggestion]int)
	for _, res := range hist {
		counts[res.Suggestion]++
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			res.LastTime.Format(time.RFC3339), fixed4(res.LastPrice),
			fixed4(res.SMA20), fixed4(res.SMA50), res.Suggestion, res.Rule)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d bars:", len(hist))
	for _, s := range model.Suggestions {
		fmt.Fprintf(w, " %s=%d", s, counts[s])
	}
	_, err := fmt.Fprintln(w)
	return err
}

// WriteBacktest writes the spot replay summary and its closed trades.
func WriteBacktest(w io.Writer, res *backtest.Result) error {
	money := func(v float64) string { return decimal.NewFromFloat(v).StringFixed(2) }

	fmt.Fprintln(w, "=== Backtest Summary ===")
	fmt.Fprintf(w, "Initial equity:   %s\n", money(res.InitialEquity))
	fmt.Fprintf(w, "Final equity:     %s\n", money(res.FinalEquity))
	fmt.Fprintf(w, "Total return:     %s\n", pct(res.TotalReturn))
	fmt.Fprintf(w, "Buy and hold:     %s\n", pct(res.BuyAndHoldReturn))
	fmt.Fprintf(w, "Max drawdown:     %s\n", pct(res.MaxDrawdown))
	fmt.Fprintf(w, "Trades:           %d\n", len(res.Trades))
	fmt.Fprintf(w, "Win rate:         %s\n", pct(res.WinRate))
	if res.OpenPosition {
		fmt.Fprintln(w, "Position:         open, marked to last price")
	}
	if len(res.Trades) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTRY\tEXIT\tENTRY PRICE\tEXIT PRICE\tPROFIT\tRETURN")
	for _, t := range res.Trades {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.EntryTime.Format(time.RFC3339), t.ExitTime.Format(time.RFC3339),
			fixed4(t.EntryPrice), fixed4(t.ExitPrice), money(t.Profit), pct(t.Return))
	}
	return tw.Flush()
}
