package notifier

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SMASentinel/internal/backtest"
	"SMASentinel/internal/model"
)

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		LastTime:   time.Date(2025, 11, 28, 10, 30, 0, 0, time.UTC),
		LastPrice:  110,
		SMA20:      100.5,
		SMA50:      100.2,
		PrevSMA20:  100,
		PrevSMA50:  100,
		Suggestion: model.SuggestionBuy,
		Reason:     "Golden Cross + SMA50 rising + price above SMA20 & SMA50",
		Rule:       "golden_cross",
		Signals: model.Signals{
			Crossover: model.CrossoverGolden,
			Bias:      model.BiasLong,
			Breakout:  model.BreakoutUp,
			Pullback:  model.PullbackNone,
		},
	}
}

func TestFormatReport_FieldOrderAndPrecision(t *testing.T) {
	out := FormatReport(sampleResult())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)

	assert.Equal(t, "Last timestamp: 2025-11-28T10:30:00Z", lines[0])
	assert.Equal(t, "Last price:     110.0000", lines[1])
	assert.Equal(t, "SMA(20):        100.5000", lines[2])
	assert.Equal(t, "SMA(50):        100.2000", lines[3])
	assert.Equal(t, "Prev SMA(20):   100.0000", lines[4])
	assert.Equal(t, "Prev SMA(50):   100.0000", lines[5])
	assert.Equal(t, "Suggestion:     BUY", lines[6])
	assert.True(t, strings.HasPrefix(lines[7], "Reason:         Golden Cross"))
}

func TestFormatSignals(t *testing.T) {
	out := FormatSignals(sampleResult())
	assert.Contains(t, out, "golden_cross")
	assert.Contains(t, out, "GOLDEN")
	assert.Contains(t, out, "LONG")
}

func TestFormatSignals_Filters(t *testing.T) {
	res := sampleResult()
	assert.NotContains(t, FormatSignals(res), "Gate:")

	res.Signals.ATRPercent = 0.0125
	res.Signals.ATRFloor = 0.02
	res.Signals.Regime = model.RegimeSideways
	res.Signals.Gate = model.Gate{BlockBuy: true, BlockSell: true, Cause: "atr+regime"}

	out := FormatSignals(res)
	assert.Contains(t, out, "ATR%:           1.25% (floor 2.00%)\n")
	assert.Contains(t, out, "Regime:         SIDEWAYS\n")
	assert.Contains(t, out, "Gate:           atr+regime (buy blocked: true, sell blocked: true)\n")
}

func TestFormatLoadSummary(t *testing.T) {
	assert.Equal(t, "Loaded 120 raw points, 60 1h candles after resampling.", FormatLoadSummary(120, 60, 1))
	assert.Equal(t, "Loaded 120 points (no resampling).", FormatLoadSummary(120, 120, 0))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "BUY", got["suggestion"])
	assert.Equal(t, "100.5", got["sma20"])
	assert.Equal(t, "GOLDEN", got["crossover"])
	assert.Equal(t, "2025-11-28T10:30:00Z", got["last_timestamp"])
}

func TestWriteJSON_Gate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))
	assert.NotContains(t, buf.String(), "gate")

	res := sampleResult()
	res.Signals.Regime = model.RegimeTrendingDown
	res.Signals.Gate = model.Gate{BlockBuy: true, Cause: "regime"}
	buf.Reset()
	require.NoError(t, WriteJSON(&buf, res))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "TRENDING_DOWN", got["regime"])
	assert.Equal(t, map[string]any{"block_buy": true, "block_sell": false, "cause": "regime"}, got["gate"])
}

func TestWriteBacktest(t *testing.T) {
	entry := time.Date(2025, 11, 1, 4, 0, 0, 0, time.UTC)
	res := &backtest.Result{
		InitialEquity:    1000,
		FinalEquity:      1080,
		TotalReturn:      0.08,
		BuyAndHoldReturn: -0.3,
		MaxDrawdown:      0.25,
		WinRate:          1,
		Trades: []backtest.Trade{{
			EntryTime: entry, ExitTime: entry.Add(time.Hour),
			EntryPrice: 50, ExitPrice: 60, Profit: 180, Return: 0.2,
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBacktest(&buf, res))
	out := buf.String()
	assert.Contains(t, out, "Initial equity:   1000.00\n")
	assert.Contains(t, out, "Final equity:     1080.00\n")
	assert.Contains(t, out, "Total return:     8.00%\n")
	assert.Contains(t, out, "Buy and hold:     -30.00%\n")
	assert.Contains(t, out, "Max drawdown:     25.00%\n")
	assert.Contains(t, out, "Trades:           1\n")
	assert.Contains(t, out, "Win rate:         100.00%\n")
	assert.NotContains(t, out, "Position:")
	assert.Contains(t, out, "2025-11-01T04:00:00Z")
	assert.Contains(t, out, "180.00")
	assert.Contains(t, out, "20.00%")
}

func TestWriteHistory(t *testing.T) {
	hold := sampleResult()
	hold.Suggestion = model.SuggestionHold
	hold.Rule = "no_edge"

	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, []*model.AnalysisResult{sampleResult(), hold}))
	out := buf.String()

	assert.Contains(t, out, "TIMESTAMP")
	assert.Contains(t, out, "golden_cross")
	assert.Contains(t, out, "2 bars: BUY=1 SELL=0 HOLD / LONG BIAS=0 HOLD / SHORT BIAS=0 HOLD=1")
}
