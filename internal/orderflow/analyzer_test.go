// File: internal/orderflow/analyzer_test.go
// ============================================
package orderflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatiella/alpha-core/pkg/types"
)

func syntheticBars(n int) []types.Bar {
	bars := make([]types.Bar, n)
	base := time.Unix(1_600_000_000, 0).UTC()
	price := 100.0
	state := uint64(11223344556677)
	for i := 0; i < n; i++ {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		noise := float64(state%201)/1000.0 - 0.1
		price += noise
		bars[i] = types.Bar{
			Symbol: "BTCUSDT", Timeframe: types.TF1Hour,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open: price - 0.2, High: price + 0.3, Low: price - 0.3, Close: price,
			Volume: 80 + float64(i%10)*5,
		}
	}
	return bars
}

func TestAnalyzer_InsufficientHistory(t *testing.T) {
	cfg := types.Default()
	a := New(cfg.Numerics, cfg.OrderFlow)
	tick := types.TickSnapshot{Bid: 99.9, Ask: 100.1, LastPrice: 100}
	result := a.Analyze("BTCUSDT", types.TF1Hour, syntheticBars(5), tick, types.InventoryModel{}, time.Now())
	assert.False(t, result.Valid)
}

func TestAnalyzer_ProducesBoundedFlowScore(t *testing.T) {
	cfg := types.Default()
	a := New(cfg.Numerics, cfg.OrderFlow)
	bars := syntheticBars(260)
	tick := types.TickSnapshot{Bid: bars[len(bars)-1].Close - 0.1, Ask: bars[len(bars)-1].Close + 0.1, LastPrice: bars[len(bars)-1].Close, BidSize: 60, AskSize: 40}
	inv := types.InventoryModel{NeutralLevel: 0, Position: 0, MaxPosition: 1, MeanReversionRate: 0.1}

	result := a.Analyze("BTCUSDT", types.TF1Hour, bars, tick, inv, bars[len(bars)-1].Timestamp)
	require.True(t, result.Valid)
	assert.True(t, result.FlowScore >= 0 && result.FlowScore <= 10)
}

func TestAnalyzer_RejectsInvalidTick(t *testing.T) {
	cfg := types.Default()
	a := New(cfg.Numerics, cfg.OrderFlow)
	bars := syntheticBars(260)
	badTick := types.TickSnapshot{Bid: 101, Ask: 100}
	result := a.Analyze("BTCUSDT", types.TF1Hour, bars, badTick, types.InventoryModel{}, time.Now())
	assert.False(t, result.Valid)
}
