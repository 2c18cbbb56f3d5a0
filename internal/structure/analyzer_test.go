// File: internal/structure/analyzer_test.go
// ============================================
package structure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatiella/alpha-core/pkg/types"
)

func syntheticUptrend(n int) []types.Bar {
	bars := make([]types.Bar, n)
	base := time.Unix(1_600_000_000, 0).UTC()
	price := 100.0
	state := uint64(998877665544)
	for i := 0; i < n; i++ {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		noise := float64(state%101)/1000.0 - 0.05
		price += 0.05 + noise
		open := price - 0.1
		high := price + 0.2
		low := price - 0.3
		bars[i] = types.Bar{
			Symbol: "BTCUSDT", Timeframe: types.TF1Hour,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open: open, High: high, Low: low, Close: price, Volume: 100 + float64(i%7),
		}
	}
	return bars
}

func TestAnalyzer_InsufficientHistory(t *testing.T) {
	a := New(types.Default().Structure)
	result := a.Analyze("BTCUSDT", types.TF1Hour, syntheticUptrend(10), time.Now())
	assert.False(t, result.Valid)
}

func TestAnalyzer_ProducesBoundedScore(t *testing.T) {
	a := New(types.Default().Structure)
	bars := syntheticUptrend(300)
	result := a.Analyze("BTCUSDT", types.TF1Hour, bars, bars[len(bars)-1].Timestamp)
	require.True(t, result.Valid)
	assert.True(t, result.StructureScore >= 0 && result.StructureScore <= 10)
	switch result.Direction {
	case DirectionUp, DirectionDown, DirectionSideways:
	default:
		t.Fatalf("unexpected direction %q", result.Direction)
	}
}

func TestAnalyzer_IsStatefulAcrossCalls(t *testing.T) {
	a := New(types.Default().Structure)
	bars := syntheticUptrend(300)
	first := a.Analyze("ETHUSDT", types.TF1Hour, bars, bars[len(bars)-1].Timestamp)
	require.True(t, first.Valid)

	extended := append(bars, types.Bar{
		Symbol: "ETHUSDT", Timeframe: types.TF1Hour,
		Timestamp: bars[len(bars)-1].Timestamp.Add(time.Hour),
		Open: bars[len(bars)-1].Close, High: bars[len(bars)-1].Close + 1,
		Low: bars[len(bars)-1].Close - 1, Close: bars[len(bars)-1].Close + 0.5, Volume: 120,
	})
	second := a.Analyze("ETHUSDT", types.TF1Hour, extended, extended[len(extended)-1].Timestamp)
	require.True(t, second.Valid)
}
