// File: internal/risk/evaluator_test.go
// ============================================
package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatiella/alpha-core/pkg/types"
)

func buySignal() types.Trade {
	return types.Trade{
		Symbol:             "BTCUSDT",
		Action:             types.SideBuy,
		Entry:              100,
		StopLoss:           98,
		TakeProfit:          106,
		Score:              8,
		ConfidenceModifier: 1.0,
	}
}

func TestEvaluate_RollingDrawdownBlock(t *testing.T) {
	cfg := types.Default().Risk
	cfg.DynamicRiskEnabled = false
	e := New(cfg, 100000)
	now := time.Now().UTC()

	account := AccountStatus{Equity: 96500, Balance: 96500}
	result := e.Evaluate(buySignal(), account, now)
	require.True(t, result.Accepted, "drawdown 0.035 should still be under the 0.04 cap")

	lossAccount := AccountStatus{Equity: 95900, Balance: 95900}
	result = e.Evaluate(buySignal(), lossAccount, now)
	assert.False(t, result.Accepted)
	assert.Equal(t, "Max Rolling Drawdown breached", result.Reason)
}

func TestEvaluate_KellyDisabledBelowHistory(t *testing.T) {
	cfg := types.Default().Risk
	cfg.UseKellySizing = true
	cfg.MinTradesForKelly = 50
	cfg.MaxTradesPerDay = 1000
	cfg.MaxConsecutiveLosses = 1000
	e := New(cfg, 100000)
	now := time.Now().UTC()

	for i := 0; i < 30; i++ {
		e.RecordTradeClose(types.TradeResult{Symbol: "BTCUSDT", PnL: 100, Success: true, ClosedAt: now})
	}

	account := AccountStatus{Equity: 103000, Balance: 103000}
	result := e.Evaluate(buySignal(), account, now.Add(16*time.Minute))
	require.True(t, result.Accepted)
	assert.Equal(t, SizingFixedFractional, result.SizingMethod)
}

func TestEvaluate_KellyAppliesOnceHistoryMet(t *testing.T) {
	cfg := types.Default().Risk
	cfg.UseKellySizing = true
	cfg.MinTradesForKelly = 10
	cfg.MaxTradesPerDay = 1000
	cfg.MaxConsecutiveLosses = 1000
	e := New(cfg, 100000)
	now := time.Now().UTC()

	for i := 0; i < 8; i++ {
		e.RecordTradeClose(types.TradeResult{Symbol: "BTCUSDT", PnL: 200, Success: true, ClosedAt: now})
	}
	for i := 0; i < 2; i++ {
		e.RecordTradeClose(types.TradeResult{Symbol: "BTCUSDT", PnL: -100, Success: false, ClosedAt: now})
	}

	account := AccountStatus{Equity: 101400, Balance: 101400}
	result := e.Evaluate(buySignal(), account, now.Add(31*time.Minute))
	require.True(t, result.Accepted)
	assert.Equal(t, SizingKelly, result.SizingMethod)
}

func TestEvaluate_CooldownAfterLossBlocksSymbol(t *testing.T) {
	cfg := types.Default().Risk
	cfg.TradeCooldownMinutes = 15
	cfg.LossCooldownMultiplier = 2.0
	e := New(cfg, 100000)
	now := time.Now().UTC()

	e.RecordTradeClose(types.TradeResult{Symbol: "BTCUSDT", PnL: -50, Success: false, ClosedAt: now})

	account := AccountStatus{Equity: 99950, Balance: 99950}
	result := e.Evaluate(buySignal(), account, now.Add(10*time.Minute))
	assert.False(t, result.Accepted)
	assert.Contains(t, result.Reason, "cooldown")

	result = e.Evaluate(buySignal(), account, now.Add(31*time.Minute))
	assert.True(t, result.Accepted)
}

func TestEvaluate_MaxConsecutiveLossesBlocks(t *testing.T) {
	cfg := types.Default().Risk
	cfg.MaxConsecutiveLosses = 3
	cfg.MaxTradesPerDay = 1000
	e := New(cfg, 100000)
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		e.RecordTradeClose(types.TradeResult{Symbol: "ETHUSDT", PnL: -10, Success: false, ClosedAt: now})
	}

	account := AccountStatus{Equity: 99970, Balance: 99970}
	result := e.Evaluate(buySignal(), account, now)
	assert.False(t, result.Accepted)
	assert.Contains(t, result.Reason, "consecutive losses")
}

func TestEvaluate_VolumeRoundsToStepAndClampsToMinimum(t *testing.T) {
	cfg := types.Default().Risk
	cfg.VolumeStep = 0.01
	cfg.MinVolume = 0.01
	cfg.PipValue = 1.0
	cfg.DynamicRiskEnabled = false
	e := New(cfg, 100000)

	account := AccountStatus{Equity: 100000, Balance: 100000}
	result := e.Evaluate(buySignal(), account, time.Now().UTC())
	require.True(t, result.Accepted)
	assert.InDelta(t, result.Volume, float64(int64(result.Volume/0.01))*0.01, 1e-9)

	// A balance this small sizes below one step; the volume is raised to
	// MinVolume rather than rejected.
	small := New(cfg, 0.5)
	result = small.Evaluate(buySignal(), AccountStatus{Equity: 0.5, Balance: 0.5}, time.Now().UTC())
	require.True(t, result.Accepted)
	assert.InDelta(t, 0.01, result.Volume, 1e-9)
}
