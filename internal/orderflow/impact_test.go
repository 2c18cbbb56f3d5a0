// File: internal/orderflow/impact_test.go
// ============================================
package orderflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gatiella/alpha-core/pkg/types"
)

func TestLiquidity_DepthImbalance(t *testing.T) {
	tick := types.TickSnapshot{Bid: 99.9, Ask: 100.1, LastPrice: 100, BidSize: 60, AskSize: 40}
	result := Liquidity(tick)
	assert.InDelta(t, 100.0, result.Total, 1e-9)
	assert.InDelta(t, 0.2, result.DepthImbalance, 1e-9)
}

func TestLiquidity_ZeroDepth(t *testing.T) {
	result := Liquidity(types.TickSnapshot{})
	assert.Equal(t, 0.0, result.Total)
	assert.Equal(t, 0.0, result.DepthImbalance)
}

func TestVolumeProfile_POCAtHighestVolumeBin(t *testing.T) {
	bars := []types.Bar{
		{High: 11, Low: 9, Close: 10, Volume: 10},
		{High: 11, Low: 9, Close: 10, Volume: 10},
		{High: 21, Low: 19, Close: 20, Volume: 500},
	}
	result := VolumeProfile(bars, 10)
	assert.Len(t, result.Bins, 10)
	assert.InDelta(t, 20.0, result.POC, 1.5)
}

func TestVolumeProfile_FlatRangeCollapsesToOneBin(t *testing.T) {
	bars := []types.Bar{
		{High: 10, Low: 10, Close: 10, Volume: 5},
		{High: 10, Low: 10, Close: 10, Volume: 7},
	}
	result := VolumeProfile(bars, 10)
	assert.Len(t, result.Bins, 1)
	assert.InDelta(t, 12.0, result.Bins[0].Volume, 1e-9)
}

func TestVolumeProfile_EmptyInput(t *testing.T) {
	result := VolumeProfile(nil, 10)
	assert.Nil(t, result.Bins)
}

func TestEffort_HighEffortLowResult(t *testing.T) {
	bar := types.Bar{High: 10.1, Low: 10.0, Volume: 300}
	result := Effort(bar, 1.0, 100.0)
	assert.Equal(t, EffortHighResultLow, result.Interpretation)
}

func TestEffort_LowEffortHighResult(t *testing.T) {
	bar := types.Bar{High: 12.0, Low: 10.0, Volume: 50}
	result := Effort(bar, 1.0, 100.0)
	assert.Equal(t, EffortLowResultHigh, result.Interpretation)
}

func TestEffort_ZeroAvgVolumeIsBalanced(t *testing.T) {
	result := Effort(types.Bar{High: 11, Low: 10, Volume: 50}, 1.0, 0)
	assert.Equal(t, EffortBalanced, result.Interpretation)
}

func TestComputeMarketImpact_PositiveCoefficientOnCorrelatedSeries(t *testing.T) {
	volumes := []float64{10, 20, 30, 40, 50}
	absReturns := []float64{0.01, 0.02, 0.03, 0.04, 0.05}
	spreads := []float64{0.001, 0.002, 0.001, 0.002, 0.0015}

	result := ComputeMarketImpact(volumes, absReturns, spreads)
	assert.Equal(t, 5, result.SampleSize)
	assert.Greater(t, result.Coefficient, 0.0)
	assert.InDelta(t, 0.0015, result.AvgRelativeSpread, 1e-9)
}

func TestComputeMarketImpact_TooFewSamples(t *testing.T) {
	result := ComputeMarketImpact([]float64{1}, []float64{0.01}, []float64{0.001})
	assert.Equal(t, 1, result.SampleSize)
	assert.Equal(t, 0.0, result.Coefficient)
}
