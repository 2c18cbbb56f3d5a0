// File: internal/numerics/garch_test.go
// ============================================
package numerics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitGARCH_RefusesBelowMinData(t *testing.T) {
	returns := deterministicReturns(200)
	_, ok := FitGARCH(returns, 1, 1, 252)
	assert.False(t, ok, "scenario 4: 200 bars with min_data=252 must refuse the fit")
}

func TestFitGARCH_FitsAboveMinData(t *testing.T) {
	returns := deterministicReturns(300)
	fit, ok := FitGARCH(returns, 1, 1, 252)
	require.True(t, ok)
	require.NotNil(t, fit)
	assert.Greater(t, fit.Omega, 0.0)

	forecast, ok := fit.Forecast(TF1HourBarsPerYear)
	require.True(t, ok)
	assert.Greater(t, forecast, 0.0)
}

func deterministicReturns(n int) []float64 {
	out := make([]float64, n)
	state := uint64(2463534242)
	for i := range out {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		out[i] = (float64(state%2001)/1000.0 - 1.0) * 0.01
	}
	return out
}

const TF1HourBarsPerYear = 252 * 6.5
