// File: internal/numerics/divergence_test.go
// ============================================
package numerics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogram_NormalizationLaw(t *testing.T) {
	data := []float64{1, 2, 2, 3, 4, 5, 5, 5, 6, 7}
	counts := Histogram(data, 10, 1, 8)
	require.NotNil(t, counts)
	norm := Normalize(counts)

	sum := 0.0
	for _, p := range norm {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestHistogram_EmptySeries(t *testing.T) {
	counts := Histogram(nil, 10, 0, 1)
	assert.Nil(t, counts)
}

func TestHistogram_OverflowGoesToLastBin(t *testing.T) {
	counts := Histogram([]float64{0, 1, 10, 10}, 5, 0, 10)
	require.Len(t, counts, 5)
	assert.Equal(t, 2.0, counts[4])
}

func TestJSD_SelfDistanceIsZero(t *testing.T) {
	p := Normalize([]float64{1, 2, 3, 4})
	assert.InDelta(t, 0.0, JSD(p, p), 1e-9)
}

func TestJSD_Symmetric(t *testing.T) {
	p := Normalize([]float64{1, 2, 3, 4})
	q := Normalize([]float64{4, 3, 2, 1})
	assert.InDelta(t, JSD(p, q), JSD(q, p), 1e-9)
}

func TestJSD_Bounded(t *testing.T) {
	p := Normalize([]float64{1, 0, 0, 0})
	q := Normalize([]float64{0, 0, 0, 1})
	d := JSD(p, q)
	assert.True(t, d >= 0 && d <= 1)
}

func TestFlowDivergence_Bands(t *testing.T) {
	baseline := make([]float64, 200)
	for i := range baseline {
		baseline[i] = math.Mod(float64(i), 10) - 5
	}
	recent := append([]float64(nil), baseline[:50]...)

	result := FlowDivergence(recent, baseline, 10, 0.1)
	assert.Equal(t, DivergenceNormal, result.Interpretation)

	skewedRecent := make([]float64, 50)
	for i := range skewedRecent {
		skewedRecent[i] = 4.9
	}
	result2 := FlowDivergence(skewedRecent, baseline, 10, 0.1)
	assert.NotEqual(t, DivergenceNormal, result2.Interpretation)
}
