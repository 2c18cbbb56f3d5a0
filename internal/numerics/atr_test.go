// File: internal/numerics/atr_test.go
// ============================================
package numerics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestATRSeries_BackfillsLeadingBars(t *testing.T) {
	highs := []float64{10, 11, 10.5, 11.5, 12, 11.8, 12.2, 12.5, 13, 13.2, 13.5, 13.8, 14, 14.2, 14.5, 14.8}
	lows := []float64{9.5, 10.2, 9.8, 10.8, 11.2, 11.0, 11.5, 11.8, 12.2, 12.5, 12.8, 13.0, 13.2, 13.5, 13.8, 14.0}
	closes := []float64{9.8, 10.8, 10.0, 11.2, 11.8, 11.4, 12.0, 12.2, 12.8, 13.0, 13.2, 13.5, 13.8, 14.0, 14.2, 14.5}

	series := ATRSeries(highs, lows, closes, 14)
	assert.Len(t, series, len(closes))
	assert.Equal(t, series[0], series[14])
	for _, v := range series {
		assert.True(t, v >= epsilon)
	}
}

func TestATRSeries_ShortInputFloorsToEpsilon(t *testing.T) {
	series := ATRSeries([]float64{1, 2}, []float64{0.5, 1}, []float64{0.8, 1.5}, 14)
	for _, v := range series {
		assert.Equal(t, epsilon, v)
	}
}

func TestTrueRange(t *testing.T) {
	tr := TrueRange(12, 10, 11)
	assert.Equal(t, 2.0, tr)
	tr2 := TrueRange(12, 11.5, 9)
	assert.Equal(t, 3.0, tr2)
}
