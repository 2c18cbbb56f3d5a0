// File: internal/numerics/rolling.go
// ============================================
package numerics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// LogReturns converts a close-price series to log-returns, one shorter
// than the input; the first bar of any series has no defined return.
func LogReturns(closes []float64) []float64 {
	n := len(closes)
	if n < 2 {
		return nil
	}
	out := make([]float64, n-1)
	for i := 1; i < n; i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			out[i-1] = 0
			continue
		}
		out[i-1] = math.Log(closes[i] / closes[i-1])
	}
	return out
}

// RollingMean returns the simple mean of the trailing `window` points.
func RollingMean(series []float64, window int) (float64, bool) {
	if window <= 0 || len(series) < window {
		return 0, false
	}
	return stat.Mean(series[len(series)-window:], nil), true
}

// RollingStdDev returns the sample standard deviation of the trailing
// `window` points.
func RollingStdDev(series []float64, window int) (float64, bool) {
	if window <= 0 || len(series) < window {
		return 0, false
	}
	return stat.StdDev(series[len(series)-window:], nil), true
}

// RollingCorrelation returns the Pearson correlation of the trailing
// `window` points of two equal-length series, used by the risk
// evaluator's correlation-exposure adjustment.
func RollingCorrelation(a, b []float64, window int) (float64, bool) {
	if window <= 0 || len(a) < window || len(b) < window {
		return 0, false
	}
	x := a[len(a)-window:]
	y := b[len(b)-window:]
	c := stat.Correlation(x, y, nil)
	if math.IsNaN(c) {
		return 0, false
	}
	return c, true
}

// ZScore standardizes the last value of series against the trailing
// window's mean/stddev, used by delta-strength normalization (spec.md
// §4.4: "strength = |cumulative_delta| normalized by its historical
// std").
func ZScore(series []float64, window int) (float64, bool) {
	mean, ok := RollingMean(series, window)
	if !ok {
		return 0, false
	}
	sd, ok := RollingStdDev(series, window)
	if !ok || sd <= 0 {
		return 0, false
	}
	last := series[len(series)-1]
	return (last - mean) / sd, true
}
