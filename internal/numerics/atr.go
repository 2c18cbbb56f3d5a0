// File: internal/numerics/atr.go
// ============================================
package numerics

import "math"

// epsilon is the floor applied to any volatility-like output so that
// downstream divisions (SL distance, position sizing) never see a zero.
const epsilon = 1e-8

// TrueRange returns the true range of a single bar against the prior
// close: max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(high, low, prevClose float64) float64 {
	hl := high - low
	hc := math.Abs(high - prevClose)
	lc := math.Abs(low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}

// ATRSeries computes Wilder-smoothed Average True Range over highs/lows/
// closes of equal length, aligned 1:1 with the input (spec.md §4.1:
// "bfill leading NaNs; floor to a small positive ε"). The first `period`
// entries, which have no prior smoothed value to seed from, are
// back-filled with the first computable ATR.
func ATRSeries(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	if n == 0 || period <= 0 {
		return out
	}
	if n < period+1 {
		for i := range out {
			out[i] = epsilon
		}
		return out
	}

	tr := make([]float64, n)
	tr[0] = highs[0] - lows[0]
	for i := 1; i < n; i++ {
		tr[i] = TrueRange(highs[i], lows[i], closes[i-1])
	}

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	atr := sum / float64(period)

	firstIdx := period
	out[firstIdx] = floor(atr)
	for i := period + 1; i < n; i++ {
		atr = (atr*float64(period-1) + tr[i]) / float64(period)
		out[i] = floor(atr)
	}
	for i := 0; i < firstIdx; i++ {
		out[i] = out[firstIdx]
	}
	return out
}

// ATR returns the current (last) Wilder-smoothed ATR value.
func ATR(highs, lows, closes []float64, period int) float64 {
	series := ATRSeries(highs, lows, closes, period)
	if len(series) == 0 {
		return epsilon
	}
	return series[len(series)-1]
}

func floor(v float64) float64 {
	if math.IsNaN(v) || v < epsilon {
		return epsilon
	}
	return v
}
