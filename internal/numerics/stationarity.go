// File: internal/numerics/stationarity.go
// ============================================
package numerics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// StationarityResult carries both tests' outcomes (spec.md §4.1:
// "ADF and KPSS on close; interpret p-values against threshold").
type StationarityResult struct {
	ADFStatistic  float64
	ADFPValue     float64
	KPSSStatistic float64
	KPSSPValue    float64
	IsStationary  bool
}

// adfCriticalValues and kpssCriticalValues are the standard asymptotic
// critical values for the no-trend, constant-only specification, used to
// linearly interpolate an approximate p-value (spec.md does not require
// exact MacKinnon/KPSS tables, only "interpret p-values against
// threshold").
var adfCriticalValues = []struct {
	stat, p float64
}{
	{-3.43, 0.01}, {-2.86, 0.05}, {-2.57, 0.10}, {-1.0, 0.60}, {0.0, 0.90}, {2.0, 0.99},
}

var kpssCriticalValues = []struct {
	stat, p float64
}{
	{0.0, 0.99}, {0.347, 0.10}, {0.463, 0.05}, {0.574, 0.025}, {0.739, 0.01}, {2.0, 0.001},
}

// Stationarity runs ADF and KPSS against the closing-price series,
// null-safe with a minimum of 20 points (spec.md §4.1).
func Stationarity(closes []float64, pValueThreshold float64, minPoints int) (StationarityResult, bool) {
	if minPoints < 20 {
		minPoints = 20
	}
	if len(closes) < minPoints {
		return StationarityResult{}, false
	}

	adfStat := adfStatistic(closes)
	adfP := interpolateP(adfCriticalValues, adfStat)

	kpssStat := kpssStatistic(closes)
	kpssP := interpolateP(kpssCriticalValues, kpssStat)

	// ADF null is "has a unit root" (non-stationary): reject null (p <
	// threshold) => stationary. KPSS null is "is stationary": reject null
	// (p < threshold) => non-stationary. Declare stationary only when the
	// two tests agree.
	adfStationary := adfP < pValueThreshold
	kpssStationary := kpssP >= pValueThreshold

	return StationarityResult{
		ADFStatistic:  adfStat,
		ADFPValue:     adfP,
		KPSSStatistic: kpssStat,
		KPSSPValue:    kpssP,
		IsStationary:  adfStationary && kpssStationary,
	}, true
}

// adfStatistic computes the Dickey-Fuller t-statistic for the regression
// Δy_t = c + γ·y_{t-1} + ε_t, testing γ=0 against γ<0.
func adfStatistic(y []float64) float64 {
	n := len(y)
	if n < 3 {
		return 0
	}
	lagged := y[:n-1]
	diffs := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diffs[i-1] = y[i] - y[i-1]
	}

	alpha, beta := stat.LinearRegression(lagged, diffs, nil, false)
	resid := make([]float64, len(diffs))
	for i := range diffs {
		fitted := alpha + beta*lagged[i]
		resid[i] = diffs[i] - fitted
	}
	se := standardErrorOfSlope(lagged, resid)
	if se == 0 {
		return 0
	}
	return beta / se
}

// kpssStatistic computes the KPSS LM statistic for level stationarity
// (constant-only specification, no trend term).
func kpssStatistic(y []float64) float64 {
	n := len(y)
	if n < 2 {
		return 0
	}
	mean := stat.Mean(y, nil)
	resid := make([]float64, n)
	for i, v := range y {
		resid[i] = v - mean
	}

	cumSum := 0.0
	sumSq := 0.0
	for _, r := range resid {
		cumSum += r
		sumSq += cumSum * cumSum
	}

	lrVar := stat.Variance(resid, nil)
	if lrVar <= 0 {
		return 0
	}
	return sumSq / (float64(n) * float64(n) * lrVar)
}

func standardErrorOfSlope(x, resid []float64) float64 {
	n := len(x)
	if n < 3 {
		return 0
	}
	meanX := stat.Mean(x, nil)
	ssx := 0.0
	for _, xi := range x {
		ssx += (xi - meanX) * (xi - meanX)
	}
	if ssx == 0 {
		return 0
	}
	rss := 0.0
	for _, r := range resid {
		rss += r * r
	}
	sigma2 := rss / float64(n-2)
	return math.Sqrt(sigma2 / ssx)
}

func interpolateP(table []struct{ stat, p float64 }, statistic float64) float64 {
	if statistic <= table[0].stat {
		return table[0].p
	}
	last := table[len(table)-1]
	if statistic >= last.stat {
		return last.p
	}
	for i := 1; i < len(table); i++ {
		a, b := table[i-1], table[i]
		if statistic >= a.stat && statistic <= b.stat {
			frac := (statistic - a.stat) / (b.stat - a.stat)
			return a.p + frac*(b.p-a.p)
		}
	}
	return 0.5
}
