// File: internal/numerics/hurst.go
// ============================================
package numerics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// HurstInterpretation is the three-way regime read spec.md §4.1 attaches
// to a fitted Hurst exponent.
type HurstInterpretation string

const (
	HurstTrending     HurstInterpretation = "trending"
	HurstMeanReverting HurstInterpretation = "mean_reverting"
	HurstRandom       HurstInterpretation = "random"
)

// HurstResult carries the fitted exponent and its interpretation.
type HurstResult struct {
	Value          float64
	Interpretation HurstInterpretation
}

// Hurst estimates the Hurst exponent of series via classical rescaled-
// range (R/S) analysis of the increments of the trailing `window` points
// (spec.md §4.1: "R/S analysis over a window ≥100 bars"), so a random
// walk of levels reads H ≈ 0.5. Returns !ok when fewer than `window`
// points are available.
func Hurst(series []float64, window int, up, down float64) (HurstResult, bool) {
	if window < 100 || len(series) < window {
		return HurstResult{}, false
	}
	data := series[len(series)-window:]
	incs := make([]float64, len(data)-1)
	for i := 1; i < len(data); i++ {
		incs[i-1] = data[i] - data[i-1]
	}

	// Candidate chunk sizes: each size is cut into as many whole chunks
	// of the increments as fit (any remainder is dropped), keeping at
	// least two chunks, classical R/S construction.
	var logN, logRS []float64
	for _, n := range chunkSizes(window) {
		chunks := len(incs) / n
		if chunks < 2 {
			continue
		}
		rsValues := make([]float64, 0, chunks)
		for c := 0; c < chunks; c++ {
			seg := incs[c*n : (c+1)*n]
			rs := rescaledRange(seg)
			if rs > 0 {
				rsValues = append(rsValues, rs)
			}
		}
		if len(rsValues) == 0 {
			continue
		}
		avgRS := stat.Mean(rsValues, nil)
		if avgRS <= 0 {
			continue
		}
		logN = append(logN, math.Log(float64(n)))
		logRS = append(logRS, math.Log(avgRS))
	}

	if len(logN) < 2 {
		return HurstResult{}, false
	}

	_, slope := stat.LinearRegression(logN, logRS, nil, false)
	h := slope

	interp := HurstRandom
	switch {
	case h > up:
		interp = HurstTrending
	case h < down:
		interp = HurstMeanReverting
	}
	return HurstResult{Value: h, Interpretation: interp}, true
}

// rescaledRange computes R/S for a single segment: range of the mean-
// adjusted cumulative sum, divided by the segment's standard deviation.
func rescaledRange(seg []float64) float64 {
	n := len(seg)
	if n < 2 {
		return 0
	}
	mean := stat.Mean(seg, nil)
	cum := 0.0
	maxDev, minDev := 0.0, 0.0
	for i, v := range seg {
		cum += v - mean
		if i == 0 || cum > maxDev {
			maxDev = cum
		}
		if i == 0 || cum < minDev {
			minDev = cum
		}
	}
	r := maxDev - minDev
	s := stat.StdDev(seg, nil)
	if s <= 0 {
		return 0
	}
	return r / s
}

// chunkSizes returns a small geometric ladder of chunk sizes (8, 16,
// 32, ... up to half the window), smallest first.
func chunkSizes(window int) []int {
	var sizes []int
	for n := 8; n <= window/2; n *= 2 {
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		sizes = append(sizes, window/2)
	}
	return sizes
}
