// File: internal/numerics/cycles.go
// ============================================
package numerics

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// CycleBias names the direction the dominant cycle is currently moving,
// C3's third vote in composeFinalDirection (spec.md §4.3).
type CycleBias string

const (
	CycleBiasUp   CycleBias = "up"
	CycleBiasDown CycleBias = "down"
	CycleBiasFlat CycleBias = "flat"
)

// CycleResult is the dominant-cycle read of spec.md §4.1 ("detrend ...
// take power spectrum, report dominant period = 1/freq and its power").
// Phase/Bias derive the cycle-phase vote spec.md §4.3 folds into the
// final direction: Phase is the angle of the dominant frequency's Fourier
// coefficient (its phase at the first sample of the analysed series), and
// Bias is the sign of that component's slope at the most recent sample.
type CycleResult struct {
	PeriodBars float64
	Power      float64
	Found      bool
	Phase      float64
	Bias       CycleBias
}

// DetrendMethod selects how DominantCycle removes trend before the FFT,
// both named in spec.md §4.1 ("detrend (differencing or MA subtraction)").
type DetrendMethod int

const (
	DetrendDifference DetrendMethod = iota
	DetrendMeanSubtract
)

// DominantCycle detrends series, runs a real FFT, and reports the
// strongest non-DC frequency bin whose normalized power is at least
// threshold (default 0.1), along with that cycle's current phase bias.
func DominantCycle(series []float64, threshold float64, method DetrendMethod) CycleResult {
	n := len(series)
	if n < 16 {
		return CycleResult{}
	}

	var detrended []float64
	if method == DetrendMeanSubtract {
		detrended = meanSubtractDetrend(series)
	} else {
		detrended = differenceDetrend(series)
	}
	m := len(detrended)

	fft := fourier.NewFFT(m)
	coeffs := fft.Coefficients(nil, detrended)

	power := make([]float64, len(coeffs))
	total := 0.0
	for i, c := range coeffs {
		p := real(c)*real(c) + imag(c)*imag(c)
		power[i] = p
		total += p
	}
	if total <= 0 {
		return CycleResult{}
	}

	bestIdx := -1
	bestPower := 0.0
	// Skip the DC bin (index 0); consider only the first half (real
	// signal, spectrum is conjugate-symmetric beyond Nyquist).
	for i := 1; i < len(power)/2+1; i++ {
		normalized := power[i] / total
		if normalized > bestPower {
			bestPower = normalized
			bestIdx = i
		}
	}
	if bestIdx <= 0 || bestPower < threshold {
		return CycleResult{}
	}

	freq := float64(bestIdx) / float64(m)
	period := 1 / freq

	coeff := coeffs[bestIdx]
	phase := math.Atan2(imag(coeff), real(coeff))
	// Instantaneous angle of the dominant component at the series' most
	// recent sample; its cosine-derivative sign gives the current bias.
	instant := phase + 2*math.Pi*freq*float64(m-1)
	slope := -math.Sin(instant)
	bias := CycleBiasFlat
	switch {
	case slope > 1e-6:
		bias = CycleBiasUp
	case slope < -1e-6:
		bias = CycleBiasDown
	}

	return CycleResult{PeriodBars: period, Power: bestPower, Found: true, Phase: phase, Bias: bias}
}

// differenceDetrend removes trend by first-differencing the series.
func differenceDetrend(series []float64) []float64 {
	n := len(series)
	out := make([]float64, n-1)
	for i := 1; i < n; i++ {
		out[i-1] = series[i] - series[i-1]
	}
	return out
}

// meanSubtractDetrend is the alternative detrend path named in spec.md
// §4.1: subtract the series mean rather than difference it, for callers
// that want cycle detection on a series already stationary in levels.
func meanSubtractDetrend(series []float64) []float64 {
	mean := stat.Mean(series, nil)
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = v - mean
	}
	return out
}
