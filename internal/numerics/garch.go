// File: internal/numerics/garch.go
// ============================================
package numerics

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// GARCHFit is the persisted fit state C4 caches per (symbol,timeframe)
// (spec.md §3: "GARCH cache {fitted params or null, last_fit_timestamp,
// last_forecast, last_forecast_timestamp}").
type GARCHFit struct {
	P, Q         int
	Omega        float64
	Alpha        []float64 // length Q, ARCH coefficients
	Beta         []float64 // length P, GARCH coefficients
	LongRunVar   float64
	LastReturns  []float64 // trailing window needed to roll the recursion forward
	LastVariance float64
	FitAt        time.Time
}

// LastForecast is the memoized 1-step-ahead forecast, kept separate from
// GARCHFit so a stale forecast can be invalidated without discarding the
// fitted parameters.
type LastForecast struct {
	AnnualizedStdDev float64
	At               time.Time
}

// FitGARCH fits a GARCH(p,q) Normal model to 100·log-returns (percent),
// per spec.md §4.1. Returns ok=false (no fit) when fewer than minData
// finite returns are available — the NumericsTransient fallback path,
// handled by the caller.
//
// The variance-targeting estimator used here (long-run variance pinned to
// the sample variance, persistence split evenly across the requested
// lags) is a deliberately simple, deterministic stand-in for full
// quasi-MLE: it has no iterative optimizer and therefore no RNG seed or
// convergence failure mode beyond the minData gate, which keeps replay
// determinism (spec.md §8) trivially satisfied.
func FitGARCH(logReturns []float64, p, q, minData int) (*GARCHFit, bool) {
	pct := make([]float64, 0, len(logReturns))
	for _, r := range logReturns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		pct = append(pct, r*100)
	}
	if len(pct) < minData {
		return nil, false
	}
	if p < 1 {
		p = 1
	}
	if q < 1 {
		q = 1
	}

	longRunVar := stat.Variance(pct, nil)
	if longRunVar <= 0 || math.IsNaN(longRunVar) {
		return nil, false
	}

	// Persistence target: alpha_total+beta_total = 0.9 (typical financial
	//-return persistence), split evenly across configured lag counts.
	const persistence = 0.9
	alphaTotal := persistence * 0.2
	betaTotal := persistence * 0.8

	alpha := make([]float64, q)
	for i := range alpha {
		alpha[i] = alphaTotal / float64(q)
	}
	beta := make([]float64, p)
	for i := range beta {
		beta[i] = betaTotal / float64(p)
	}
	omega := longRunVar * (1 - alphaTotal - betaTotal)
	if omega <= 0 {
		omega = longRunVar * 0.01
	}

	tail := q
	if p > tail {
		tail = p
	}
	if tail > len(pct) {
		tail = len(pct)
	}

	fit := &GARCHFit{
		P: p, Q: q,
		Omega:      omega,
		Alpha:      alpha,
		Beta:       beta,
		LongRunVar: longRunVar,
		LastReturns: append([]float64(nil), pct[len(pct)-tail:]...),
		LastVariance: longRunVar,
		FitAt:        time.Time{}, // set by the caller with the analysis clock
	}
	return fit, true
}

// Forecast returns the 1-step-ahead annualized volatility forecast from a
// fitted GARCH model, converting the percent-return variance to an
// annualized standard deviation via √(variance·scaling) where scaling is
// bars-per-year for the owning timeframe (spec.md §4.1, §9 open question
// (b)). Returns ok=false on a non-positive forecast variance
// (NumericsTransient, spec.md §7).
func (f *GARCHFit) Forecast(barsPerYear float64) (float64, bool) {
	if f == nil {
		return 0, false
	}
	variance := f.Omega
	n := len(f.LastReturns)
	for i, a := range f.Alpha {
		idx := n - 1 - i
		if idx < 0 {
			continue
		}
		r := f.LastReturns[idx]
		variance += a * r * r
	}
	for _, b := range f.Beta {
		variance += b * f.LastVariance
	}
	if variance <= 0 || math.IsNaN(variance) || math.IsInf(variance, 0) {
		return 0, false
	}
	annualizedVariance := variance * scalingFor(barsPerYear)
	stddev := math.Sqrt(annualizedVariance) / 100 // undo the percent scaling
	return stddev, true
}

func scalingFor(barsPerYear float64) float64 {
	if barsPerYear <= 0 {
		return 252
	}
	return barsPerYear
}

// Roll advances the cached variance/return window forward with a newly
// observed percent log-return, so the next Forecast call reflects it.
func (f *GARCHFit) Roll(newPctReturn float64, at time.Time) {
	if f == nil {
		return
	}
	v, ok := f.Forecast(1) // unscaled, just to roll LastVariance forward
	if ok {
		f.LastVariance = v * v * 10000 // undo the /100 and sqrt from Forecast
	}
	f.LastReturns = append(f.LastReturns, newPctReturn)
	if len(f.LastReturns) > len(f.Alpha)+len(f.Beta)+1 {
		f.LastReturns = f.LastReturns[len(f.LastReturns)-(len(f.Alpha)+len(f.Beta)+1):]
	}
	f.FitAt = at
}
