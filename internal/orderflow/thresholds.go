// File: internal/orderflow/thresholds.go
// ============================================
package orderflow

import (
	"math"
	"time"
)

// UpdateBayesianPrior folds a new observation into the running
// {mean,variance} posterior with an online update capped at `cap`
// effective observations (spec.md §3: "Bayesian prior {mean, variance}
// for delta and imbalance thresholds; observation buffer capped at N
// (default 100)"), so the prior keeps adapting rather than converging to
// a frozen estimate once N is reached.
func UpdateBayesianPrior(prior BayesianPrior, observation float64, cap int) BayesianPrior {
	if cap <= 0 {
		cap = 100
	}
	n := prior.ObservationCount
	if n < cap {
		n++
	}
	delta := observation - prior.Mean
	newMean := prior.Mean + delta/float64(n)
	delta2 := observation - newMean
	newVar := (prior.Variance*float64(n-1) + delta*delta2) / float64(n)
	if newVar < 0 || math.IsNaN(newVar) {
		newVar = 0
	}
	return BayesianPrior{Mean: newMean, Variance: newVar, ObservationCount: n}
}

// BlendThreshold combines the existing (exponentially windowed)
// threshold with the Bayesian posterior mean using
// `bayes_update_blend_factor` (default 0.8): the closer the factor is to
// 1, the more weight the existing threshold keeps against the posterior
// mean (spec.md §4.4).
func BlendThreshold(existing, posteriorMean, blendFactor float64) float64 {
	if blendFactor < 0 {
		blendFactor = 0
	}
	if blendFactor > 1 {
		blendFactor = 1
	}
	return blendFactor*existing + (1-blendFactor)*posteriorMean
}

// ScaleThresholdByVolatility scales a base delta threshold linearly with
// the ratio of the current volatility estimate (GARCH forecast if
// available, else ATR) to a historical baseline, via
// `volatility_multiplier` (spec.md §4.4).
func ScaleThresholdByVolatility(base, currentVol, baselineVol, multiplier float64) float64 {
	if baselineVol <= 0 {
		return base
	}
	ratio := currentVol / baselineVol
	scaled := base * (1 + multiplier*(ratio-1))
	if scaled < 0 {
		return 0
	}
	return scaled
}

// UpdateDynamicThresholds refreshes the slot's thresholds when at least
// `intervalSeconds` have elapsed since the last update (spec.md §4.4:
// "updated every threshold_update_interval seconds").
func UpdateDynamicThresholds(current DynamicThresholds, deltaPrior, imbalancePrior BayesianPrior, currentVol, baselineVol float64, cfg UpdateConfig, now time.Time) DynamicThresholds {
	if !current.LastUpdate.IsZero() && now.Sub(current.LastUpdate) < time.Duration(cfg.IntervalSeconds)*time.Second {
		return current
	}
	deltaBlend := BlendThreshold(current.Delta, deltaPrior.Mean, cfg.BlendFactor)
	delta := ScaleThresholdByVolatility(deltaBlend, currentVol, baselineVol, cfg.VolatilityMultiplier)
	imbalance := BlendThreshold(current.Imbalance, imbalancePrior.Mean, cfg.BlendFactor)

	return DynamicThresholds{
		Delta:      delta,
		Imbalance:  imbalance,
		Absorption: current.Absorption,
		LastUpdate: now,
		VolBasis:   currentVol,
	}
}

// UpdateConfig bundles the threshold-update knobs read from
// types.OrderFlowConfig into the plain values UpdateDynamicThresholds
// needs.
type UpdateConfig struct {
	IntervalSeconds      int
	BlendFactor          float64
	VolatilityMultiplier float64
}
