// File: internal/orderflow/delta.go
// ============================================
package orderflow

import (
	"math"

	"github.com/gatiella/alpha-core/internal/numerics"
	"github.com/gatiella/alpha-core/pkg/types"
)

// DeltaResult is the signed-delta read of spec.md §4.4: "sign of bar's
// close-open weighted by volume; consistency = fraction of recent bars
// agreeing; strength = |cumulative_delta| normalized by its historical
// std".
type DeltaResult struct {
	Value       float64
	Consistency float64
	Strength    float64
}

// BarDelta is a single bar's signed, volume-weighted delta.
func BarDelta(b types.Bar) float64 {
	sign := 1.0
	if b.Close < b.Open {
		sign = -1.0
	} else if b.Close == b.Open {
		sign = 0
	}
	return sign * b.Volume
}

// Delta computes the current delta read over a trailing window of bars.
func Delta(bars []types.Bar, window int) DeltaResult {
	if len(bars) == 0 {
		return DeltaResult{}
	}
	if window > len(bars) {
		window = len(bars)
	}
	recent := bars[len(bars)-window:]

	deltas := make([]float64, len(recent))
	cumulative := 0.0
	agree := 0
	currentSign := sign(BarDelta(recent[len(recent)-1]))
	for i, b := range recent {
		d := BarDelta(b)
		deltas[i] = d
		cumulative += d
		if sign(d) == currentSign && currentSign != 0 {
			agree++
		}
	}
	consistency := float64(agree) / float64(len(recent))

	strength := 0.0
	if sd, ok := rollingStdDevOf(deltas); ok && sd > 0 {
		strength = math.Abs(cumulative) / sd
		if strength > 1 {
			strength = 1
		}
	}
	return DeltaResult{Value: cumulative, Consistency: consistency, Strength: strength}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func rollingStdDevOf(series []float64) (float64, bool) {
	return numerics.RollingStdDev(series, len(series))
}

// BidAskImbalance computes (bid_size-ask_size)/(bid_size+ask_size); the
// caller compares |value| against the slot's dynamic imbalance threshold
// to decide significance (spec.md §4.4).
func BidAskImbalance(tick types.TickSnapshot) float64 {
	total := tick.BidSize + tick.AskSize
	if total <= 0 {
		return 0
	}
	return (tick.BidSize - tick.AskSize) / total
}

// Absorption reports high volume confined to a small price range,
// direction inferred from close-vs-mid (spec.md §4.4: "range/ATR < 0.5,
// volume > absorption_ratio · avg_volume").
func Absorption(bar types.Bar, atr, avgVolume, absorptionRatio float64) (present bool, direction Direction) {
	if atr <= 0 || avgVolume <= 0 {
		return false, DirectionNeutral
	}
	rangeBar := bar.High - bar.Low
	if rangeBar/atr >= 0.5 {
		return false, DirectionNeutral
	}
	if bar.Volume <= absorptionRatio*avgVolume {
		return false, DirectionNeutral
	}
	mid := (bar.High + bar.Low) / 2
	if bar.Close > mid {
		return true, DirectionUp
	}
	if bar.Close < mid {
		return true, DirectionDown
	}
	return true, DirectionNeutral
}
