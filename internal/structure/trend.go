// File: internal/structure/trend.go
// ============================================
package structure

import "github.com/gatiella/alpha-core/internal/numerics"

// TrendResult carries the composed direction and a normalized strength in
// [0,1], the same voting shape as the teacher's DetectTrend.
type TrendResult struct {
	Direction Direction
	Strength  float64
}

// ComposeTrend votes alligator alignment, triplet slope, and close-vs-MA
// position into a single direction + strength (spec.md §4.3: "composed
// of alligator alignment + slope of the triplet + close-vs-MAs").
func ComposeTrend(closes []float64, lines AlligatorLines, state AlligatorState) TrendResult {
	if len(closes) == 0 {
		return TrendResult{Direction: DirectionSideways, Strength: 0.5}
	}
	bullish, bearish, total := 0.0, 0.0, 0.0

	// Alligator alignment (weight 2).
	switch state {
	case AlligatorFeedingUp:
		bullish += 2
	case AlligatorFeedingDown:
		bearish += 2
	default:
		bullish += 1
		bearish += 1
	}
	total += 2

	// Triplet slope (weight 1).
	if lines.Slope() > 0 {
		bullish++
	} else {
		bearish++
	}
	total++

	// Close vs. the teeth line (weight 1).
	close := closes[len(closes)-1]
	if close > lines.Teeth {
		bullish++
	} else {
		bearish++
	}
	total++

	if total == 0 {
		return TrendResult{Direction: DirectionSideways, Strength: 0.5}
	}
	strength := bullish / total
	switch {
	case strength > 0.65:
		return TrendResult{Direction: DirectionUp, Strength: strength}
	case strength < 0.35:
		return TrendResult{Direction: DirectionDown, Strength: 1 - strength}
	default:
		return TrendResult{Direction: DirectionSideways, Strength: 0.5}
	}
}

// hurstBias maps a Hurst interpretation onto a directional nudge used by
// the regime-tag computation below.
func hurstBias(h numerics.HurstResult) string {
	switch h.Interpretation {
	case numerics.HurstTrending:
		return "trending"
	case numerics.HurstMeanReverting:
		return "mean_reverting"
	default:
		return "random"
	}
}

// Regime combines trend strength and Hurst interpretation into the
// regime tag reported alongside direction (extends the teacher's
// DetectMarketRegime volatility/consistency voting with the numerics
// kernel's Hurst read instead of a bespoke consistency count).
func Regime(trend TrendResult, hurst numerics.HurstResult, hurstOK bool, atrRatio float64) string {
	if atrRatio > 0.05 {
		return "volatile"
	}
	if !hurstOK {
		if trend.Direction == DirectionSideways {
			return "ranging"
		}
		return "trending"
	}
	switch hurstBias(hurst) {
	case "trending":
		return "trending"
	case "mean_reverting":
		return "ranging"
	default:
		return "transitioning"
	}
}
