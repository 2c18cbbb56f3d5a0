// File: internal/structure/fibonacci.go
// ============================================
package structure

import "math"

// fibRatios is the standard retracement ladder used to project levels
// between a swing high and swing low.
var fibRatios = []float64{0.236, 0.382, 0.5, 0.618, 0.786}

// FibLevels projects the retracement ladder between a swing low and
// swing high.
func FibLevels(swingLow, swingHigh float64) []float64 {
	levels := make([]float64, len(fibRatios))
	span := swingHigh - swingLow
	for i, r := range fibRatios {
		levels[i] = swingHigh - span*r
	}
	return levels
}

// ActiveFibLevel returns the retracement level nearest the current price
// within a small tolerance band (ATR-scaled), or nil if none is close
// enough to be "active".
func ActiveFibLevel(swingLow, swingHigh, price, atr float64) *float64 {
	if swingHigh <= swingLow || atr <= 0 {
		return nil
	}
	levels := FibLevels(swingLow, swingHigh)
	var best *float64
	bestDist := math.MaxFloat64
	for _, l := range levels {
		dist := math.Abs(price - l)
		if dist < bestDist {
			bestDist = dist
			lv := l
			best = &lv
		}
	}
	if bestDist > 0.5*atr {
		return nil
	}
	return best
}

// HarmonicPattern is a coarse AB=CD read: whether the most recent leg
// (C→D) approximately mirrors the prior opposing leg (A→B) in magnitude,
// within `tolerance` fraction.
func HarmonicPattern(a, b, c, d, tolerance float64) string {
	ab := math.Abs(b - a)
	cd := math.Abs(d - c)
	if ab <= 0 {
		return "none"
	}
	ratio := cd / ab
	if math.Abs(ratio-1) <= tolerance {
		return "ABCD"
	}
	if math.Abs(ratio-0.618) <= tolerance {
		return "gartley"
	}
	return "none"
}
