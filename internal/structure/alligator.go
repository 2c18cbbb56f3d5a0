// File: internal/structure/alligator.go
// ============================================
package structure

import "math"

// AlligatorLines is the triplet of shifted moving averages (default
// periods 13/8/5, shifts 8/5/3, spec.md §4.3).
type AlligatorLines struct {
	Jaw, Teeth, Lips float64
	PrevJaw, PrevTeeth, PrevLips float64
}

// smaShiftedAt returns the simple moving average of `period` median
// prices ending `shift` bars before the series end — the "shift forward"
// construction of the Alligator indicator.
func smaShiftedAt(median []float64, period, shift int) (float64, bool) {
	n := len(median)
	end := n - shift
	if end < period || end <= 0 {
		return 0, false
	}
	sum := 0.0
	for i := end - period; i < end; i++ {
		sum += median[i]
	}
	return sum / float64(period), true
}

// MedianPrices computes (high+low)/2 for each bar.
func MedianPrices(highs, lows []float64) []float64 {
	n := len(highs)
	out := make([]float64, n)
	for i := range out {
		out[i] = (highs[i] + lows[i]) / 2
	}
	return out
}

// Alligator computes the current and prior-bar triplet lines so slope and
// convergence can be read off, returning ok=false when history is short.
func Alligator(highs, lows []float64, jawP, teethP, lipsP, jawS, teethS, lipsS int) (AlligatorLines, bool) {
	median := MedianPrices(highs, lows)

	jaw, ok1 := smaShiftedAt(median, jawP, jawS)
	teeth, ok2 := smaShiftedAt(median, teethP, teethS)
	lips, ok3 := smaShiftedAt(median, lipsP, lipsS)
	if !ok1 || !ok2 || !ok3 {
		return AlligatorLines{}, false
	}

	prevMedian := median
	if len(prevMedian) > 1 {
		prevMedian = prevMedian[:len(prevMedian)-1]
	}
	prevJaw, _ := smaShiftedAt(prevMedian, jawP, jawS)
	prevTeeth, _ := smaShiftedAt(prevMedian, teethP, teethS)
	prevLips, _ := smaShiftedAt(prevMedian, lipsP, lipsS)

	return AlligatorLines{
		Jaw: jaw, Teeth: teeth, Lips: lips,
		PrevJaw: prevJaw, PrevTeeth: prevTeeth, PrevLips: prevLips,
	}, true
}

// State classifies the alligator's feeding cycle from line ordering and
// spread (spec.md §4.3: "{sleeping, awakening, feeding_up, feeding_down}").
func (a AlligatorLines) State(atr float64) AlligatorState {
	spread := math.Abs(a.Lips-a.Teeth) + math.Abs(a.Teeth-a.Jaw)
	if atr <= 0 {
		atr = 1
	}
	normalizedSpread := spread / atr

	switch {
	case normalizedSpread < 0.3:
		return AlligatorSleeping
	case a.Lips > a.Teeth && a.Teeth > a.Jaw:
		return AlligatorFeedingUp
	case a.Lips < a.Teeth && a.Teeth < a.Jaw:
		return AlligatorFeedingDown
	default:
		return AlligatorAwakening
	}
}

// Slope reports whether the lips line is currently rising, used as a
// secondary trend-composition factor.
func (a AlligatorLines) Slope() float64 {
	return a.Lips - a.PrevLips
}
