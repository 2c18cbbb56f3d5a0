// File: internal/orderflow/impact.go
// ============================================
package orderflow

import (
	"gonum.org/v1/gonum/stat"

	"github.com/gatiella/alpha-core/pkg/types"
)

// LiquidityResult reads top-of-book depth off the live tick snapshot
// (spec.md §4.4's `liquidity` output).
type LiquidityResult struct {
	BidSize        float64
	AskSize        float64
	Total          float64
	DepthImbalance float64 // (bid-ask)/(bid+ask), same shape as BidAskImbalance
}

// Liquidity summarizes top-of-book size from a tick snapshot.
func Liquidity(tick types.TickSnapshot) LiquidityResult {
	total := tick.BidSize + tick.AskSize
	imbalance := 0.0
	if total > 0 {
		imbalance = (tick.BidSize - tick.AskSize) / total
	}
	return LiquidityResult{
		BidSize: tick.BidSize, AskSize: tick.AskSize,
		Total: total, DepthImbalance: imbalance,
	}
}

// VolumeBin is one price-bucket of a volume profile.
type VolumeBin struct {
	PriceLow  float64
	PriceHigh float64
	Volume    float64
}

// VolumeProfileResult is spec.md §4.4's `volume_profile` output: a
// volume-by-price histogram over the lookback window plus its point of
// control (the bin with the most volume).
type VolumeProfileResult struct {
	Bins []VolumeBin
	POC  float64 // midpoint of the highest-volume bin
}

// VolumeProfile buckets each bar's volume into price bins spanning
// [low(bars), high(bars)] using the bar's typical price, the classic
// point-of-control construction.
func VolumeProfile(bars []types.Bar, numBins int) VolumeProfileResult {
	if len(bars) == 0 || numBins <= 0 {
		return VolumeProfileResult{}
	}

	lo, hi := bars[0].Low, bars[0].High
	for _, b := range bars {
		if b.Low < lo {
			lo = b.Low
		}
		if b.High > hi {
			hi = b.High
		}
	}
	if hi <= lo {
		return VolumeProfileResult{Bins: []VolumeBin{{PriceLow: lo, PriceHigh: hi, Volume: sumVolume(bars)}}, POC: (lo + hi) / 2}
	}

	width := (hi - lo) / float64(numBins)
	bins := make([]VolumeBin, numBins)
	for i := range bins {
		bins[i] = VolumeBin{PriceLow: lo + float64(i)*width, PriceHigh: lo + float64(i+1)*width}
	}

	for _, b := range bars {
		typical := (b.High + b.Low + b.Close) / 3
		idx := int((typical - lo) / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= numBins {
			idx = numBins - 1 // left-closed, right-open; overflow to last bin
		}
		bins[idx].Volume += b.Volume
	}

	best := 0
	for i, bin := range bins {
		if bin.Volume > bins[best].Volume {
			best = i
		}
	}
	return VolumeProfileResult{Bins: bins, POC: (bins[best].PriceLow + bins[best].PriceHigh) / 2}
}

func sumVolume(bars []types.Bar) float64 {
	total := 0.0
	for _, b := range bars {
		total += b.Volume
	}
	return total
}

// EffortResultInterpretation names the effort-vs-result bands.
type EffortResultInterpretation string

const (
	EffortHighResultLow EffortResultInterpretation = "high_effort_low_result"
	EffortLowResultHigh EffortResultInterpretation = "low_effort_high_result"
	EffortBalanced      EffortResultInterpretation = "balanced"
)

// EffortResult is spec.md §4.4's `effort_result` output: volume spent
// (effort) versus the price range achieved (result), the classic VSA
// "effort vs result" read, distinct from the fixed VSARule table.
type EffortResult struct {
	Effort         float64 // volume / avg_volume
	Result         float64 // (high-low) / ATR
	Ratio          float64 // result / effort
	Interpretation EffortResultInterpretation
}

// Effort computes the effort-vs-result read for the last bar.
func Effort(bar types.Bar, atr, avgVolume float64) EffortResult {
	if avgVolume <= 0 || atr <= 0 {
		return EffortResult{Interpretation: EffortBalanced}
	}
	effort := bar.Volume / avgVolume
	result := (bar.High - bar.Low) / atr
	ratio := 0.0
	if effort > 0 {
		ratio = result / effort
	}

	interp := EffortBalanced
	switch {
	case effort > 1.5 && ratio < 0.5:
		interp = EffortHighResultLow
	case effort < 0.7 && ratio > 1.5:
		interp = EffortLowResultHigh
	}
	return EffortResult{Effort: effort, Result: result, Ratio: ratio, Interpretation: interp}
}

// MarketImpact is spec.md §4.4's `market_impact` output, derived from
// the per-slot bounded rings of recent volumes and relative spreads
// (spec.md §3): the linear-regression slope of |return| on volume (a
// Kyle's-lambda-style impact coefficient) plus the average relative
// spread observed.
type MarketImpact struct {
	Coefficient       float64
	AvgRelativeSpread float64
	SampleSize        int
}

// ComputeMarketImpact regresses absolute returns on volumes from the
// slot's bounded history rings.
func ComputeMarketImpact(volumes, absReturns, relativeSpreads []float64) MarketImpact {
	n := len(volumes)
	if n < 2 || len(absReturns) != n {
		return MarketImpact{SampleSize: n}
	}

	_, slope := stat.LinearRegression(volumes, absReturns, nil, false)

	avgSpread := 0.0
	if len(relativeSpreads) > 0 {
		avgSpread = stat.Mean(relativeSpreads, nil)
	}
	return MarketImpact{Coefficient: slope, AvgRelativeSpread: avgSpread, SampleSize: n}
}
