// File: internal/orderflow/analyzer.go
// ============================================
package orderflow

import (
	"sync"
	"time"

	"github.com/gatiella/alpha-core/internal/numerics"
	"github.com/gatiella/alpha-core/internal/store"
	"github.com/gatiella/alpha-core/pkg/types"
)

// marketImpactRingLength bounds the per-slot market-impact history
// (spec.md §3: "Market-impact history: bounded rings of recent volumes
// and relative spreads"), matching the order of magnitude of the other
// per-slot history rings (delta history is capped at the flow
// divergence baseline window, default 200).
const marketImpactRingLength = 200

// Analyzer is C4, the Order Flow analyzer. It owns the per-(symbol,
// timeframe) GARCH cache, Bayesian priors, dynamic thresholds, and
// delta-history baseline (spec.md §3).
type Analyzer struct {
	numCfg  types.NumericsConfig
	flowCfg types.OrderFlowConfig

	mu    sync.Mutex
	slots map[slotKey]*slotState
}

type slotKey struct {
	symbol    string
	timeframe types.Timeframe
}

type slotState struct {
	garch          *numerics.GARCHFit
	thresholds     DynamicThresholds
	deltaPrior     BayesianPrior
	imbalancePrior BayesianPrior
	deltaHistory   []float64

	impactVolumes     *store.Ring[float64]
	impactAbsReturns  *store.Ring[float64]
	impactRelSpreads  *store.Ring[float64]
}

// New constructs an Order Flow analyzer bound to a configuration
// snapshot.
func New(numCfg types.NumericsConfig, flowCfg types.OrderFlowConfig) *Analyzer {
	return &Analyzer{numCfg: numCfg, flowCfg: flowCfg, slots: make(map[slotKey]*slotState)}
}

func (a *Analyzer) slotFor(symbol string, tf types.Timeframe) *slotState {
	key := slotKey{symbol, tf}
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.slots[key]
	if !ok {
		s = &slotState{
			impactVolumes:    store.NewRing[float64](marketImpactRingLength),
			impactAbsReturns: store.NewRing[float64](marketImpactRingLength),
			impactRelSpreads: store.NewRing[float64](marketImpactRingLength),
		}
		a.slots[key] = s
	}
	return s
}

// Analyze runs the full C4 pipeline against a frozen bar/tick snapshot
// (spec.md §4.4).
func (a *Analyzer) Analyze(symbol string, tf types.Timeframe, bars []types.Bar, tick types.TickSnapshot, inventory types.InventoryModel, now time.Time) Result {
	const minBars = 30
	if len(bars) < minBars {
		return Result{Valid: false, Reason: "insufficient bar history for order flow analysis"}
	}
	if !tick.Valid() {
		return Result{Valid: false, Reason: "tick fails bid<=ask invariant"}
	}

	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i], highs[i], lows[i], volumes[i] = b.Close, b.High, b.Low, b.Volume
	}
	atr := numerics.ATR(highs, lows, closes, 14)
	avgVolume, _ := numerics.RollingMean(volumes, a.flowCfg.VSAVolumeAvgPeriod)

	last := bars[len(bars)-1]
	prev := bars[len(bars)-2]

	vsaSignal, vsaConfidence := VSARule(last, prev, atr, avgVolume)
	deltaResult := Delta(bars, 20)
	absorptionPresent, absorptionDir := Absorption(last, atr, avgVolume, a.flowCfg.AbsorptionRatio)
	imbalance := BidAskImbalance(tick)

	slot := a.slotFor(symbol, tf)
	a.mu.Lock()
	defer a.mu.Unlock()

	// GARCH refit cadence.
	if slot.garch == nil || now.Sub(slot.garch.FitAt) >= time.Duration(a.numCfg.GARCHRetrainInterval)*time.Second {
		logReturns := numerics.LogReturns(closes)
		if fit, ok := numerics.FitGARCH(logReturns, a.numCfg.GARCHP, a.numCfg.GARCHQ, a.numCfg.GARCHMinData); ok {
			fit.FitAt = now
			slot.garch = fit
		} else {
			slot.garch = nil
		}
	}
	garchVol, garchOK := 0.0, false
	if slot.garch != nil {
		garchVol, garchOK = slot.garch.Forecast(tf.BarsPerYear())
	}

	volatility := atr / maxFloat(closes[len(closes)-1], 1e-8)
	if garchOK {
		volatility = garchVol
	}

	// Dynamic threshold + Bayesian prior refresh.
	slot.deltaPrior = UpdateBayesianPrior(slot.deltaPrior, deltaResult.Value, a.flowCfg.BayesObservationCap)
	slot.imbalancePrior = UpdateBayesianPrior(slot.imbalancePrior, imbalance, a.flowCfg.BayesObservationCap)
	slot.thresholds = UpdateDynamicThresholds(slot.thresholds, slot.deltaPrior, slot.imbalancePrior,
		volatility, atr/maxFloat(closes[len(closes)-1], 1e-8),
		UpdateConfig{
			IntervalSeconds:      a.flowCfg.ThresholdUpdateInterval,
			BlendFactor:          a.flowCfg.BayesUpdateBlendFactor,
			VolatilityMultiplier: a.flowCfg.VolatilityMultiplier,
		}, now)

	// Flow divergence baseline bookkeeping.
	slot.deltaHistory = append(slot.deltaHistory, deltaResult.Value)
	maxHist := a.numCfg.FlowDivergenceBaselineWindow
	if maxHist <= 0 {
		maxHist = 200
	}
	if len(slot.deltaHistory) > maxHist {
		slot.deltaHistory = slot.deltaHistory[len(slot.deltaHistory)-maxHist:]
	}

	divergence := numerics.JSDResult{Score: 0, Interpretation: numerics.DivergenceNormal}
	if len(slot.deltaHistory) >= a.numCfg.FlowDivergenceWindow {
		recentN := a.numCfg.FlowDivergenceWindow
		recent := slot.deltaHistory[len(slot.deltaHistory)-recentN:]
		divergence = numerics.FlowDivergence(recent, slot.deltaHistory, a.numCfg.FlowDivergenceBins, a.numCfg.FlowDivergenceThreshold)
	}

	inventoryAdj := InventoryAdjustment(inventory)

	significantImbalance := abs(imbalance) > slot.thresholds.Imbalance

	liquidity := Liquidity(tick)
	volumeProfile := VolumeProfile(bars, 10)
	effortResult := Effort(last, atr, avgVolume)

	absReturn := 0.0
	if prev.Close != 0 {
		absReturn = abs((last.Close - prev.Close) / prev.Close)
	}
	relativeSpread := 0.0
	if tick.LastPrice > 0 {
		relativeSpread = (tick.Ask - tick.Bid) / tick.LastPrice
	}
	slot.impactVolumes.Push(last.Volume)
	slot.impactAbsReturns.Push(absReturn)
	slot.impactRelSpreads.Push(relativeSpread)
	marketImpact := ComputeMarketImpact(slot.impactVolumes.Slice(), slot.impactAbsReturns.Slice(), slot.impactRelSpreads.Slice())

	institutional := institutionalFactor(deltaResult, imbalance, significantImbalance)
	intensity := intensityFactor(last.Volume, avgVolume)

	components := map[string]float64{
		"delta":         normalizeSigned(deltaResult.Consistency * deltaResult.Strength),
		"bid_ask":       normalizeSigned(sign(imbalance) * boolToFloat(significantImbalance)),
		"absorption":    boolToFloat(absorptionPresent),
		"institutional": institutional,
		"vsa":           vsaConfidence,
	}
	score := weightedScore(a.flowCfg.FlowWeights, components)
	score += inventoryAdj * 10
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}

	direction := composeDirection(deltaResult, imbalance, absorptionDir, institutional)

	return Result{
		Valid:                        true,
		Direction:                    direction,
		FlowScore:                    score,
		Components:                   components,
		GARCHVolatilityForecast:      garchVol,
		GARCHAvailable:               garchOK,
		VSASignal:                    vsaSignal,
		VSAConfidence:                vsaConfidence,
		FlowDivergenceScore:          divergence.Score,
		FlowDivergenceInterpretation: string(divergence.Interpretation),
		Delta:                        deltaResult.Value,
		DeltaConsistency:             deltaResult.Consistency,
		BidAskImbalance:              imbalance,
		Absorption:                   absorptionPresent,
		AbsorptionDirection:          absorptionDir,
		Thresholds:                   slot.thresholds,
		Inventory:                    inventoryAdj,
		Intensity:                    intensity,

		Liquidity:     liquidity,
		VolumeProfile: volumeProfile,
		EffortResult:  effortResult,
		MarketImpact:  marketImpact,
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func normalizeSigned(v float64) float64 {
	// Components feed a [0,1]-valued weighted sum (spec.md §4.4/§4.5);
	// a signed value's magnitude is what carries information here, its
	// sign is folded into direction composition separately.
	if v < 0 {
		v = -v
	}
	if v > 1 {
		v = 1
	}
	return v
}

func institutionalFactor(delta DeltaResult, imbalance float64, significant bool) float64 {
	if !significant {
		return 0.3
	}
	agree := sign(delta.Value) == sign(imbalance)
	if agree {
		return 0.8
	}
	return 0.2
}

func intensityFactor(currentVolume, avgVolume float64) float64 {
	if avgVolume <= 0 {
		return 0
	}
	ratio := currentVolume / avgVolume
	if ratio > 3 {
		ratio = 3
	}
	return ratio / 3
}

func weightedScore(weights map[string]float64, components map[string]float64) float64 {
	sumW, sumWV := 0.0, 0.0
	for name, w := range weights {
		if w <= 0 {
			continue
		}
		sumW += w
		sumWV += w * components[name]
	}
	if sumW == 0 {
		return 0
	}
	score := (sumWV / sumW) * 10
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score
}

func composeDirection(delta DeltaResult, imbalance float64, absorptionDir Direction, institutional float64) Direction {
	upVotes, downVotes := 0, 0
	if delta.Value > 0 {
		upVotes++
	} else if delta.Value < 0 {
		downVotes++
	}
	if imbalance > 0 {
		upVotes++
	} else if imbalance < 0 {
		downVotes++
	}
	switch absorptionDir {
	case DirectionUp:
		upVotes++
	case DirectionDown:
		downVotes++
	}
	switch {
	case upVotes > downVotes:
		return DirectionUp
	case downVotes > upVotes:
		return DirectionDown
	default:
		return DirectionNeutral
	}
}
