// File: internal/structure/analyzer.go
// ============================================
package structure

import (
	"sync"
	"time"

	"github.com/gatiella/alpha-core/internal/numerics"
	"github.com/gatiella/alpha-core/pkg/types"
)

// Analyzer is C3, the Market Structure analyzer. It owns one Wyckoff FSM
// and one pair of supply/demand zone lists per (symbol,timeframe),
// mutated only by the single slot owner (spec.md §3 lifecycle).
type Analyzer struct {
	cfg types.StructureConfig

	mu    sync.Mutex
	slots map[slotKey]*slotState
}

type slotKey struct {
	symbol    string
	timeframe types.Timeframe
}

type slotState struct {
	wyckoff WyckoffState
	demand  []Zone
	supply  []Zone
}

// New constructs a Market Structure analyzer bound to a configuration
// snapshot (spec.md §9: "process-wide state is limited to an immutable
// configuration snapshot").
func New(cfg types.StructureConfig) *Analyzer {
	return &Analyzer{cfg: cfg, slots: make(map[slotKey]*slotState)}
}

func (a *Analyzer) slotFor(symbol string, tf types.Timeframe) *slotState {
	key := slotKey{symbol, tf}
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.slots[key]
	if !ok {
		s = &slotState{wyckoff: WyckoffState{Phase: WyckoffUndefined}}
		a.slots[key] = s
	}
	return s
}

// Analyze runs the full C3 pipeline against a frozen bar snapshot
// (spec.md §4.3). bars must be ordered oldest-first and already include
// the completed current bar.
func (a *Analyzer) Analyze(symbol string, tf types.Timeframe, bars []types.Bar, now time.Time) Result {
	const minBars = 60
	if len(bars) < minBars {
		return Result{Valid: false, Reason: "insufficient bar history for structure analysis"}
	}

	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	times := make([]time.Time, len(bars))
	for i, b := range bars {
		closes[i], highs[i], lows[i], volumes[i] = b.Close, b.High, b.Low, b.Volume
		times[i] = b.Timestamp
	}

	atr := numerics.ATR(highs, lows, closes, 14)
	price := closes[len(closes)-1]

	lines, ok := Alligator(highs, lows,
		a.cfg.AlligatorJawPeriod, a.cfg.AlligatorTeethPeriod, a.cfg.AlligatorLipsPeriod,
		a.cfg.AlligatorJawShift, a.cfg.AlligatorTeethShift, a.cfg.AlligatorLipsShift)
	alligatorState := AlligatorSleeping
	trend := TrendResult{Direction: DirectionSideways, Strength: 0.5}
	if ok {
		alligatorState = lines.State(atr)
		trend = ComposeTrend(closes, lines, alligatorState)
	}

	hurstResult, hurstOK := numerics.Hurst(closes, 100, 0.55, 0.45)
	regime := Regime(trend, hurstResult, hurstOK, atr/price)

	stationarity, _ := numerics.Stationarity(closes, 0.05, 20)

	cycle := numerics.DominantCycle(closes, 0.1, numerics.DetrendDifference)

	slot := a.slotFor(symbol, tf)
	a.mu.Lock()
	defer a.mu.Unlock()

	prominence := a.cfg.SDPivotProminenceATRFactor * atr
	eps := a.cfg.SDZoneClusterEpsATRFactor * atr

	pivotHighs := FindPivotHighs(highs, lows, times, prominence)
	pivotLows := FindPivotLows(highs, lows, times, prominence)
	supply := ClusterPivots(pivotHighs, eps, 2)
	demand := ClusterPivots(pivotLows, eps, 2)

	supply = InvalidateZones(supply, price, atr, a.cfg.SDZoneInvalidationATRFactor, false)
	demand = InvalidateZones(demand, price, atr, a.cfg.SDZoneInvalidationATRFactor, true)
	slot.supply, slot.demand = supply, demand

	lookback := 30
	if lookback > len(bars) {
		lookback = len(bars)
	}
	recentHigh, recentLow := highs[0], lows[0]
	for _, h := range highs[len(highs)-lookback:] {
		if h > recentHigh {
			recentHigh = h
		}
	}
	for _, l := range lows[len(lows)-lookback:] {
		if l < recentLow {
			recentLow = l
		}
	}
	avgVolume, _ := numerics.RollingMean(volumes, 20)
	slot.wyckoff = UpdateWyckoff(slot.wyckoff, bars[len(bars)-1], avgVolume, demand, supply, recentHigh, recentLow, a.cfg.WyckoffVolSpikeFactor, a.cfg.WyckoffPhaseConfThreshold)

	fibLevel := ActiveFibLevel(recentLow, recentHigh, price, atr)

	finalDirection := composeFinalDirection(trend, slot.wyckoff.Phase, cycle)

	score := structureScore(a.cfg.StructureWeights, trend, slot.wyckoff, cycle, demand, supply, price)

	var nearestSupply, nearestDemand *float64
	nearestSupplyZone := NearestZone(supply, price)
	nearestDemandZone := NearestZone(demand, price)
	if z := nearestSupplyZone; z != nil {
		v := (z.Low + z.High) / 2
		nearestSupply = &v
	}
	if z := nearestDemandZone; z != nil {
		v := (z.Low + z.High) / 2
		nearestDemand = &v
	}

	return Result{
		Valid:               true,
		Direction:           finalDirection,
		StructureScore:      score,
		Regime:              regime,
		ATR:                 atr,
		HurstValue:          hurstResult.Value,
		HurstInterp:         string(hurstResult.Interpretation),
		AlligatorState:      alligatorState,
		WyckoffPhase:        slot.wyckoff.Phase,
		WyckoffConfidence:   slot.wyckoff.Score,
		WyckoffLastEvent:    slot.wyckoff.LastEvent,
		PriceInDemandZone:   InZone(demand, price),
		PriceInSupplyZone:   InZone(supply, price),
		NearestSupply:       nearestSupply,
		NearestDemand:       nearestDemand,
		NearestSupplyZone:   nearestSupplyZone,
		NearestDemandZone:   nearestDemandZone,
		DominantCyclePeriod: cycle.PeriodBars,
		CycleFound:          cycle.Found,
		IsStationary:        stationarity.IsStationary,
		ActiveFibLevel:      fibLevel,
	}
}

// composeFinalDirection is the majority vote of trend, Wyckoff phase
// bias, and dominant-cycle phase bias (spec.md §4.3: "majority vote of
// trend, wyckoff phase bias, and cycle phase (if dominant cycle
// identified)"). The cycle only casts a vote when one was found.
func composeFinalDirection(trend TrendResult, phase WyckoffPhase, cycle numerics.CycleResult) Direction {
	upVotes, downVotes := 0, 0
	switch trend.Direction {
	case DirectionUp:
		upVotes++
	case DirectionDown:
		downVotes++
	}
	switch phase {
	case WyckoffAccumulation, WyckoffSpring, WyckoffMarkup:
		upVotes++
	case WyckoffDistribution, WyckoffUpthrust, WyckoffMarkdown:
		downVotes++
	}
	if cycle.Found {
		switch cycle.Bias {
		case numerics.CycleBiasUp:
			upVotes++
		case numerics.CycleBiasDown:
			downVotes++
		}
	}
	switch {
	case upVotes > downVotes:
		return DirectionUp
	case downVotes > upVotes:
		return DirectionDown
	default:
		return trend.Direction
	}
}

// structureScore applies the shared weighted-sum-then-clamp formula of
// spec.md §4.4/§4.5 to C3's named factors.
func structureScore(weights map[string]float64, trend TrendResult, wyckoff WyckoffState, cycle numerics.CycleResult, demand, supply []Zone, price float64) float64 {
	factors := map[string]float64{
		"trend":   trend.Strength,
		"wyckoff": wyckoff.Score / 10,
		"cycle":   cycle.Power,
		"zones":   zoneProximityFactor(demand, supply, price),
	}
	sumW, sumWV := 0.0, 0.0
	for name, w := range weights {
		if w <= 0 {
			continue
		}
		sumW += w
		sumWV += w * factors[name]
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

func zoneProximityFactor(demand, supply []Zone, price float64) float64 {
	if InZone(demand, price) || InZone(supply, price) {
		return 1
	}
	return 0.3
}
