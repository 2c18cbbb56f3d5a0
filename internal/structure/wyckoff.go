// File: internal/structure/wyckoff.go
// ============================================
package structure

import "github.com/gatiella/alpha-core/pkg/types"

// wyckoffEvent is a single detected structural event with its attached
// confidence (spec.md §3: "last_event, score, detail bag").
type wyckoffEvent struct {
	name       string
	confidence float64
	nextPhase  WyckoffPhase
}

// decayFactor is applied to the running score every update before adding
// any newly detected event, so old events age out rather than pinning
// the phase forever (spec.md §9's event-driven FSM has no explicit decay
// rate; 0.85 is this package's own choice).
const decayFactor = 0.85

// UpdateWyckoff folds one new bar's events into the running FSM state,
// emitting a concrete phase only once the aggregated score clears
// `confThreshold` (default 7.0, spec.md §4.3).
func UpdateWyckoff(prev WyckoffState, bar types.Bar, avgVolume float64, demand, supply []Zone, prevRangeHigh, prevRangeLow, volSpikeFactor, confThreshold float64) WyckoffState {
	if confThreshold <= 0 {
		confThreshold = 7.0
	}
	score := prev.Score * decayFactor
	event := detectEvent(prev.Phase, bar, avgVolume, demand, supply, prevRangeHigh, prevRangeLow, volSpikeFactor)

	phase := prev.Phase
	lastEvent := prev.LastEvent
	if event != nil {
		score += event.confidence * 10
		if score > 10 {
			score = 10
		}
		lastEvent = event.name
		if score >= confThreshold {
			phase = event.nextPhase
		}
	}
	if score < 0 {
		score = 0
	}
	return WyckoffState{Phase: phase, LastEvent: lastEvent, Score: score}
}

func detectEvent(phase WyckoffPhase, bar types.Bar, avgVolume float64, demand, supply []Zone, prevHigh, prevLow, volSpikeFactor float64) *wyckoffEvent {
	if avgVolume <= 0 {
		return nil
	}
	volRatio := bar.Volume / avgVolume
	volSpike := volRatio >= volSpikeFactor
	inDemand := InZone(demand, bar.Close)
	inSupply := InZone(supply, bar.Close)

	switch phase {
	case WyckoffUndefined, WyckoffMarkdown:
		if volSpike && inDemand && bar.Close > bar.Open {
			return &wyckoffEvent{name: "spring", confidence: 0.8, nextPhase: WyckoffAccumulation}
		}
	case WyckoffAccumulation, WyckoffSpring:
		if bar.Close > prevHigh {
			return &wyckoffEvent{name: "sign_of_strength", confidence: 0.75, nextPhase: WyckoffMarkup}
		}
	case WyckoffMarkup:
		if volSpike && inSupply && bar.Close < bar.Open {
			return &wyckoffEvent{name: "upthrust", confidence: 0.8, nextPhase: WyckoffDistribution}
		}
	case WyckoffDistribution, WyckoffUpthrust:
		if bar.Close < prevLow {
			return &wyckoffEvent{name: "sign_of_weakness", confidence: 0.75, nextPhase: WyckoffMarkdown}
		}
	}
	return nil
}
