// File: internal/structure/types.go
// ============================================
package structure

import "time"

// Direction is C3's composite read of market structure.
type Direction string

const (
	DirectionUp      Direction = "uptrend"
	DirectionDown    Direction = "downtrend"
	DirectionSideways Direction = "sideways"
)

// AlligatorState is the feeding-cycle read of the triplet moving averages.
type AlligatorState string

const (
	AlligatorSleeping    AlligatorState = "sleeping"
	AlligatorAwakening   AlligatorState = "awakening"
	AlligatorFeedingUp   AlligatorState = "feeding_up"
	AlligatorFeedingDown AlligatorState = "feeding_down"
)

// WyckoffPhase enumerates the FSM states of spec.md §3.
type WyckoffPhase string

const (
	WyckoffUndefined     WyckoffPhase = "undefined"
	WyckoffAccumulation  WyckoffPhase = "accumulation"
	WyckoffSpring        WyckoffPhase = "spring"
	WyckoffMarkup        WyckoffPhase = "markup"
	WyckoffDistribution  WyckoffPhase = "distribution"
	WyckoffUpthrust      WyckoffPhase = "upthrust"
	WyckoffMarkdown      WyckoffPhase = "markdown"
)

// Zone is a supply or demand price band (spec.md §3: "{price_low,
// price_high, strength, last_touch, invalidated?}").
type Zone struct {
	Low         float64
	High        float64
	Strength    float64
	LastTouch   time.Time
	Invalidated bool
}

// WyckoffState is the persisted FSM state C3 owns per (symbol,timeframe).
type WyckoffState struct {
	Phase     WyckoffPhase
	LastEvent string
	Score     float64
}

// Result is C3's full output for one analysis pass (spec.md §4.3).
type Result struct {
	Valid  bool
	Reason string

	Direction       Direction
	StructureScore  float64
	Regime          string
	HurstValue      float64
	HurstInterp     string
	ATR             float64

	AlligatorState AlligatorState

	WyckoffPhase      WyckoffPhase
	WyckoffConfidence float64
	WyckoffLastEvent  string

	PriceInDemandZone bool
	PriceInSupplyZone bool
	NearestSupply     *float64
	NearestDemand     *float64
	NearestSupplyZone *Zone
	NearestDemandZone *Zone

	DominantCyclePeriod float64
	CycleFound          bool

	IsStationary bool

	ActiveFibLevel     *float64
	ActiveHarmonic     string
}
