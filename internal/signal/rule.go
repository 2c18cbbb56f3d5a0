// File: internal/signal/rule.go
// ============================================
package signal

import (
	"fmt"

	"github.com/gatiella/alpha-core/pkg/types"
)

// ruleBased implements decision mode 1 (spec.md §4.5): combined_score is a
// fixed weighted sum of ms_score and of_score; a signal is only emitted
// when both analyses agree on direction and the combined score clears a
// (possibly volatility-bumped) threshold.
func ruleBased(in Inputs, cfg types.SignalConfig, volatileRegime bool) Decision {
	combined := cfg.StructureWeight*in.MSScore + cfg.FlowWeight*in.OFScore

	buyThreshold := cfg.BuyThreshold
	sellThreshold := cfg.SellThreshold
	if volatileRegime {
		buyThreshold += cfg.VolatileRegimeThresholdBump
		sellThreshold += cfg.VolatileRegimeThresholdBump
	}

	agreeUp := isBullish(in.MSDirection) && isBullish(in.OFDirection)
	agreeDown := isBearish(in.MSDirection) && isBearish(in.OFDirection)

	switch {
	case agreeUp && combined >= buyThreshold:
		return buildDecision(in, cfg, "buy", combined, "rule")
	case agreeDown && combined >= sellThreshold:
		return buildDecision(in, cfg, "sell", combined, "rule")
	case !agreeUp && !agreeDown:
		return Decision{Produced: false, Reason: fmt.Sprintf("direction disagreement: ms=%s of=%s", in.MSDirection, in.OFDirection), DecisionMode: "rule"}
	default:
		return Decision{Produced: false, Reason: fmt.Sprintf("Score < %.1f", buyThreshold), DecisionMode: "rule"}
	}
}

// isBullish/isBearish normalize C3's "uptrend"/"downtrend" vocabulary and
// C4's "up"/"down" vocabulary to a common agreement check.
func isBullish(direction string) bool {
	return direction == "uptrend" || direction == "up"
}

func isBearish(direction string) bool {
	return direction == "downtrend" || direction == "down"
}

func buildDecision(in Inputs, cfg types.SignalConfig, action string, score float64, mode string) Decision {
	sl, tp, slReason, tpReason := constructStopsAndTargets(action, in.Price, in.ATR, in.DemandZone, in.SupplyZone, cfg)
	side := types.SideBuy
	if action == "sell" {
		side = types.SideSell
	}
	return Decision{
		Produced:           true,
		Action:             side,
		Score:              score,
		ConfidenceModifier: confidenceModifier(score),
		StopLoss:           sl,
		TakeProfit:         tp,
		SLReason:           slReason,
		TPReason:           tpReason,
		DecisionMode:       mode,
	}
}
