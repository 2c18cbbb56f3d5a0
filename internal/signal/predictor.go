// File: internal/signal/predictor.go
// ============================================
package signal

import (
	"fmt"

	"github.com/gatiella/alpha-core/pkg/types"
)

// predictorBased implements decision mode 2 (spec.md §4.5): an external
// capability maps a feature vector to P(up); training and feature
// selection are out of scope here, this only consumes the prediction.
func predictorBased(in Inputs, cfg types.SignalConfig) Decision {
	if in.Predictor == nil {
		return Decision{Produced: false, Reason: "predictor mode selected but no predictor wired", DecisionMode: "predictor"}
	}

	features := map[string]float64{
		"ms_score": in.MSScore,
		"of_score": in.OFScore,
		"atr":      in.ATR,
		"price":    in.Price,
	}

	pUp, err := in.Predictor.Predict(features)
	if err != nil {
		return Decision{Produced: false, Reason: fmt.Sprintf("predictor error: %v", err), DecisionMode: "predictor"}
	}

	threshold := cfg.MLProbabilityThreshold
	switch {
	case pUp > threshold:
		score := 10 * pUp
		return buildDecision(in, cfg, "buy", score, "predictor")
	case (1 - pUp) > threshold:
		score := 10 * (1 - pUp)
		return buildDecision(in, cfg, "sell", score, "predictor")
	default:
		return Decision{Produced: false, Reason: fmt.Sprintf("P(up)=%.3f within [%.2f, %.2f] neutral band", pUp, 1-threshold, threshold), DecisionMode: "predictor"}
	}
}
