// File: internal/signal/composer.go
// ============================================
package signal

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gatiella/alpha-core/pkg/types"
)

// Composer is C5. It holds only an immutable configuration snapshot
// (spec.md §9) — it is safe for concurrent use across (symbol,timeframe)
// slots since it carries no mutable state of its own.
type Composer struct {
	cfg types.SignalConfig
}

// New constructs a signal composer bound to a configuration snapshot.
func New(cfg types.SignalConfig) *Composer {
	return &Composer{cfg: cfg}
}

// Compose runs the configured decision mode against one evaluation's
// frozen C3/C4 outputs and returns either a produced signal or a
// suppression reason.
func (c *Composer) Compose(in Inputs) Decision {
	volatileRegime := in.MSRegime == "volatile" || in.MSRegime == "trending_volatile"

	var decision Decision
	switch Mode(c.cfg.DecisionMode) {
	case ModePredictor:
		decision = predictorBased(in, c.cfg)
	case ModeGraph:
		decision = graphConfluence(in, c.cfg)
	case ModeRule, "":
		decision = ruleBased(in, c.cfg, volatileRegime)
	default:
		return Decision{Produced: false, Reason: fmt.Sprintf("unknown decision_mode %q", c.cfg.DecisionMode)}
	}
	return decision
}

// ToTrade renders a produced Decision into the audit-carrying Trade record
// the risk evaluator and downstream execution consume.
func ToTrade(symbol string, tf types.Timeframe, entry float64, when time.Time, in Inputs, d Decision) types.Trade {
	return types.Trade{
		ID:                 uuid.NewString(),
		Symbol:             symbol,
		Timeframe:          tf,
		Timestamp:          when,
		Action:             d.Action,
		Entry:              entry,
		StopLoss:           d.StopLoss,
		TakeProfit:         d.TakeProfit,
		Score:              d.Score,
		ConfidenceModifier: d.ConfidenceModifier,
		Metadata: types.TradeMetadata{
			MSDirection:   in.MSDirection,
			OFDirection:   in.OFDirection,
			MSScore:       in.MSScore,
			OFScore:       in.OFScore,
			WyckoffPhase:  in.WyckoffPhase,
			NearestSupply: in.NearestSupply,
			NearestDemand: in.NearestDemand,
			VSASignal:     in.VSASignal,
			VSAConfidence: in.VSAConfidence,
			SLReason:      d.SLReason,
			TPReason:      d.TPReason,
			DecisionMode:  d.DecisionMode,
		},
	}
}
