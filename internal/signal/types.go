// File: internal/signal/types.go
// ============================================
package signal

import "github.com/gatiella/alpha-core/pkg/types"

// Mode selects which of C5's three decision strategies the composer runs.
type Mode string

const (
	ModeRule      Mode = "rule"
	ModePredictor Mode = "predictor"
	ModeGraph     Mode = "graph"
)

// Inputs bundles the frozen C3/C4 outputs plus current price that C5
// consumes for one (symbol,timeframe) evaluation.
type Inputs struct {
	Symbol    string
	Timeframe types.Timeframe
	Price     float64
	ATR       float64

	MSDirection string
	MSScore     float64
	MSRegime    string

	OFDirection string
	OFScore     float64

	WyckoffPhase  string
	NearestSupply *float64 // midpoint, kept for audit metadata
	NearestDemand *float64
	DemandZone    *Zone // exact low/high used by SL/TP construction
	SupplyZone    *Zone

	VSASignal     string
	VSAConfidence float64

	Predictor Predictor // optional, used only in ModePredictor
}

// Zone is the minimal supply/demand rectangle C5 needs, decoupled from
// internal/structure's own Zone type so the composer does not import an
// analyzer package's internals beyond this shape.
type Zone struct {
	Low  float64
	High float64
}

// Predictor is the pluggable capability of decision mode 2: an external
// model that maps a feature vector to P(price goes up). Training and
// feature engineering live outside this package; C5 only consumes the
// interface.
type Predictor interface {
	Predict(features map[string]float64) (float64, error)
}

// Decision is C5's output for one evaluation: either a signal worth
// forwarding to risk, or a suppression reason.
type Decision struct {
	Produced bool
	Reason   string

	Action             types.Side
	Score              float64
	ConfidenceModifier float64
	StopLoss           float64
	TakeProfit         float64
	SLReason           string
	TPReason           string
	DecisionMode       string
}
