// File: internal/risk/types.go
// ============================================
package risk

import "github.com/gatiella/alpha-core/pkg/types"

// AccountStatus is the inbound account snapshot C6 evaluates a signal
// against (spec.md §4.6: "evaluate(signal, account_status)").
type AccountStatus struct {
	Equity              float64
	Balance             float64
	DailyVolatility     float64 // fractional, GARCH forecast preferred, ATR ratio fallback
	CorrelationExposure float64 // sum of open-position risk budgets weighted by correlation
	OpenPositionRisk    float64 // risk budget already committed, in account currency
}

// SizingMethod names which sizing path produced a position size, used for
// audit logging and the spec's "Fixed Fractional" label (spec.md §8
// scenario 6).
type SizingMethod string

const (
	SizingFixedFractional SizingMethod = "Fixed Fractional"
	SizingKelly           SizingMethod = "Kelly"
)

// EvaluationResult is C6's output: either an accepted, sized signal, or a
// rejection reason.
type EvaluationResult struct {
	Accepted bool
	Reason   string

	Volume         float64
	SizingMethod   SizingMethod
	RiskPercent    float64
	AdjustedSignal *types.Trade
}
