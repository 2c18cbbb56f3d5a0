// File: internal/orchestrator/types.go
// ============================================
package orchestrator

import (
	"time"

	"github.com/gatiella/alpha-core/internal/risk"
	"github.com/gatiella/alpha-core/pkg/types"
)

// EventKind names the three inbound event types of spec.md §4.7. C7
// handles only BAR events (Orchestrator.OnBar); nothing in this module
// consumes the TICK or MARKET_STATE_CHANGE kinds.
type EventKind string

const (
	EventTick              EventKind = "TICK"
	EventBar               EventKind = "BAR"
	EventMarketStateChange EventKind = "MARKET_STATE_CHANGE"
)

// AccountProvider supplies the inbound account snapshot C6 evaluates
// against. It is owned by whatever adapter tracks live balance/equity
// (spec.md §6's inbound contract), not by the orchestrator itself.
type AccountProvider interface {
	AccountStatus() risk.AccountStatus
}

// InventoryProvider supplies the per-symbol inventory model C4's
// inventory adjustment consumes.
type InventoryProvider interface {
	Inventory(symbol string) types.InventoryModel
}

// Outcome is C7's result for one BAR event: exactly one of Trade or
// Suppression is set.
type Outcome struct {
	Symbol    string
	Timeframe types.Timeframe
	Timestamp time.Time

	Trade      *types.Trade
	Evaluation *risk.EvaluationResult

	Suppressed bool
	Reason     string
	Kind       types.ErrorKind
}
