// File: internal/execution/types.go
// ============================================
package execution

import (
	"context"

	"github.com/gatiella/alpha-core/internal/risk"
	"github.com/gatiella/alpha-core/pkg/types"
)

// OrderType names the order styles the outbound execution contract
// supports (spec.md §6).
type OrderType string

const (
	OrderMarket OrderType = "market"
	OrderLimit  OrderType = "limit"
)

// OrderRequest is C7's outbound order intent after C6 sizing.
type OrderRequest struct {
	Symbol     string
	Side       types.Side
	Quantity   float64
	Type       OrderType
	LimitPrice float64 // only used when Type == OrderLimit
	StopLoss   float64
	TakeProfit float64
}

// ModifyRequest adjusts a resting order's protective levels.
type ModifyRequest struct {
	NewStopLoss   *float64
	NewTakeProfit *float64
}

// Broker is the outbound execution contract of spec.md §6:
// Submit/Modify/Cancel/Positions/AccountStatus.
type Broker interface {
	Submit(ctx context.Context, order OrderRequest) (types.FillReport, error)
	Modify(ctx context.Context, ticket string, req ModifyRequest) error
	Cancel(ctx context.Context, ticket string) error
	Positions(ctx context.Context) ([]types.Position, error)
	AccountStatus(ctx context.Context) (risk.AccountStatus, error)
}
