// File: pkg/types/models.go
// ============================================
package types

import "time"

// Timeframe is one of the recognized bar intervals (config §6).
type Timeframe string

const (
	TF1Min  Timeframe = "1min"
	TF5Min  Timeframe = "5min"
	TF15Min Timeframe = "15min"
	TF30Min Timeframe = "30min"
	TF1Hour Timeframe = "1h"
	TF4Hour Timeframe = "4h"
	TFDaily Timeframe = "daily"
)

// BarsPerYear resolves the annualization scaling GARCH forecasts use,
// resolving spec.md §9's open question (b): scale by the timeframe the
// state actually belongs to, not a fixed 252.
func (tf Timeframe) BarsPerYear() float64 {
	const tradingMinutesPerYear = 252 * 6.5 * 60
	switch tf {
	case TF1Min:
		return tradingMinutesPerYear
	case TF5Min:
		return tradingMinutesPerYear / 5
	case TF15Min:
		return tradingMinutesPerYear / 15
	case TF30Min:
		return tradingMinutesPerYear / 30
	case TF1Hour:
		return tradingMinutesPerYear / 60
	case TF4Hour:
		return tradingMinutesPerYear / 240
	case TFDaily:
		return 252
	default:
		return 252
	}
}

// Duration returns the wall-clock step a single bar of this timeframe
// spans, used by C2's tick-to-bar boundary alignment.
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case TF1Min:
		return time.Minute
	case TF5Min:
		return 5 * time.Minute
	case TF15Min:
		return 15 * time.Minute
	case TF30Min:
		return 30 * time.Minute
	case TF1Hour:
		return time.Hour
	case TF4Hour:
		return 4 * time.Hour
	case TFDaily:
		return 24 * time.Hour
	default:
		return time.Minute
	}
}

// Bar is an immutable OHLCV record keyed by (symbol, timeframe, timestamp).
type Bar struct {
	Symbol    string
	Timeframe Timeframe
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64

	// Derived fields. Nothing in this module fills them in (store.PushBar
	// stores them as given); the analyzers compute ATR and log-returns
	// from the bar history themselves.
	ATR       float64
	LogReturn float64
}

// Valid reports whether the bar satisfies the data-model invariants:
// high >= max(open,close); low <= min(open,close); volume >= 0.
func (b Bar) Valid() bool {
	if b.Volume < 0 {
		return false
	}
	maxOC := b.Open
	if b.Close > maxOC {
		maxOC = b.Close
	}
	minOC := b.Open
	if b.Close < minOC {
		minOC = b.Close
	}
	return b.High >= maxOC && b.Low <= minOC
}

// DepthLevel is a single price/size level of a depth-of-market snapshot.
type DepthLevel struct {
	Price float64
	Size  float64
}

// TickSnapshot carries the last-trade and top-of-book state for a symbol.
type TickSnapshot struct {
	Symbol      string
	Timestamp   time.Time
	LastPrice   float64
	Bid         float64
	Ask         float64
	LastVolume  float64
	BidSize     float64
	AskSize     float64
	DepthBids   []DepthLevel
	DepthAsks   []DepthLevel
}

// Valid reports whether the tick satisfies bid <= ask.
func (t TickSnapshot) Valid() bool {
	return t.Bid <= t.Ask
}

// Side is a trade/position direction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// InventoryModel is the per-symbol mean-reverting inventory state used by
// the order flow analyzer's inventory adjustment component.
type InventoryModel struct {
	Symbol            string
	Position          float64
	NeutralLevel      float64
	MaxPosition       float64
	RiskAversion      float64
	MeanReversionRate float64
	LastUpdate        time.Time
}

// Position is an open trading position under management.
type Position struct {
	Symbol              string
	EntryPrice          float64
	CurrentPrice        float64
	HighestPrice        float64
	Quantity            float64
	Side                Side
	StopLoss            float64
	TakeProfit          float64
	TrailingStopPrice   float64
	TrailingStopEnabled bool
	PnL                 float64
	PnLPercent          float64
	EntryTime           time.Time
	LastUpdateTime      time.Time
}

// Trade is the emitted signal/trade record of the data model (UUID id,
// entry/SL/TP, score, confidence modifier, and an audit metadata bag).
type Trade struct {
	ID                  string
	Symbol              string
	Timeframe           Timeframe
	Timestamp           time.Time
	Action              Side
	Entry               float64
	StopLoss            float64
	TakeProfit           float64
	Quantity            float64
	Score               float64
	ConfidenceModifier  float64
	Metadata            TradeMetadata
}

// TradeMetadata is the audit bag attached to every emitted Trade.
type TradeMetadata struct {
	MSDirection      string
	OFDirection      string
	MSScore          float64
	OFScore          float64
	WyckoffPhase     string
	NearestSupply    *float64
	NearestDemand    *float64
	VSASignal        string
	VSAConfidence    float64
	SLReason         string
	TPReason         string
	DecisionMode     string
}

// SuppressionReason describes why a would-be signal was not emitted.
type SuppressionReason struct {
	Symbol    string
	Timeframe Timeframe
	Timestamp time.Time
	Reason    string
	Kind      ErrorKind
}

// FillReport is the result of a submitted order coming back from the
// execution adapter (spec.md §6 inbound on_fill contract).
type FillReport struct {
	Ticket   string
	Symbol   string
	Side     Side
	Volume   float64
	Price    float64
	PnL      *float64
	Status   FillStatus
}

// FillStatus enumerates spec.md §6's on_fill status values.
type FillStatus string

const (
	FillFilled   FillStatus = "filled"
	FillPartial  FillStatus = "partial"
	FillRejected FillStatus = "rejected"
)

// RiskState is the single-writer, multi-reader account/risk snapshot C6
// owns (spec.md §3's Risk state).
type RiskState struct {
	CurrentBalance    float64
	PeakEquity        float64
	DailyPnL          float64
	ConsecutiveLosses int
	TradesToday       int
	DayStart          time.Time
	OpenPositions     map[string]Position
	WinRate           float64
	WinLossRatio      float64
	TotalTrades       int
	LastCorrelationAt time.Time
}

// TradeResult is a closed trade's outcome, used for rolling win-rate,
// Kelly sizing, and cooldown bookkeeping.
type TradeResult struct {
	Symbol    string
	PnL       float64
	DurationM float64
	Success   bool
	ClosedAt  time.Time
}
