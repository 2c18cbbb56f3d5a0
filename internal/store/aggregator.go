// File: internal/store/aggregator.go
// ============================================
package store

import (
	"github.com/gatiella/alpha-core/pkg/types"
)

// Aggregator groups ticks into bars aligned to a timeframe's step
// boundary, emitting a completed Bar event once a tick's timestamp
// reaches or crosses the next boundary (spec.md §4.2: "a tick whose
// timestamp ≥ next_boundary rolls the current bar").
type Aggregator struct {
	symbol    string
	timeframe types.Timeframe

	building     bool
	boundary     types.Bar
	nextBoundary int64 // unix nanos
}

// NewAggregator creates a tick aggregator for one (symbol,timeframe).
func NewAggregator(symbol string, tf types.Timeframe) *Aggregator {
	return &Aggregator{symbol: symbol, timeframe: tf}
}

// OnTick folds a tick snapshot into the in-progress bar. When the tick's
// timestamp reaches or crosses the next boundary, the completed bar is
// returned alongside ok=true and a new bar is opened with this tick as
// its first observation.
func (a *Aggregator) OnTick(tick types.TickSnapshot) (types.Bar, bool) {
	if !tick.Valid() {
		return types.Bar{}, false
	}

	if !a.building {
		a.openBar(tick)
		return types.Bar{}, false
	}

	if tick.Timestamp.UnixNano() >= a.nextBoundary {
		completed := a.boundary
		a.openBar(tick)
		return completed, true
	}

	a.fold(tick)
	return types.Bar{}, false
}

func (a *Aggregator) openBar(tick types.TickSnapshot) {
	a.boundary = types.Bar{
		Symbol:    a.symbol,
		Timeframe: a.timeframe,
		Timestamp: tick.Timestamp,
		Open:      tick.LastPrice,
		High:      tick.LastPrice,
		Low:       tick.LastPrice,
		Close:     tick.LastPrice,
		Volume:    tick.LastVolume,
	}
	a.nextBoundary = BoundaryFor(tick.Timestamp, a.timeframe).UnixNano()
	a.building = true
}

func (a *Aggregator) fold(tick types.TickSnapshot) {
	if tick.LastPrice > a.boundary.High {
		a.boundary.High = tick.LastPrice
	}
	if tick.LastPrice < a.boundary.Low {
		a.boundary.Low = tick.LastPrice
	}
	a.boundary.Close = tick.LastPrice
	a.boundary.Volume += tick.LastVolume
	a.boundary.Timestamp = tick.Timestamp
}
