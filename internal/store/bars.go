// File: internal/store/bars.go
// ============================================
package store

import (
	"sync"
	"time"

	"github.com/gatiella/alpha-core/pkg/types"
)

// DefaultRingLength is the default bounded lookback (spec.md §3: "length
// = max required lookback across all analyzers, typically 500").
const DefaultRingLength = 500

// slotKey identifies a single (symbol,timeframe) series.
type slotKey struct {
	symbol    string
	timeframe types.Timeframe
}

// Store owns one bounded bar ring per (symbol,timeframe), guarded by a
// per-slot mutex so concurrent symbols never contend on a shared lock
// (spec.md §5: "single-writer discipline per (symbol,timeframe) slot").
type Store struct {
	ringLength int

	mu    sync.RWMutex
	slots map[slotKey]*slot
}

type slot struct {
	mu  sync.Mutex
	bar *Ring[types.Bar]
}

// New creates a Store with the given per-series ring length (0 uses
// DefaultRingLength).
func New(ringLength int) *Store {
	if ringLength <= 0 {
		ringLength = DefaultRingLength
	}
	return &Store{ringLength: ringLength, slots: make(map[slotKey]*slot)}
}

func (s *Store) slotFor(symbol string, tf types.Timeframe) *slot {
	key := slotKey{symbol, tf}

	s.mu.RLock()
	sl, ok := s.slots[key]
	s.mu.RUnlock()
	if ok {
		return sl
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok = s.slots[key]; ok {
		return sl
	}
	sl = &slot{bar: NewRing[types.Bar](s.ringLength)}
	s.slots[key] = sl
	return sl
}

// PushBar appends a completed bar to its (symbol,timeframe) ring.
// Rejects malformed bars and non-monotonic timestamps with
// KindInputInvalid, leaving the ring unchanged (spec.md §4.2, §8).
func (s *Store) PushBar(symbol string, tf types.Timeframe, bar types.Bar) types.AnalysisResult {
	if !bar.Valid() {
		return types.Invalid(types.KindInputInvalid, "bar fails OHLCV invariants for %s/%s", symbol, tf)
	}

	sl := s.slotFor(symbol, tf)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if last, ok := sl.bar.Last(); ok {
		if !bar.Timestamp.After(last.Timestamp) {
			return types.Invalid(types.KindInputInvalid, "non-monotonic bar timestamp for %s/%s", symbol, tf)
		}
	}
	sl.bar.Push(bar)
	return types.OK()
}

// Bars returns a read-only snapshot of the held bar history for
// (symbol,timeframe), oldest first.
func (s *Store) Bars(symbol string, tf types.Timeframe) []types.Bar {
	sl := s.slotFor(symbol, tf)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.bar.Slice()
}

// Len reports how many bars are currently held for (symbol,timeframe).
func (s *Store) Len(symbol string, tf types.Timeframe) int {
	sl := s.slotFor(symbol, tf)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.bar.Len()
}

// BoundaryFor returns the next bar-close boundary strictly after t for
// the given timeframe, aligned to the UTC epoch.
func BoundaryFor(t time.Time, tf types.Timeframe) time.Time {
	step := tf.Duration()
	t = t.UTC()
	epoch := time.Unix(0, 0).UTC()
	elapsed := t.Sub(epoch)
	steps := elapsed / step
	boundary := epoch.Add((steps + 1) * step)
	return boundary
}
