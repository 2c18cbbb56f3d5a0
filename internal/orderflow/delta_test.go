// File: internal/orderflow/delta_test.go
// ============================================
package orderflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gatiella/alpha-core/pkg/types"
)

func makeBars(n int, up bool) []types.Bar {
	bars := make([]types.Bar, n)
	for i := 0; i < n; i++ {
		if up {
			bars[i] = types.Bar{Open: 10, Close: 10.5, High: 10.6, Low: 9.9, Volume: 50}
		} else {
			bars[i] = types.Bar{Open: 10.5, Close: 10, High: 10.6, Low: 9.9, Volume: 50}
		}
	}
	return bars
}

func TestDelta_ConsistentUpBars(t *testing.T) {
	bars := makeBars(25, true)
	result := Delta(bars, 20)
	assert.Equal(t, 1.0, result.Consistency)
	assert.Greater(t, result.Value, 0.0)
}

func TestAbsorption_DetectsHighVolumeSmallRange(t *testing.T) {
	bar := types.Bar{Open: 10, Close: 10.6, High: 10.7, Low: 10.0, Volume: 300}
	present, direction := Absorption(bar, 2.0, 100, 1.5)
	assert.True(t, present)
	assert.Equal(t, DirectionUp, direction)
}

func TestAbsorption_RejectsWideRange(t *testing.T) {
	bar := types.Bar{Open: 10, Close: 12, High: 12.5, Low: 9.5, Volume: 300}
	present, _ := Absorption(bar, 1.0, 100, 1.5)
	assert.False(t, present)
}

func TestBidAskImbalance(t *testing.T) {
	tick := types.TickSnapshot{BidSize: 80, AskSize: 20}
	v := BidAskImbalance(tick)
	assert.InDelta(t, 0.6, v, 1e-9)
}
