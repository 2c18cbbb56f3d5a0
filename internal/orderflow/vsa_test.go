// File: internal/orderflow/vsa_test.go
// ============================================
package orderflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gatiella/alpha-core/pkg/types"
)

func TestVSARule_NoSupply(t *testing.T) {
	// scenario 5: down bar, range/ATR=0.3, vol/avg=0.4, close > prev.close.
	atr := 1.0
	avgVolume := 100.0
	prev := types.Bar{Close: 10.0}
	bar := types.Bar{Open: 10.5, Close: 10.2, High: 10.6, Low: 10.3, Volume: 40}

	signal, confidence := VSARule(bar, prev, atr, avgVolume)
	assert.Equal(t, VSANoSupply, signal)
	assert.InDelta(t, 0.7, confidence, 1e-9)
}

func TestVSARule_NoDemand(t *testing.T) {
	atr := 1.0
	avgVolume := 100.0
	prev := types.Bar{Close: 10.5}
	bar := types.Bar{Open: 10.0, Close: 10.2, High: 10.3, Low: 10.0, Volume: 40}

	signal, confidence := VSARule(bar, prev, atr, avgVolume)
	assert.Equal(t, VSANoDemand, signal)
	assert.InDelta(t, 0.7, confidence, 1e-9)
}

func TestVSARule_UpthrustPotential(t *testing.T) {
	atr := 1.0
	avgVolume := 100.0
	prev := types.Bar{Close: 9.0}
	bar := types.Bar{Open: 9.5, Close: 9.6, High: 11.0, Low: 9.4, Volume: 300}

	signal, confidence := VSARule(bar, prev, atr, avgVolume)
	assert.Equal(t, VSAUpthrustPotential, signal)
	assert.InDelta(t, 0.6, confidence, 1e-9)
}

func TestVSARule_StoppingVolume(t *testing.T) {
	atr := 1.0
	avgVolume := 100.0
	prev := types.Bar{Close: 9.0}
	bar := types.Bar{Open: 9.0, Close: 10.0, High: 11.0, Low: 9.0, Volume: 300}

	signal, confidence := VSARule(bar, prev, atr, avgVolume)
	assert.Equal(t, VSAStoppingVolume, signal)
	assert.InDelta(t, 0.65, confidence, 1e-9)
}

func TestVSARule_NoMatch(t *testing.T) {
	atr := 1.0
	avgVolume := 100.0
	prev := types.Bar{Close: 9.0}
	bar := types.Bar{Open: 9.0, Close: 9.2, High: 9.3, Low: 8.9, Volume: 100}

	signal, _ := VSARule(bar, prev, atr, avgVolume)
	assert.Equal(t, VSANone, signal)
}
