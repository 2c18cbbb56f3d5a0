// File: internal/signal/rule_test.go
// ============================================
package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatiella/alpha-core/pkg/types"
)

func TestRuleBased_NoSignalBelowThreshold(t *testing.T) {
	cfg := types.Default().Signal
	c := New(cfg)

	in := Inputs{
		MSDirection: "uptrend", MSScore: 6.0,
		OFDirection: "up", OFScore: 6.0,
	}

	d := c.Compose(in)
	require.False(t, d.Produced)
	assert.Contains(t, d.Reason, "Score < 7.0")
}

func TestRuleBased_BuySignalExactSLTP(t *testing.T) {
	cfg := types.Default().Signal
	c := New(cfg)

	in := Inputs{
		MSDirection: "uptrend", MSScore: 8.0,
		OFDirection: "up", OFScore: 8.0,
		Price: 1.0850,
		ATR:   0.0010,
		DemandZone: &Zone{Low: 1.0800, High: 1.0805},
		SupplyZone: &Zone{Low: 1.0900, High: 1.0905},
	}

	d := c.Compose(in)
	require.True(t, d.Produced)
	assert.Equal(t, types.SideBuy, d.Action)
	assert.InDelta(t, 1.07980, d.StopLoss, 1e-9)
	assert.InDelta(t, 1.08980, d.TakeProfit, 1e-9)
	assert.Equal(t, "rule", d.DecisionMode)
}

func TestRuleBased_DisagreementSuppresses(t *testing.T) {
	cfg := types.Default().Signal
	c := New(cfg)

	in := Inputs{
		MSDirection: "uptrend", MSScore: 9.0,
		OFDirection: "down", OFScore: 9.0,
	}
	d := c.Compose(in)
	assert.False(t, d.Produced)
	assert.Contains(t, d.Reason, "disagreement")
}

func TestRuleBased_VolatileRegimeBumpsThreshold(t *testing.T) {
	cfg := types.Default().Signal
	cfg.VolatileRegimeThresholdBump = 1.0
	c := New(cfg)

	in := Inputs{
		MSDirection: "uptrend", MSScore: 7.5,
		OFDirection: "up", OFScore: 7.5,
		MSRegime: "volatile",
		Price:    100, ATR: 1,
	}
	d := c.Compose(in)
	assert.False(t, d.Produced, "combined 7.5 should be suppressed once bumped threshold is 8.0")
}

func TestConfidenceModifier_ClampsToBounds(t *testing.T) {
	assert.Equal(t, 0.5, confidenceModifier(-5))
	assert.Equal(t, 1.2, confidenceModifier(100))
	assert.InDelta(t, 0.85, confidenceModifier(5), 1e-9)
}
