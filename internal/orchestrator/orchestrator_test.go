// File: internal/orchestrator/orchestrator_test.go
// ============================================
package orchestrator

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/gatiella/alpha-core/internal/orderflow"
	"github.com/gatiella/alpha-core/internal/risk"
	"github.com/gatiella/alpha-core/internal/signal"
	"github.com/gatiella/alpha-core/internal/store"
	"github.com/gatiella/alpha-core/internal/structure"
	"github.com/gatiella/alpha-core/pkg/types"
)

type stubAccount struct{ status risk.AccountStatus }

func (s stubAccount) AccountStatus() risk.AccountStatus { return s.status }

type stubInventory struct{}

func (stubInventory) Inventory(symbol string) types.InventoryModel {
	return types.InventoryModel{Symbol: symbol, MaxPosition: 1, MeanReversionRate: 0.1}
}

func newTestOrchestrator() *Orchestrator {
	cfg := types.Default()
	bars := store.New(500)
	structAnalyzer := structure.New(cfg.Structure)
	flowAnalyzer := orderflow.New(cfg.Numerics, cfg.OrderFlow)
	composer := signal.New(cfg.Signal)
	riskEval := risk.New(cfg.Risk, 100000)

	account := stubAccount{status: risk.AccountStatus{Equity: 100000, Balance: 100000}}
	return New(bars, structAnalyzer, flowAnalyzer, composer, riskEval, account, stubInventory{}, zerolog.Nop())
}

func syntheticBar(i int, base time.Time, price *float64) types.Bar {
	state := uint64(90210 + i*7)
	state ^= state << 13
	state ^= state >> 7
	state ^= state << 17
	noise := float64(state%201)/1000.0 - 0.1
	*price += noise
	p := *price
	return types.Bar{
		Symbol: "BTCUSDT", Timeframe: types.TF1Hour,
		Timestamp: base.Add(time.Duration(i) * time.Hour),
		Open: p - 0.2, High: p + 0.3, Low: p - 0.3, Close: p,
		Volume: 80 + float64(i%10)*5,
	}
}

func TestOnBar_RejectsInvalidBar(t *testing.T) {
	o := newTestOrchestrator()
	bad := types.Bar{Symbol: "BTCUSDT", Timeframe: types.TF1Hour, Open: 10, High: 5, Low: 1, Close: 8, Volume: 10}
	tick := types.TickSnapshot{Bid: 9.9, Ask: 10.1, LastPrice: 10}

	outcome := o.OnBar("BTCUSDT", types.TF1Hour, bad, tick, time.Now())
	assert.True(t, outcome.Suppressed)
	assert.Equal(t, types.KindInputInvalid, outcome.Kind)
	assert.Nil(t, outcome.Trade)
}

func TestOnBar_InsufficientHistorySuppresses(t *testing.T) {
	o := newTestOrchestrator()
	base := time.Unix(1_700_000_000, 0).UTC()
	price := 100.0
	bar := syntheticBar(0, base, &price)
	tick := types.TickSnapshot{Bid: bar.Close - 0.1, Ask: bar.Close + 0.1, LastPrice: bar.Close}

	outcome := o.OnBar("BTCUSDT", types.TF1Hour, bar, tick, bar.Timestamp)
	assert.True(t, outcome.Suppressed)
}

func TestOnBar_RunsFullPipelineWithoutPanicking(t *testing.T) {
	o := newTestOrchestrator()
	base := time.Unix(1_700_000_000, 0).UTC()
	price := 100.0

	var last Outcome
	for i := 0; i < 300; i++ {
		bar := syntheticBar(i, base, &price)
		tick := types.TickSnapshot{Bid: bar.Close - 0.1, Ask: bar.Close + 0.1, LastPrice: bar.Close, BidSize: 60, AskSize: 40}
		last = o.OnBar("BTCUSDT", types.TF1Hour, bar, tick, bar.Timestamp)
	}

	if last.Trade != nil {
		assert.True(t, last.Trade.Score >= 0 && last.Trade.Score <= 10)
	} else {
		assert.True(t, last.Suppressed)
		assert.NotEmpty(t, last.Reason)
	}
}

func TestDailyVolatility_PrefersGARCHForecast(t *testing.T) {
	ms := structure.Result{ATR: 5}
	of := orderflow.Result{GARCHAvailable: true, GARCHVolatilityForecast: 0.02}
	assert.InDelta(t, 0.02, dailyVolatility(ms, of, 100), 1e-9)
}

func TestDailyVolatility_FallsBackToATRRatio(t *testing.T) {
	ms := structure.Result{ATR: 2}
	of := orderflow.Result{GARCHAvailable: false}
	assert.InDelta(t, 0.02, dailyVolatility(ms, of, 100), 1e-9)
}

func TestDailyVolatility_ZeroPriceIsZero(t *testing.T) {
	ms := structure.Result{ATR: 2}
	of := orderflow.Result{GARCHAvailable: false}
	assert.Equal(t, 0.0, dailyVolatility(ms, of, 0))
}

func TestOnBar_VaRBreachRejectsOtherwiseAcceptedSignal(t *testing.T) {
	cfg := types.Default()
	cfg.Risk.VaREnabled = true
	cfg.Risk.MaxPortfolioVarRatio = 1e-9 // any non-zero DailyVolatility now breaches VaR
	bars := store.New(500)
	structAnalyzer := structure.New(cfg.Structure)
	flowAnalyzer := orderflow.New(cfg.Numerics, cfg.OrderFlow)
	composer := signal.New(cfg.Signal)
	riskEval := risk.New(cfg.Risk, 100000)
	account := stubAccount{status: risk.AccountStatus{Equity: 100000, Balance: 100000}}
	o := New(bars, structAnalyzer, flowAnalyzer, composer, riskEval, account, stubInventory{}, zerolog.Nop())

	base := time.Unix(1_700_000_000, 0).UTC()
	price := 100.0
	for i := 0; i < 300; i++ {
		bar := syntheticBar(i, base, &price)
		tick := types.TickSnapshot{Bid: bar.Close - 0.1, Ask: bar.Close + 0.1, LastPrice: bar.Close, BidSize: 60, AskSize: 40}
		out := o.OnBar("BTCUSDT", types.TF1Hour, bar, tick, bar.Timestamp)
		if out.Suppressed && out.Kind == types.KindRiskReject {
			assert.Contains(t, out.Reason, "VaR")
		}
		assert.Nil(t, out.Trade, "no trade should ever clear an effectively-zero VaR ratio")
	}
}

func TestOnBar_SeparateSymbolsUseIndependentSlots(t *testing.T) {
	o := newTestOrchestrator()
	base := time.Unix(1_700_000_000, 0).UTC()
	priceA, priceB := 100.0, 50.0

	barA := syntheticBar(0, base, &priceA)
	barA.Symbol = "BTCUSDT"
	barB := syntheticBar(0, base, &priceB)
	barB.Symbol = "ETHUSDT"

	tickA := types.TickSnapshot{Bid: barA.Close - 0.1, Ask: barA.Close + 0.1, LastPrice: barA.Close}
	tickB := types.TickSnapshot{Bid: barB.Close - 0.1, Ask: barB.Close + 0.1, LastPrice: barB.Close}

	outA := o.OnBar("BTCUSDT", types.TF1Hour, barA, tickA, barA.Timestamp)
	outB := o.OnBar("ETHUSDT", types.TF1Hour, barB, tickB, barB.Timestamp)

	assert.Equal(t, "BTCUSDT", outA.Symbol)
	assert.Equal(t, "ETHUSDT", outB.Symbol)
}
