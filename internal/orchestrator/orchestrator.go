// File: internal/orchestrator/orchestrator.go
// ============================================
package orchestrator

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatiella/alpha-core/internal/orderflow"
	"github.com/gatiella/alpha-core/internal/risk"
	"github.com/gatiella/alpha-core/internal/signal"
	"github.com/gatiella/alpha-core/internal/store"
	"github.com/gatiella/alpha-core/internal/structure"
	"github.com/gatiella/alpha-core/pkg/types"
)

// Orchestrator is C7. Its one inbound handler, OnBar, routes BAR events
// (there is no handler for TICK or MARKET_STATE_CHANGE events, and no
// OnTick or OnFill) through C2 (append), C3+C4 (independent analysis of the frozen
// snapshot), C5 (fusion) and C6 (evaluation), guaranteeing at-most-one
// concurrent evaluation per (symbol,timeframe) via a dedicated slot lock
// — generalized from the teacher's single ticker-driven `mainLoop` into a
// per-slot dispatcher (spec.md §5).
type Orchestrator struct {
	bars      *store.Store
	structure *structure.Analyzer
	flow      *orderflow.Analyzer
	composer  *signal.Composer
	riskEval  *risk.Evaluator
	account   AccountProvider
	inventory InventoryProvider
	predictor signal.Predictor
	log       zerolog.Logger

	mu    sync.Mutex
	slots map[slotKey]*sync.Mutex
}

type slotKey struct {
	symbol    string
	timeframe types.Timeframe
}

// New wires C2-C6 into an orchestrator bound to one account/inventory
// provider pair.
func New(bars *store.Store, structAnalyzer *structure.Analyzer, flowAnalyzer *orderflow.Analyzer, composer *signal.Composer, riskEval *risk.Evaluator, account AccountProvider, inventory InventoryProvider, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		bars:      bars,
		structure: structAnalyzer,
		flow:      flowAnalyzer,
		composer:  composer,
		riskEval:  riskEval,
		account:   account,
		inventory: inventory,
		log:       log,
		slots:     make(map[slotKey]*sync.Mutex),
	}
}

// SetPredictor wires the pluggable predictor capability consumed by
// decision mode 2 (spec.md §4.5(2)). Safe to call once at startup before
// any OnBar traffic begins.
func (o *Orchestrator) SetPredictor(p signal.Predictor) {
	o.predictor = p
}

func (o *Orchestrator) slotLock(symbol string, tf types.Timeframe) *sync.Mutex {
	key := slotKey{symbol, tf}
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.slots[key]
	if !ok {
		l = &sync.Mutex{}
		o.slots[key] = l
	}
	return l
}

// OnBar handles a completed BAR event: append to C2, re-run C3 and C4
// against the frozen snapshot, fuse via C5, and evaluate via C6.
func (o *Orchestrator) OnBar(symbol string, tf types.Timeframe, bar types.Bar, tick types.TickSnapshot, now time.Time) Outcome {
	lock := o.slotLock(symbol, tf)
	lock.Lock()
	defer lock.Unlock()

	logger := o.log.With().Str("symbol", symbol).Str("timeframe", string(tf)).Logger()

	pushResult := o.bars.PushBar(symbol, tf, bar)
	if !pushResult.Valid {
		logger.Warn().Str("reason", pushResult.Reason).Msg("bar rejected")
		return suppress(symbol, tf, now, pushResult.Reason, pushResult.Kind)
	}

	bars := o.bars.Bars(symbol, tf)

	msResult := o.structure.Analyze(symbol, tf, bars, now)
	if !msResult.Valid {
		logger.Debug().Str("reason", msResult.Reason).Msg("market structure analysis incomplete")
		return suppress(symbol, tf, now, msResult.Reason, types.KindInputInvalid)
	}

	var inventory types.InventoryModel
	if o.inventory != nil {
		inventory = o.inventory.Inventory(symbol)
	}
	ofResult := o.flow.Analyze(symbol, tf, bars, tick, inventory, now)
	if !ofResult.Valid {
		logger.Debug().Str("reason", ofResult.Reason).Msg("order flow analysis incomplete")
		return suppress(symbol, tf, now, ofResult.Reason, types.KindInputInvalid)
	}

	inputs := buildSignalInputs(symbol, tf, bar.Close, msResult, ofResult)
	inputs.Predictor = o.predictor
	decision := o.composer.Compose(inputs)
	if !decision.Produced {
		logger.Info().Str("reason", decision.Reason).Msg("signal suppressed by composer")
		return suppress(symbol, tf, now, decision.Reason, types.KindNone)
	}

	trade := signal.ToTrade(symbol, tf, bar.Close, now, inputs, decision)

	var account risk.AccountStatus
	if o.account != nil {
		account = o.account.AccountStatus()
	}
	account.DailyVolatility = dailyVolatility(msResult, ofResult, bar.Close)
	evalResult := o.riskEval.Evaluate(trade, account, now)
	if !evalResult.Accepted {
		logger.Info().Str("reason", evalResult.Reason).Msg("signal rejected by risk evaluator")
		return suppress(symbol, tf, now, evalResult.Reason, types.KindRiskReject)
	}

	if evalResult.AdjustedSignal != nil {
		trade = *evalResult.AdjustedSignal
	}
	trade.Quantity = evalResult.Volume
	logger.Info().Str("action", string(trade.Action)).Float64("score", trade.Score).Float64("quantity", trade.Quantity).Msg("signal accepted")

	return Outcome{
		Symbol: symbol, Timeframe: tf, Timestamp: now,
		Trade: &trade, Evaluation: &evalResult,
	}
}

// dailyVolatility fills risk.AccountStatus.DailyVolatility (spec.md §4.6's
// volatility_factor sizing adjustment and optional VaR check) from this
// bar's own C4/C3 reads, since the broker's AccountStatus carries no such
// notion: C4's GARCH forecast is preferred, C3's ATR ratio is the fallback
// when GARCH hasn't converged, matching risk.AccountStatus's
// DailyVolatility field comment.
func dailyVolatility(ms structure.Result, of orderflow.Result, price float64) float64 {
	if of.GARCHAvailable {
		return of.GARCHVolatilityForecast
	}
	if price > 0 {
		return ms.ATR / price
	}
	return 0
}

func suppress(symbol string, tf types.Timeframe, now time.Time, reason string, kind types.ErrorKind) Outcome {
	return Outcome{
		Symbol: symbol, Timeframe: tf, Timestamp: now,
		Suppressed: true, Reason: reason, Kind: kind,
	}
}

func buildSignalInputs(symbol string, tf types.Timeframe, price float64, ms structure.Result, of orderflow.Result) signal.Inputs {
	in := signal.Inputs{
		Symbol:        symbol,
		Timeframe:     tf,
		Price:         price,
		ATR:           ms.ATR,
		MSDirection:   string(ms.Direction),
		MSScore:       ms.StructureScore,
		MSRegime:      ms.Regime,
		OFDirection:   string(of.Direction),
		OFScore:       of.FlowScore,
		WyckoffPhase:  string(ms.WyckoffPhase),
		NearestSupply: ms.NearestSupply,
		NearestDemand: ms.NearestDemand,
		VSASignal:     string(of.VSASignal),
		VSAConfidence: of.VSAConfidence,
	}
	if ms.NearestDemandZone != nil {
		in.DemandZone = &signal.Zone{Low: ms.NearestDemandZone.Low, High: ms.NearestDemandZone.High}
	}
	if ms.NearestSupplyZone != nil {
		in.SupplyZone = &signal.Zone{Low: ms.NearestSupplyZone.Low, High: ms.NearestSupplyZone.High}
	}
	return in
}
