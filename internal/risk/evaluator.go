// File: internal/risk/evaluator.go
// ============================================
package risk

import (
	"fmt"
	"sync"
	"time"

	"github.com/gatiella/alpha-core/internal/numerics"
	"github.com/gatiella/alpha-core/pkg/types"
)

// Evaluator is C6. It owns the single-writer Risk state (spec.md §3) and
// a per-symbol trade-history/cooldown ledger; every public method takes
// its lock, matching the teacher's single in-process Manager shape.
type Evaluator struct {
	cfg types.RiskConfig

	mu    sync.Mutex
	state types.RiskState

	tradeHistory  []types.TradeResult
	cooldownUntil map[string]time.Time
}

// New constructs a risk evaluator seeded with an opening balance.
func New(cfg types.RiskConfig, initialBalance float64) *Evaluator {
	return &Evaluator{
		cfg: cfg,
		state: types.RiskState{
			CurrentBalance: initialBalance,
			PeakEquity:     initialBalance,
			OpenPositions:  make(map[string]types.Position),
			DayStart:       time.Now().UTC(),
		},
		cooldownUntil: make(map[string]time.Time),
	}
}

// Evaluate runs C6's ordered checks against a prospective signal and, if
// accepted, sizes it (spec.md §4.6).
func (e *Evaluator) Evaluate(signal types.Trade, account AccountStatus, now time.Time) EvaluationResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if account.Equity > e.state.PeakEquity {
		e.state.PeakEquity = account.Equity
	}

	if reason, ok := e.checkDrawdown(account); !ok {
		return EvaluationResult{Accepted: false, Reason: reason}
	}
	if reason, ok := e.checkDailyCaps(); !ok {
		return EvaluationResult{Accepted: false, Reason: reason}
	}
	if reason, ok := e.checkTradeCounts(); !ok {
		return EvaluationResult{Accepted: false, Reason: reason}
	}
	if reason, ok := e.checkVaR(account); !ok {
		return EvaluationResult{Accepted: false, Reason: reason}
	}
	if reason, ok := e.checkCooldown(signal.Symbol, now); !ok {
		return EvaluationResult{Accepted: false, Reason: reason}
	}

	slDistance := absFloat(signal.Entry - signal.StopLoss)
	if slDistance <= 0 {
		return EvaluationResult{Accepted: false, Reason: "signal has zero or invalid stop-loss distance"}
	}

	method, riskPct := e.sizingMethodAndRiskPct()
	correlationFactor := correlationAdjustment(account.CorrelationExposure, e.cfg.MaxCorrelationExposure)
	riskPct *= correlationFactor

	// dynamic_risk_enabled composition: multiplicative across signal
	// strength and volatility, matching the teacher's own
	// CalculatePositionSize (DESIGN.md open question (c)).
	if e.cfg.DynamicRiskEnabled {
		riskPct *= signal.ConfidenceModifier * volatilityAdjustment(account.DailyVolatility)
	}

	rawVolume := (account.Balance * riskPct) / (slDistance * e.cfg.PipValue)
	volume := roundToStep(rawVolume, e.cfg.VolumeStep)
	if rawVolume > 0 && volume < e.cfg.MinVolume {
		volume = e.cfg.MinVolume
	}
	if volume > e.cfg.MaxPositionSize {
		volume = e.cfg.MaxPositionSize
	}
	if volume <= 0 {
		return EvaluationResult{Accepted: false, Reason: "sized volume below minimum after risk adjustments"}
	}

	adjusted := signal
	return EvaluationResult{
		Accepted:       true,
		Volume:         volume,
		SizingMethod:   method,
		RiskPercent:    riskPct,
		AdjustedSignal: &adjusted,
	}
}

func (e *Evaluator) checkDrawdown(account AccountStatus) (string, bool) {
	if e.state.PeakEquity <= 0 {
		return "", true
	}
	drawdown := (e.state.PeakEquity - account.Equity) / e.state.PeakEquity
	if drawdown >= e.cfg.MaxDrawdown {
		return "Max Rolling Drawdown breached", false
	}
	return "", true
}

func (e *Evaluator) checkDailyCaps() (string, bool) {
	if e.cfg.MaxDailyLoss > 0 && e.state.DailyPnL <= -e.cfg.MaxDailyLoss {
		return fmt.Sprintf("daily loss cap reached: %.2f", e.state.DailyPnL), false
	}
	if e.cfg.MaxDailyProfit > 0 && e.state.DailyPnL >= e.cfg.MaxDailyProfit {
		return fmt.Sprintf("daily profit cap reached: %.2f", e.state.DailyPnL), false
	}
	return "", true
}

func (e *Evaluator) checkTradeCounts() (string, bool) {
	if e.cfg.MaxTradesPerDay > 0 && e.state.TradesToday >= e.cfg.MaxTradesPerDay {
		return "max trades per day reached", false
	}
	if e.cfg.MaxConsecutiveLosses > 0 && e.state.ConsecutiveLosses >= e.cfg.MaxConsecutiveLosses {
		return "max consecutive losses reached", false
	}
	return "", true
}

func (e *Evaluator) checkVaR(account AccountStatus) (string, bool) {
	if !e.cfg.VaREnabled || account.DailyVolatility <= 0 {
		return "", true
	}
	varAmount := numerics.ParametricVaR(account.Balance, account.DailyVolatility, e.cfg.VaRConfidenceLevel)
	if varAmount > e.cfg.MaxPortfolioVarRatio*account.Balance {
		return "portfolio VaR exceeds max_portfolio_var_ratio", false
	}
	return "", true
}

func (e *Evaluator) checkCooldown(symbol string, now time.Time) (string, bool) {
	until, ok := e.cooldownUntil[symbol]
	if ok && now.Before(until) {
		return fmt.Sprintf("%s is in cooldown until %s", symbol, until.Format(time.RFC3339)), false
	}
	return "", true
}

// RecordTradeClose updates the rolling trade history, daily PnL,
// consecutive-loss counter, and per-symbol cooldown after a position
// closes.
func (e *Evaluator) RecordTradeClose(result types.TradeResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tradeHistory = append(e.tradeHistory, result)
	const maxHistory = 200
	if len(e.tradeHistory) > maxHistory {
		e.tradeHistory = e.tradeHistory[len(e.tradeHistory)-maxHistory:]
	}

	e.state.DailyPnL += result.PnL
	e.state.TradesToday++
	e.state.TotalTrades++
	e.state.CurrentBalance += result.PnL

	if result.Success {
		e.state.ConsecutiveLosses = 0
	} else {
		e.state.ConsecutiveLosses++
	}

	cooldown := time.Duration(e.cfg.TradeCooldownMinutes) * time.Minute
	if !result.Success {
		cooldown = time.Duration(e.cfg.TradeCooldownMinutes*e.cfg.LossCooldownMultiplier) * time.Minute
	}
	e.cooldownUntil[result.Symbol] = result.ClosedAt.Add(cooldown)

	wins := 0
	for _, t := range e.tradeHistory {
		if t.Success {
			wins++
		}
	}
	if len(e.tradeHistory) > 0 {
		e.state.WinRate = float64(wins) / float64(len(e.tradeHistory))
	}
}

// ResetDay clears the daily counters at UTC midnight rollover.
func (e *Evaluator) ResetDay(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.DailyPnL = 0
	e.state.TradesToday = 0
	e.state.DayStart = now
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func roundToStep(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	steps := float64(int64(v/step + 0.5))
	return steps * step
}
