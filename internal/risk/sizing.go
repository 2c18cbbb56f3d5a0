// File: internal/risk/sizing.go
// ============================================
package risk

import "math"

// sizingMethodAndRiskPct picks between fixed-fractional and Kelly sizing
// per spec.md §4.6, falling back to fixed-fractional whenever Kelly is
// disabled or the trade history is too short (spec.md §8 scenario 6).
func (e *Evaluator) sizingMethodAndRiskPct() (SizingMethod, float64) {
	if !e.cfg.UseKellySizing || len(e.tradeHistory) < e.cfg.MinTradesForKelly {
		return SizingFixedFractional, e.cfg.RiskPerTrade
	}

	winRate, winLossRatio := e.rollingWinStats()
	if winLossRatio <= 0 {
		return SizingFixedFractional, e.cfg.RiskPerTrade
	}

	kellyStar := winRate - (1-winRate)/winLossRatio
	if kellyStar < 0 {
		kellyStar = 0
	}
	fraction := e.cfg.KellyFraction * kellyStar
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return SizingKelly, fraction
}

// rollingWinStats returns W (win rate) and R (avg win / avg loss) over the
// rolling trade history, grounded on the teacher's CalculateKellyCriterion
// (PnL-dollar averages, not R-multiples — see DESIGN.md open question (a)).
func (e *Evaluator) rollingWinStats() (winRate, winLossRatio float64) {
	wins := 0
	totalWin, totalLoss := 0.0, 0.0
	for _, t := range e.tradeHistory {
		if t.Success {
			wins++
			totalWin += t.PnL
		} else {
			totalLoss += math.Abs(t.PnL)
		}
	}
	total := len(e.tradeHistory)
	if total == 0 || wins == 0 || totalLoss == 0 {
		return 0, 0
	}
	winRate = float64(wins) / float64(total)
	avgWin := totalWin / float64(wins)
	avgLoss := totalLoss / float64(total-wins)
	if avgLoss == 0 {
		return winRate, 0
	}
	return winRate, avgWin / avgLoss
}

// correlationAdjustment implements spec.md §4.6's correlation-exposure
// factor: max(0.1, 1 - exposure/max_correlation_exposure).
func correlationAdjustment(exposure, maxExposure float64) float64 {
	if maxExposure <= 0 {
		return 1
	}
	factor := 1 - exposure/maxExposure
	if factor < 0.1 {
		return 0.1
	}
	return factor
}

// volatilityAdjustment scales risk down as volatility rises relative to a
// neutral baseline of 1% daily, matching the teacher's own volatility
// multiplier bands (CalculatePositionSize) generalized to a continuous
// GARCH/ATR-driven ratio instead of fixed tiers.
func volatilityAdjustment(dailyVolatility float64) float64 {
	if dailyVolatility <= 0 {
		return 1
	}
	const baseline = 0.01
	ratio := baseline / dailyVolatility
	if ratio > 1.5 {
		return 1.5
	}
	if ratio < 0.3 {
		return 0.3
	}
	return ratio
}
