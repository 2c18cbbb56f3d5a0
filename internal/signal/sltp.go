// File: internal/signal/sltp.go
// ============================================
package signal

import (
	"fmt"

	"github.com/gatiella/alpha-core/pkg/types"
)

// constructStopsAndTargets builds SL/TP for a prospective signal, shared
// across all three decision modes. BUY draws its stop from the nearest
// demand zone's low and its target from the nearest supply zone's low;
// SELL is the mirror image using each zone's high.
func constructStopsAndTargets(action string, entry, atr float64, demand, supply *Zone, cfg types.SignalConfig) (sl, tp float64, slReason, tpReason string) {
	buffer := cfg.SLBufferATR * atr

	if action == "buy" {
		if demand != nil {
			sl = demand.Low - buffer
			slReason = fmt.Sprintf("demand zone low %.5f minus sl_buffer_atr*ATR %.5f", demand.Low, buffer)
		} else {
			sl = entry - cfg.ATRMultipleForSL*atr
			slReason = fmt.Sprintf("no demand zone: entry %.5f minus atr_multiple_for_sl*ATR %.5f", entry, cfg.ATRMultipleForSL*atr)
		}
		if supply != nil {
			tp = supply.Low - buffer
			tpReason = fmt.Sprintf("supply zone low %.5f minus sl_buffer_atr*ATR %.5f", supply.Low, buffer)
		} else {
			tp = entry + cfg.RiskRewardRatio*(entry-sl)
			tpReason = fmt.Sprintf("no supply zone: entry plus risk_reward_ratio*%.2f times SL distance", cfg.RiskRewardRatio)
		}
		return sl, tp, slReason, tpReason
	}

	// sell
	if supply != nil {
		sl = supply.High + buffer
		slReason = fmt.Sprintf("supply zone high %.5f plus sl_buffer_atr*ATR %.5f", supply.High, buffer)
	} else {
		sl = entry + cfg.ATRMultipleForSL*atr
		slReason = fmt.Sprintf("no supply zone: entry %.5f plus atr_multiple_for_sl*ATR %.5f", entry, cfg.ATRMultipleForSL*atr)
	}
	if demand != nil {
		tp = demand.High + buffer
		tpReason = fmt.Sprintf("demand zone high %.5f plus sl_buffer_atr*ATR %.5f", demand.High, buffer)
	} else {
		tp = entry - cfg.RiskRewardRatio*(sl-entry)
		tpReason = fmt.Sprintf("no demand zone: entry minus risk_reward_ratio*%.2f times SL distance", cfg.RiskRewardRatio)
	}
	return sl, tp, slReason, tpReason
}

// confidenceModifier is the shared sizing multiplier of spec.md §4.5,
// clamped to [0.5, 1.2].
func confidenceModifier(score float64) float64 {
	m := 0.5 + 0.7*score/10
	if m < 0.5 {
		return 0.5
	}
	if m > 1.2 {
		return 1.2
	}
	return m
}
