// File: internal/orderflow/vsa.go
// ============================================
package orderflow

import "github.com/gatiella/alpha-core/pkg/types"

// VSARule evaluates the last bar against the fixed Volume Spread Analysis
// rule table of spec.md §4.4, returning the first matching signal
// (rules are mutually exclusive by construction: NoDemand/NoSupply key
// off bar direction, UpthrustPotential/StoppingVolume off close
// position).
func VSARule(bar, prev types.Bar, atr, avgVolume float64) (VSASignal, float64) {
	if atr <= 0 || avgVolume <= 0 {
		return VSANone, 0
	}
	spread := bar.High - bar.Low
	if spread <= 0 {
		return VSANone, 0
	}
	spreadRatio := spread / atr
	volRatio := bar.Volume / avgVolume
	closePosition := (bar.Close - bar.Low) / spread

	isUpBar := bar.Close > bar.Open
	isDownBar := bar.Close < bar.Open

	switch {
	case isUpBar && spreadRatio < 0.5 && volRatio < 0.5 && bar.Close < prev.Close:
		return VSANoDemand, 0.7
	case isDownBar && spreadRatio < 0.5 && volRatio < 0.5 && bar.Close > prev.Close:
		return VSANoSupply, 0.7
	case isUpBar && closePosition < 0.33 && volRatio > 2.0:
		return VSAUpthrustPotential, 0.6
	case spreadRatio > 1.5 && volRatio > 2.0 && closePosition >= 0.33 && closePosition <= 0.66:
		return VSAStoppingVolume, 0.65
	default:
		return VSANone, 0
	}
}
