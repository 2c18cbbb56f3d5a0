// File: internal/numerics/var.go
// ============================================
package numerics

import "gonum.org/v1/gonum/stat/distuv"

// ParametricVaR returns the 1-day parametric Value-at-Risk in account
// currency: balance * dailyVolatility * z(confidence), where z is the
// standard normal quantile at the requested confidence level. dailyVolatility
// is a fractional return standard deviation (e.g. GARCH forecast or
// rolling stdev of log returns).
func ParametricVaR(balance, dailyVolatility, confidence float64) float64 {
	if balance <= 0 || dailyVolatility <= 0 {
		return 0
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.99
	}
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(confidence)
	return balance * dailyVolatility * z
}
