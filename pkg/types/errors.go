// File: pkg/types/errors.go
// ============================================
package types

import "fmt"

// ErrorKind tags the recoverable-error taxonomy of the core (see the
// error handling design: InputInvalid, NumericsTransient, NumericsFatal,
// RiskReject, ExecutionExternal, Corruption).
type ErrorKind int

const (
	// KindNone means the operation succeeded.
	KindNone ErrorKind = iota
	// KindInputInvalid covers a bad bar, non-monotonic timestamp, or
	// missing ATR. The owning state is left unchanged.
	KindInputInvalid
	// KindNumericsTransient covers solver non-convergence or non-positive
	// variance; callers fall back to an ATR-based path.
	KindNumericsTransient
	// KindNumericsFatal covers NaN/Inf in a critical series; the analyzer
	// skips this tick but the slot remains healthy.
	KindNumericsFatal
	// KindRiskReject covers drawdown/daily-loss/VaR/cooldown rejections.
	KindRiskReject
	// KindExecutionExternal covers a failed submit or a stale quote,
	// surfaced back through on_fill with status rejected.
	KindExecutionExternal
	// KindCorruption covers a broken ring invariant; the process
	// terminates with a diagnostic snapshot.
	KindCorruption
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInputInvalid:
		return "input_invalid"
	case KindNumericsTransient:
		return "numerics_transient"
	case KindNumericsFatal:
		return "numerics_fatal"
	case KindRiskReject:
		return "risk_reject"
	case KindExecutionExternal:
		return "execution_external"
	case KindCorruption:
		return "corruption"
	default:
		return "unknown"
	}
}

// AnalysisResult is a tagged result used instead of a Go error for
// expected invalid/transient paths; store.PushBar returns it. The C3/C4
// result structs do not embed it: they carry their own Valid/Reason
// fields.
type AnalysisResult struct {
	Valid  bool
	Reason string
	Kind   ErrorKind
}

// Invalid builds a failed AnalysisResult carrying a reason and kind.
func Invalid(kind ErrorKind, reason string, args ...interface{}) AnalysisResult {
	if len(args) > 0 {
		reason = fmt.Sprintf(reason, args...)
	}
	return AnalysisResult{Valid: false, Reason: reason, Kind: kind}
}

// OK builds a successful AnalysisResult.
func OK() AnalysisResult {
	return AnalysisResult{Valid: true, Kind: KindNone}
}

// CorruptionError is the panic value cmd/engine recovers once at the top
// level, logging the diagnostic snapshot and exiting with status 1. No
// package in this module panics with it: the store's ring panics with a
// plain string on an out-of-range index, and nothing checks ring
// invariants.
type CorruptionError struct {
	Component string
	Detail    string
	Snapshot  map[string]interface{}
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("corruption in %s: %s", e.Component, e.Detail)
}
