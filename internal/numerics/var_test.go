// File: internal/numerics/var_test.go
// ============================================
package numerics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParametricVaR_ScalesWithBalanceAndVol(t *testing.T) {
	low := ParametricVaR(100000, 0.01, 0.99)
	high := ParametricVaR(200000, 0.01, 0.99)
	assert.Greater(t, high, low)
	assert.InDelta(t, high, 2*low, 1e-6)
}

func TestParametricVaR_DegenerateInputsAreZero(t *testing.T) {
	assert.Equal(t, 0.0, ParametricVaR(0, 0.01, 0.99))
	assert.Equal(t, 0.0, ParametricVaR(100000, 0, 0.99))
}
