// File: internal/orderflow/inventory.go
// ============================================
package orderflow

import "github.com/gatiella/alpha-core/pkg/types"

// InventoryAdjustment computes the mean-reverting signed component added
// to the flow score post-normalization (spec.md §4.4: "mean-reverting
// force toward neutral_level with rate mean_reversion_rate; contributes a
// signed component added post-normalization").
func InventoryAdjustment(inv types.InventoryModel) float64 {
	if inv.MaxPosition <= 0 {
		return 0
	}
	deviation := (inv.NeutralLevel - inv.Position) / inv.MaxPosition
	adjustment := deviation * inv.MeanReversionRate
	if adjustment > 1 {
		adjustment = 1
	}
	if adjustment < -1 {
		adjustment = -1
	}
	return adjustment
}
