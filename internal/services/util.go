package services

import (
	"fmt"
	"math"
	"time"

	"restopos/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Half-cent tolerance for two-decimal money comparisons.
const moneyEpsilon = 0.005

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampMoney(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// lockForUpdate adds a row lock on dialects that support it. sqlite (used in
// tests) has no SELECT ... FOR UPDATE; its writes are serialized globally.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// formatAmount renders money for receipt text: no decimals, no separators.
func formatAmount(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

// makeReceiptNo derives the receipt number from the closing date and order id.
func makeReceiptNo(orderID uint, at time.Time) string {
	return fmt.Sprintf("RCP-%s-%d", at.Format("20060102"), orderID)
}

// modifiersText flattens modifier snapshots into the kitchen/receipt display
// form: "Extra Beef(+15000) x2; No Onion".
func modifiersText(mods []models.OrderItemModifier) string {
	out := ""
	for i, m := range mods {
		if i > 0 {
			out += "; "
		}
		out += m.OptionName
		if m.UnitDelta != 0 {
			out += "(+" + formatAmount(m.UnitDelta) + ")"
		}
		if m.Qty > 1 {
			out += fmt.Sprintf(" x%d", m.Qty)
		}
	}
	return out
}
