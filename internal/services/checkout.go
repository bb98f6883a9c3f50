package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"restopos/internal/apierr"
	"restopos/internal/models"

	"gorm.io/gorm"
)

// CheckoutService closes an order atomically: recomputes the subtotal,
// resolves the discount, records payments, snapshots the receipt and sends
// the table to cleaning. Everything runs in one transaction; any failure
// rolls the whole checkout back.
type CheckoutService struct {
	db *gorm.DB
	// strictPayments makes checkout reject payment breakdowns whose sum
	// differs from the computed total.
	strictPayments bool
}

func NewCheckoutService(db *gorm.DB, strictPayments bool) *CheckoutService {
	return &CheckoutService{db: db, strictPayments: strictPayments}
}

// DiscountRef selects the discount to apply: a stored rule by id or code, or
// an ad-hoc amount with no rule linkage.
type DiscountRef struct {
	ID     *uint    `json:"id"`
	Code   *string  `json:"code"`
	Amount *float64 `json:"amount"`
}

type PaymentEntry struct {
	Method string  `json:"method" binding:"required"`
	Amount float64 `json:"amount"`
	RefNo  *string `json:"ref_no"`
}

// CheckoutPayload is the caller-supplied half of checkout. Tax and service
// totals are trusted as given; that policy lives outside this engine.
type CheckoutPayload struct {
	Discount      *DiscountRef   `json:"discount"`
	DiscountTotal float64        `json:"discount_total"` // legacy flat amount, used when Discount is absent
	TaxTotal      float64        `json:"tax_total"`
	ServiceTotal  float64        `json:"service_total"`
	Payments      []PaymentEntry `json:"payments"`
	Note          *string        `json:"note"`
}

// ReceiptSummary is what checkout returns to the caller.
type ReceiptSummary struct {
	ID            uint      `json:"id"`
	ReceiptNo     string    `json:"receipt_no"`
	TableCode     *string   `json:"table_code"`
	AreaCode      *string   `json:"area_code"`
	Subtotal      float64   `json:"subtotal"`
	DiscountTotal float64   `json:"discount_total"`
	TaxTotal      float64   `json:"tax_total"`
	ServiceTotal  float64   `json:"service_total"`
	Total         float64   `json:"total"`
	PaidMethods   string    `json:"paid_methods"`
	PaidAt        time.Time `json:"paid_at"`
}

func (s *CheckoutService) Checkout(orderID, cashierID uint, payload CheckoutPayload) (*ReceiptSummary, *apierr.Error) {
	var summary *ReceiptSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the order row first: a concurrent cancel or second checkout
		// waits here and then observes status != open.
		var order models.Order
		if err := lockForUpdate(tx).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("Order not found")
			}
			return err
		}
		if order.Status != models.OrderOpen {
			return apierr.Conflict("Order not open")
		}

		// Never trust a client-supplied subtotal.
		var subtotal float64
		if err := tx.Model(&models.OrderItem{}).Where("order_id = ?", orderID).
			Select("COALESCE(SUM(line_total), 0)").Scan(&subtotal).Error; err != nil {
			return err
		}
		subtotal = round2(subtotal)

		discountTotal, usage, err := s.resolveDiscount(tx, orderID, subtotal, payload)
		if err != nil {
			return err
		}

		tax := round2(payload.TaxTotal)
		service := round2(payload.ServiceTotal)
		total := round2(math.Max(0, subtotal-discountTotal+tax+service))

		now := time.Now()
		payments := payload.Payments
		if len(payments) == 0 {
			payments = []PaymentEntry{{Method: "cash", Amount: total}}
		}
		if s.strictPayments {
			sum := 0.0
			for _, p := range payments {
				sum += p.Amount
			}
			if math.Abs(round2(sum)-total) > moneyEpsilon {
				return apierr.Validation("Payments do not sum to total").
					WithDetail("total", total).WithDetail("paid", round2(sum))
			}
		}

		paidParts := make([]string, 0, len(payments))
		for _, p := range payments {
			var method models.PaymentMethod
			if err := tx.Where("code = ? AND enabled = ?", p.Method, true).
				First(&method).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierr.Validation("Invalid payment method: " + p.Method).
						WithDetail("field", "payments")
				}
				return err
			}
			pay := models.Payment{
				OrderID:  orderID,
				MethodID: method.ID,
				Amount:   round2(p.Amount),
				PaidAt:   now,
				RefNo:    p.RefNo,
			}
			if err := tx.Create(&pay).Error; err != nil {
				return err
			}
			paidParts = append(paidParts, fmt.Sprintf("%s:%s", p.Method, formatAmount(p.Amount)))
		}
		paidMethods := strings.Join(paidParts, ",")

		updates := map[string]interface{}{
			"subtotal":       subtotal,
			"discount_total": discountTotal,
			"tax_total":      tax,
			"service_total":  service,
			"total":          total,
			"status":         models.OrderClosed,
			"closed_by":      cashierID,
			"closed_at":      now,
		}
		if payload.Note != nil {
			updates["note"] = *payload.Note
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
			return err
		}

		// Replace any previous usage record wholesale.
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderDiscount{}).Error; err != nil {
			return err
		}
		if usage != nil {
			if err := tx.Create(usage).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.DiningTable{}).Where("id = ?", order.TableID).
			Update("status", models.TableCleaning).Error; err != nil {
			return err
		}

		var loc struct {
			TableCode *string
			AreaCode  *string
		}
		if err := tx.Table("orders").
			Select("dt.code AS table_code, a.code AS area_code").
			Joins("LEFT JOIN dining_tables dt ON dt.id = orders.table_id").
			Joins("LEFT JOIN areas a ON a.id = dt.area_id").
			Where("orders.id = ?", orderID).
			Scan(&loc).Error; err != nil {
			return err
		}

		cashierName := "N/A"
		var cashier models.User
		if err := tx.First(&cashier, cashierID).Error; err == nil {
			cashierName = cashier.Name
		}

		receipt := models.Receipt{
			OrderID:       orderID,
			ReceiptNo:     makeReceiptNo(orderID, now),
			TableCode:     loc.TableCode,
			AreaCode:      loc.AreaCode,
			CashierID:     cashierID,
			CashierName:   cashierName,
			CustomerName:  order.CustomerName,
			Subtotal:      subtotal,
			DiscountTotal: discountTotal,
			TaxTotal:      tax,
			ServiceTotal:  service,
			Total:         total,
			PaidMethods:   paidMethods,
			PaidAt:        now,
			Note:          payload.Note,
		}
		if err := tx.Create(&receipt).Error; err != nil {
			return err
		}

		if err := s.snapshotReceiptItems(tx, orderID, receipt.ID); err != nil {
			return err
		}

		summary = &ReceiptSummary{
			ID:            receipt.ID,
			ReceiptNo:     receipt.ReceiptNo,
			TableCode:     loc.TableCode,
			AreaCode:      loc.AreaCode,
			Subtotal:      subtotal,
			DiscountTotal: discountTotal,
			TaxTotal:      tax,
			ServiceTotal:  service,
			Total:         total,
			PaidMethods:   paidMethods,
			PaidAt:        now,
		}
		return nil
	})
	if err != nil {
		return nil, apierr.From(err)
	}
	return summary, nil
}

// resolveDiscount turns the payload's discount reference into the applied
// amount plus an optional usage snapshot. An invalid or inapplicable rule
// fails the whole checkout.
func (s *CheckoutService) resolveDiscount(tx *gorm.DB, orderID uint, subtotal float64, payload CheckoutPayload) (float64, *models.OrderDiscount, error) {
	ref := payload.Discount
	if ref == nil {
		return round2(payload.DiscountTotal), nil, nil
	}

	if ref.Amount != nil {
		applied := round2(clampMoney(*ref.Amount, 0, subtotal))
		usage := &models.OrderDiscount{
			OrderID: orderID,
			Name:    "Ad-hoc discount",
			Type:    models.DiscountAmount,
			Value:   *ref.Amount,
			Applied: applied,
		}
		return applied, usage, nil
	}

	ds := NewDiscountService(tx)
	var d *models.Discount
	var err error
	switch {
	case ref.ID != nil:
		d, err = ds.FindActiveByID(*ref.ID)
	case ref.Code != nil:
		d, err = ds.FindActiveByCode(*ref.Code)
	default:
		return 0, nil, apierr.Validation("Discount reference is empty").WithDetail("field", "discount")
	}
	if err != nil {
		return 0, nil, err
	}
	if d == nil {
		return 0, nil, apierr.Validation("Discount not found or not active").WithDetail("field", "discount")
	}
	if e := CheckMinSubtotal(d, subtotal); e != nil {
		return 0, nil, e
	}

	applied := PriceDiscount(d, subtotal)
	usage := &models.OrderDiscount{
		OrderID:    orderID,
		DiscountID: &d.ID,
		Code:       d.Code,
		Name:       d.Name,
		Type:       d.Type,
		Value:      d.Value,
		Applied:    applied,
	}
	return applied, usage, nil
}

// snapshotReceiptItems freezes every order line onto the receipt so later
// catalog or order edits can never alter the financial record.
func (s *CheckoutService) snapshotReceiptItems(tx *gorm.DB, orderID, receiptID uint) error {
	var lines []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Order("id").
		Preload("Modifiers").Find(&lines).Error; err != nil {
		return err
	}
	for _, line := range lines {
		item := models.ReceiptItem{
			ReceiptID:     receiptID,
			ItemName:      line.ItemName,
			Qty:           line.Qty,
			UnitPrice:     line.UnitPrice,
			ModifiersText: modifiersText(line.Modifiers),
			LineTotal:     line.LineTotal,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}
