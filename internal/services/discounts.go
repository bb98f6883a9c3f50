package services

import (
	"errors"
	"time"

	"restopos/internal/apierr"
	"restopos/internal/models"

	"gorm.io/gorm"
)

// DiscountService validates and prices discounts against a subtotal.
type DiscountService struct {
	db *gorm.DB
}

func NewDiscountService(db *gorm.DB) *DiscountService {
	return &DiscountService{db: db}
}

func activeWindow(q *gorm.DB, now time.Time) *gorm.DB {
	return q.Where("active = ?", true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at >= ?", now)
}

// FindActiveByID returns the discount only when it is active and inside its
// validity window; (nil, nil) when there is no such row.
func (s *DiscountService) FindActiveByID(id uint) (*models.Discount, error) {
	var d models.Discount
	err := activeWindow(s.db.Where("id = ?", id), time.Now()).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FindActiveByCode is the case-insensitive code variant of FindActiveByID.
func (s *DiscountService) FindActiveByCode(code string) (*models.Discount, error) {
	var d models.Discount
	err := activeWindow(s.db.Where("code IS NOT NULL AND UPPER(code) = UPPER(?)", code), time.Now()).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListAvailable returns the discounts a cashier may offer right now. With a
// subtotal given, rules whose minimum the subtotal does not reach are hidden.
func (s *DiscountService) ListAvailable(subtotal *float64) ([]models.Discount, error) {
	q := activeWindow(s.db.Model(&models.Discount{}), time.Now())
	if subtotal != nil {
		q = q.Where("min_subtotal <= ?", *subtotal)
	}
	var out []models.Discount
	err := q.Order("name").Find(&out).Error
	return out, err
}

// PriceDiscount computes the applied amount for a discount on a subtotal.
// Percent values are clamped to [0,100]; the result never exceeds the
// subtotal and never goes negative.
func PriceDiscount(d *models.Discount, subtotal float64) float64 {
	var amount float64
	switch d.Type {
	case models.DiscountPercent:
		v := clampMoney(d.Value, 0, 100)
		amount = round2(subtotal * v / 100)
	default:
		amount = d.Value
	}
	return round2(clampMoney(amount, 0, subtotal))
}

// CheckMinSubtotal enforces the minimum-subtotal gate.
func CheckMinSubtotal(d *models.Discount, subtotal float64) *apierr.Error {
	if d.MinSubtotal > 0 && subtotal < d.MinSubtotal-moneyEpsilon {
		return apierr.Validation("Subtotal below discount minimum").
			WithDetail("min_subtotal", d.MinSubtotal)
	}
	return nil
}
