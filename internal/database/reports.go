package database

import (
	"time"

	"restopos/internal/models"
)

// SalesReportResult aggregates the immutable receipts for a date range.
type SalesReportResult struct {
	TotalRevenue  float64      `json:"total_revenue"`
	ReceiptCount  int64        `json:"receipt_count"`
	DiscountTotal float64      `json:"discount_total"`
	TopItems      []TopItemRow `json:"top_items"`
}

type TopItemRow struct {
	ItemName string  `json:"item_name"`
	Sold     int     `json:"sold"`
	Revenue  float64 `json:"revenue"`
}

// GetSalesReport reads from receipts, never live orders, so the numbers stay
// stable after catalog changes.
func GetSalesReport(start, end time.Time) (*SalesReportResult, error) {
	var result SalesReportResult

	if err := DB.Model(&models.Receipt{}).Where("paid_at BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(total), 0)").Scan(&result.TotalRevenue).Error; err != nil {
		return nil, err
	}
	if err := DB.Model(&models.Receipt{}).Where("paid_at BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(discount_total), 0)").Scan(&result.DiscountTotal).Error; err != nil {
		return nil, err
	}
	if err := DB.Model(&models.Receipt{}).Where("paid_at BETWEEN ? AND ?", start, end).
		Count(&result.ReceiptCount).Error; err != nil {
		return nil, err
	}

	err := DB.Table("receipt_items").
		Select("receipt_items.item_name, SUM(receipt_items.qty) AS sold, SUM(receipt_items.line_total) AS revenue").
		Joins("JOIN receipts ON receipts.id = receipt_items.receipt_id").
		Where("receipts.paid_at BETWEEN ? AND ?", start, end).
		Group("receipt_items.item_name").
		Order("sold DESC").
		Limit(5).
		Scan(&result.TopItems).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}
