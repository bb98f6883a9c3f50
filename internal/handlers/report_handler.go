package handlers

import (
	"net/http"
	"time"

	"restopos/internal/apierr"
	"restopos/internal/database"
	"restopos/internal/models"

	"github.com/gin-gonic/gin"
)

// GET /v1/reports/sales?from=YYYY-MM-DD&to=YYYY-MM-DD
// Defaults to today. The report reads receipts only.
func GetSalesReport(c *gin.Context) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	if v := c.Query("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			respondErr(c, apierr.Validation("from must be YYYY-MM-DD").WithDetail("field", "from"))
			return
		}
		start = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			respondErr(c, apierr.Validation("to must be YYYY-MM-DD").WithDetail("field", "to"))
			return
		}
		end = t.AddDate(0, 0, 1)
	}

	report, err := database.GetSalesReport(start, end)
	if err != nil {
		respondErr(c, apierr.Server(err))
		return
	}

	var recent []models.Receipt
	if err := database.DB.Order("paid_at DESC").Limit(10).Find(&recent).Error; err != nil {
		respondErr(c, apierr.Server(err))
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"from":            start,
		"to":              end,
		"total_revenue":   report.TotalRevenue,
		"receipt_count":   report.ReceiptCount,
		"discount_total":  report.DiscountTotal,
		"top_items":       report.TopItems,
		"recent_receipts": recent,
	})
}
