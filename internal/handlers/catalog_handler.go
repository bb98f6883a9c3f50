package handlers

import (
	"net/http"
	"strconv"

	"restopos/internal/apierr"
	"restopos/internal/database"
	"restopos/internal/models"
	"restopos/internal/services"

	"github.com/gin-gonic/gin"
)

// Read-only catalog/floor endpoints the order screens are built from.
// Catalog CRUD itself is managed elsewhere.

// GET /v1/tables?area_id=&status=
func ListTables(c *gin.Context) {
	q := database.DB.Table("dining_tables dt").
		Select("dt.*, a.code AS area_code, a.name AS area_name").
		Joins("JOIN areas a ON a.id = dt.area_id").
		Order("a.sort, dt.number")
	if v := c.Query("area_id"); v != "" {
		q = q.Where("dt.area_id = ?", v)
	}
	if v := c.Query("status"); v != "" {
		q = q.Where("dt.status = ?", v)
	}
	var rows []struct {
		models.DiningTable
		AreaCode string `json:"area_code"`
		AreaName string `json:"area_name"`
	}
	if err := q.Scan(&rows).Error; err != nil {
		respondErr(c, apierr.Server(err))
		return
	}
	respondOK(c, http.StatusOK, rows)
}

type SetTableStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PUT /v1/tables/:id/status - the manual reset transition (cleaning -> free,
// or forcing a table into cleaning). Occupancy itself is driven by orders.
func SetTableStatus(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		badInput(c, "Invalid table id")
		return
	}
	var req SetTableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apierr.Validation("status is required").WithDetail("field", "status"))
		return
	}
	switch req.Status {
	case models.TableFree, models.TableCleaning:
	default:
		respondErr(c, apierr.Validation("Status must be free or cleaning").WithDetail("field", "status"))
		return
	}
	res := database.DB.Model(&models.DiningTable{}).Where("id = ?", id).Update("status", req.Status)
	if res.Error != nil {
		respondErr(c, apierr.Server(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondErr(c, apierr.NotFound("Table not found"))
		return
	}
	respondOK(c, http.StatusOK, gin.H{"table_id": id, "status": req.Status})
}

// GET /v1/catalog/items?category_id=
func ListItems(c *gin.Context) {
	q := database.DB.Where("enabled = ?", true).Order("name")
	if v := c.Query("category_id"); v != "" {
		q = q.Where("category_id = ?", v)
	}
	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		respondErr(c, apierr.Server(err))
		return
	}
	respondOK(c, http.StatusOK, items)
}

// GET /v1/discounts/available?subtotal=
func ListAvailableDiscounts(c *gin.Context) {
	var subtotal *float64
	if v := c.Query("subtotal"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			subtotal = &f
		}
	}
	svc := services.NewDiscountService(database.DB)
	rows, err := svc.ListAvailable(subtotal)
	if err != nil {
		respondErr(c, apierr.Server(err))
		return
	}
	respondOK(c, http.StatusOK, rows)
}

// GET /v1/payment-methods
func ListPaymentMethods(c *gin.Context) {
	var rows []models.PaymentMethod
	if err := database.DB.Where("enabled = ?", true).Order("name").Find(&rows).Error; err != nil {
		respondErr(c, apierr.Server(err))
		return
	}
	respondOK(c, http.StatusOK, rows)
}

// GET /v1/reason-codes
func ListReasonCodes(c *gin.Context) {
	var rows []models.ReasonCode
	if err := database.DB.Order("id").Find(&rows).Error; err != nil {
		respondErr(c, apierr.Server(err))
		return
	}
	respondOK(c, http.StatusOK, rows)
}
