package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"restopos/internal/apierr"
	"restopos/internal/database"
	"restopos/internal/services"

	"github.com/gin-gonic/gin"
)

func kitchenFiltersFromQuery(c *gin.Context) services.KitchenFilters {
	var f services.KitchenFilters
	if v := c.Query("station_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			u := uint(id)
			f.StationID = &u
		}
	}
	f.AreaCode = c.Query("area_code")
	f.TableCode = c.Query("table_code")
	if v := c.Query("category_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			u := uint(id)
			f.CategoryID = &u
		}
	}
	if v := c.Query("statuses"); v != "" {
		seen := map[string]bool{}
		for _, s := range strings.Split(v, ",") {
			s = strings.TrimSpace(s)
			if s != "" && !seen[s] {
				seen[s] = true
				f.Statuses = append(f.Statuses, s)
			}
		}
	}
	return f
}

// GET /v1/kitchen/queue
func KitchenQueue(c *gin.Context) {
	svc := services.NewKitchenService(database.DB)
	rows, e := svc.Queue(kitchenFiltersFromQuery(c))
	if e != nil {
		respondErr(c, e)
		return
	}
	respondOK(c, http.StatusOK, rows)
}

// GET /v1/kitchen/history
func KitchenHistory(c *gin.Context) {
	svc := services.NewKitchenService(database.DB)
	rows, e := svc.History(kitchenFiltersFromQuery(c))
	if e != nil {
		respondErr(c, e)
		return
	}
	respondOK(c, http.StatusOK, rows)
}

type SetItemStatusRequest struct {
	KitchenStatus string  `json:"kitchen_status" binding:"required"`
	CancelReason  *string `json:"cancel_reason"`
}

// PUT /v1/kitchen/items/:id/status
func SetKitchenItemStatus(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		badInput(c, "Invalid order item id")
		return
	}
	var req SetItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apierr.Validation("kitchen_status is required").WithDetail("field", "kitchen_status"))
		return
	}
	svc := services.NewKitchenService(database.DB)
	if e := svc.SetItemStatus(id, req.KitchenStatus, req.CancelReason); e != nil {
		respondErr(c, e)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"order_item_id": id, "kitchen_status": req.KitchenStatus})
}
