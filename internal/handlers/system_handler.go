package handlers

import (
	"net/http"

	"restopos/internal/apierr"
	"restopos/internal/database"
	"restopos/internal/models"

	"github.com/gin-gonic/gin"
)

// GET /v1/system/status (admin only) - quick operational snapshot
func GetSystemStatus(c *gin.Context) {
	var openOrders, occupiedTables int64
	if err := database.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderOpen).Count(&openOrders).Error; err != nil {
		respondErr(c, apierr.Server(err))
		return
	}
	if err := database.DB.Model(&models.DiningTable{}).
		Where("status = ?", models.TableOccupied).Count(&occupiedTables).Error; err != nil {
		respondErr(c, apierr.Server(err))
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"status":          "online",
		"open_orders":     openOrders,
		"occupied_tables": occupiedTables,
	})
}
