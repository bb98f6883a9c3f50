package handlers

import (
	"net/http"
	"strings"

	"restopos/internal/apierr"
	"restopos/internal/database"
	"restopos/internal/services"

	"github.com/gin-gonic/gin"
)

type CreateOrderRequest struct {
	TableID      uint    `json:"table_id" binding:"required"`
	CustomerName *string `json:"customer_name"`
}

// POST /v1/orders
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apierr.Validation("table_id is required").WithDetail("field", "table_id"))
		return
	}
	svc := services.NewOrderService(database.DB)
	orderID, e := svc.Create(req.TableID, currentUserID(c), req.CustomerName)
	if e != nil {
		respondErr(c, e)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"order_id": orderID})
}

// GET /v1/orders?status=open|closed|cancelled|all
func ListOrders(c *gin.Context) {
	raw := strings.ToLower(strings.TrimSpace(c.DefaultQuery("status", "open")))
	var status *string
	switch raw {
	case "all", "":
		status = nil
	case "open", "closed", "cancelled":
		status = &raw
	default:
		// Unknown filters fall back to the open list.
		open := "open"
		status = &open
	}
	svc := services.NewOrderService(database.DB)
	rows, e := svc.List(status)
	if e != nil {
		respondErr(c, e)
		return
	}
	respondOK(c, http.StatusOK, rows)
}

// GET /v1/orders/:id
func GetOrder(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		badInput(c, "Invalid order id")
		return
	}
	svc := services.NewOrderService(database.DB)
	detail, e := svc.GetFull(id)
	if e != nil {
		respondErr(c, e)
		return
	}
	respondOK(c, http.StatusOK, detail)
}

type AddItemRequest struct {
	ItemID    uint    `json:"item_id" binding:"required"`
	Qty       int     `json:"qty" binding:"required,min=1"`
	Note      *string `json:"note"`
	Modifiers []uint  `json:"modifiers"`
}

// POST /v1/orders/:id/items
func AddOrderItem(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		badInput(c, "Invalid order id")
		return
	}
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apierr.Validation("item_id and qty (>=1) are required"))
		return
	}
	svc := services.NewOrderService(database.DB)
	lineID, e := svc.AddItem(id, req.ItemID, req.Qty, req.Note, req.Modifiers)
	if e != nil {
		respondErr(c, e)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"order_item_id": lineID})
}

type UpdateItemRequest struct {
	Qty       *int    `json:"qty"`
	Note      *string `json:"note"`
	Modifiers *[]uint `json:"modifiers"`
}

// PUT /v1/order-items/:id
func UpdateOrderItem(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		badInput(c, "Invalid order item id")
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Invalid request body")
		return
	}
	svc := services.NewOrderService(database.DB)
	line, e := svc.UpdateItem(id, services.ItemUpdate{Qty: req.Qty, Note: req.Note, Modifiers: req.Modifiers})
	if e != nil {
		respondErr(c, e)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"order_item_id": line.ID, "qty": line.Qty, "note": line.Note})
}

// DELETE /v1/order-items/:id
func DeleteOrderItem(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		badInput(c, "Invalid order item id")
		return
	}
	svc := services.NewOrderService(database.DB)
	if e := svc.DeleteItem(id); e != nil {
		respondErr(c, e)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": id})
}

type CancelOrderRequest struct {
	ReasonID *uint   `json:"reason_id"`
	Note     *string `json:"note"`
}

// POST /v1/orders/:id/cancel
func CancelOrder(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		badInput(c, "Invalid order id")
		return
	}
	var req CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badInput(c, "Invalid request body")
			return
		}
	}
	svc := services.NewOrderService(database.DB)
	if e := svc.Cancel(id, currentUserID(c), req.ReasonID, req.Note); e != nil {
		respondErr(c, e)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"order_id": id, "status": "cancelled"})
}

// POST /v1/orders/:id/checkout
func CheckoutOrder(strictPayments bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := idParam(c, "id")
		if id == 0 {
			badInput(c, "Invalid order id")
			return
		}
		var payload services.CheckoutPayload
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&payload); err != nil {
				badInput(c, "Invalid request body")
				return
			}
		}
		svc := services.NewCheckoutService(database.DB, strictPayments)
		receipt, e := svc.Checkout(id, currentUserID(c), payload)
		if e != nil {
			respondErr(c, e)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"receipt": receipt})
	}
}
