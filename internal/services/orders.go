package services

import (
	"errors"
	"time"

	"restopos/internal/apierr"
	"restopos/internal/models"

	"gorm.io/gorm"
)

// OrderService owns the order aggregate: creation, line items with modifier
// pricing, and cancellation. Checkout lives in CheckoutService.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// requireOpenOrder guards line mutations: closed and cancelled orders are
// terminal, their lines can no longer be added, edited or removed.
func requireOpenOrder(tx *gorm.DB, orderID uint) error {
	var order models.Order
	if err := tx.Select("id", "status").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("Order not found")
		}
		return err
	}
	if order.Status != models.OrderOpen {
		return apierr.Conflict("Order is not open")
	}
	return nil
}

// Create opens an order bound to a free table and marks the table occupied.
// The dining-table row is locked first so concurrent creates on the same
// table serialize; at most one open order per table can ever exist.
func (s *OrderService) Create(tableID, userID uint, customerName *string) (uint, *apierr.Error) {
	var orderID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var table models.DiningTable
		if err := lockForUpdate(tx).First(&table, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("Table not found")
			}
			return err
		}

		var open int64
		if err := tx.Model(&models.Order{}).
			Where("table_id = ? AND status = ?", tableID, models.OrderOpen).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return apierr.Conflict("Table already has an open order")
		}

		order := models.Order{
			TableID:      tableID,
			OpenedBy:     userID,
			CustomerName: customerName,
			Status:       models.OrderOpen,
			OpenedAt:     time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.DiningTable{}).Where("id = ?", tableID).
			Update("status", models.TableOccupied).Error; err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return 0, apierr.From(err)
	}
	return orderID, nil
}

// AddItem appends a line to an open order, snapshotting the item's name,
// station, price and tax rate plus each selected modifier's price delta.
// Modifier option ids that do not exist are silently dropped.
func (s *OrderService) AddItem(orderID, itemID uint, qty int, note *string, modifierOptionIDs []uint) (uint, *apierr.Error) {
	if qty < 1 {
		qty = 1
	}
	var lineID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireOpenOrder(tx, orderID); err != nil {
			return err
		}

		var item models.Item
		if err := tx.Where("id = ? AND enabled = ?", itemID, true).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("Item not found")
			}
			return err
		}

		var options []models.ModifierOption
		if len(modifierOptionIDs) > 0 {
			if err := tx.Where("id IN ?", modifierOptionIDs).Find(&options).Error; err != nil {
				return err
			}
		}
		delta := 0.0
		for _, o := range options {
			delta += o.PriceDelta
		}

		line := models.OrderItem{
			OrderID:       orderID,
			ItemID:        item.ID,
			ItemName:      item.Name,
			StationID:     item.StationID,
			Qty:           qty,
			UnitPrice:     item.Price,
			TaxRate:       item.TaxRate,
			LineTotal:     round2((item.Price + delta) * float64(qty)),
			Note:          note,
			KitchenStatus: models.KitchenQueued,
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
		for _, o := range options {
			mod := models.OrderItemModifier{
				OrderItemID: line.ID,
				OptionID:    o.ID,
				OptionName:  o.Name,
				UnitDelta:   o.PriceDelta,
				Qty:         1,
			}
			if err := tx.Create(&mod).Error; err != nil {
				return err
			}
		}
		lineID = line.ID
		return nil
	})
	if err != nil {
		return 0, apierr.From(err)
	}
	return lineID, nil
}

// ItemUpdate carries the optional fields of an item edit. A nil Modifiers
// keeps the current modifier rows; a non-nil one replaces them wholesale.
type ItemUpdate struct {
	Qty       *int
	Note      *string
	Modifiers *[]uint
}

// UpdateItem edits a line that is still queued on an open order and recomputes
// its total from the snapshotted prices. One transaction: no partial state is
// ever visible.
func (s *OrderService) UpdateItem(orderItemID uint, upd ItemUpdate) (*models.OrderItem, *apierr.Error) {
	var line models.OrderItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&line, orderItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("Order item not found")
			}
			return err
		}
		if err := requireOpenOrder(tx, line.OrderID); err != nil {
			return err
		}
		if line.KitchenStatus != models.KitchenQueued {
			return apierr.Conflict("Cannot modify when already in kitchen")
		}

		qty := line.Qty
		if upd.Qty != nil {
			qty = *upd.Qty
			if qty < 1 {
				qty = 1
			}
		}
		note := line.Note
		if upd.Note != nil {
			note = upd.Note
		}

		var delta float64
		if upd.Modifiers != nil {
			if err := tx.Where("order_item_id = ?", orderItemID).
				Delete(&models.OrderItemModifier{}).Error; err != nil {
				return err
			}
			if len(*upd.Modifiers) > 0 {
				var options []models.ModifierOption
				if err := tx.Where("id IN ?", *upd.Modifiers).Find(&options).Error; err != nil {
					return err
				}
				for _, o := range options {
					mod := models.OrderItemModifier{
						OrderItemID: orderItemID,
						OptionID:    o.ID,
						OptionName:  o.Name,
						UnitDelta:   o.PriceDelta,
						Qty:         1,
					}
					if err := tx.Create(&mod).Error; err != nil {
						return err
					}
					delta += o.PriceDelta
				}
			}
		} else {
			if err := tx.Model(&models.OrderItemModifier{}).
				Where("order_item_id = ?", orderItemID).
				Select("COALESCE(SUM(unit_delta), 0)").
				Scan(&delta).Error; err != nil {
				return err
			}
		}

		line.Qty = qty
		line.Note = note
		line.LineTotal = round2((line.UnitPrice+delta)*float64(qty) - line.DiscountAmount)
		return tx.Model(&models.OrderItem{}).Where("id = ?", orderItemID).Updates(map[string]interface{}{
			"qty":        line.Qty,
			"note":       line.Note,
			"line_total": line.LineTotal,
			"updated_at": time.Now(),
		}).Error
	})
	if err != nil {
		return nil, apierr.From(err)
	}
	return &line, nil
}

// DeleteItem removes a still-queued line of an open order and its modifier rows.
func (s *OrderService) DeleteItem(orderItemID uint) *apierr.Error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var line models.OrderItem
		if err := tx.First(&line, orderItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("Order item not found")
			}
			return err
		}
		if err := requireOpenOrder(tx, line.OrderID); err != nil {
			return err
		}
		if line.KitchenStatus != models.KitchenQueued {
			return apierr.Conflict("Cannot delete when already in kitchen")
		}
		if err := tx.Where("order_item_id = ?", orderItemID).
			Delete(&models.OrderItemModifier{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.OrderItem{}, orderItemID).Error
	})
	return apierr.From(err)
}

// Cancel closes an open order without payment: the table is freed, lines not
// yet produced are cancelled, and a cancellation record is written. The order
// row is locked first to serialize against a concurrent checkout.
func (s *OrderService) Cancel(orderID, userID uint, reasonID *uint, note *string) *apierr.Error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockForUpdate(tx).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("Order not found")
			}
			return err
		}
		if order.Status != models.OrderOpen {
			return apierr.Conflict("Order is not open")
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":    models.OrderCancelled,
			"closed_by": userID,
			"closed_at": now,
		}
		if note != nil {
			updates["note"] = *note
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.DiningTable{}).Where("id = ?", order.TableID).
			Update("status", models.TableFree).Error; err != nil {
			return err
		}

		// Only lines not yet produced are cancelled; ready/served stay as-is.
		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND kitchen_status IN ?", orderID,
				[]string{models.KitchenQueued, models.KitchenPreparing}).
			Updates(map[string]interface{}{"kitchen_status": models.KitchenCancelled, "updated_at": now}).Error; err != nil {
			return err
		}

		rec := models.OrderCancellation{
			OrderID:  orderID,
			UserID:   userID,
			ReasonID: reasonID,
			Note:     note,
		}
		return tx.Create(&rec).Error
	})
	return apierr.From(err)
}

// OrderDetail is the full order view with items, modifiers and location codes.
type OrderDetail struct {
	models.Order
	TableCode    *string `json:"table_code"`
	AreaCode     *string `json:"area_code"`
	OpenedByName *string `json:"opened_by_name"`
}

func (s *OrderService) GetFull(orderID uint) (*OrderDetail, *apierr.Error) {
	var order models.Order
	err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.created_at") }).
		Preload("Items.Modifiers").
		First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("Order not found")
	}
	if err != nil {
		return nil, apierr.Server(err)
	}

	detail := OrderDetail{Order: order}
	var loc struct {
		TableCode    *string
		AreaCode     *string
		OpenedByName *string
	}
	err = s.db.Table("orders").
		Select("dt.code AS table_code, a.code AS area_code, u.name AS opened_by_name").
		Joins("LEFT JOIN dining_tables dt ON dt.id = orders.table_id").
		Joins("LEFT JOIN areas a ON a.id = dt.area_id").
		Joins("LEFT JOIN users u ON u.id = orders.opened_by").
		Where("orders.id = ?", orderID).
		Scan(&loc).Error
	if err != nil {
		return nil, apierr.Server(err)
	}
	detail.TableCode = loc.TableCode
	detail.AreaCode = loc.AreaCode
	detail.OpenedByName = loc.OpenedByName
	return &detail, nil
}

// OrderSummary is one row of the order list with table/area/opener context.
type OrderSummary struct {
	ID            uint       `json:"id"`
	TableID       uint       `json:"table_id"`
	CustomerName  *string    `json:"customer_name"`
	Status        string     `json:"status"`
	OpenedAt      time.Time  `json:"opened_at"`
	ClosedAt      *time.Time `json:"closed_at"`
	Subtotal      float64    `json:"subtotal"`
	DiscountTotal float64    `json:"discount_total"`
	TaxTotal      float64    `json:"tax_total"`
	ServiceTotal  float64    `json:"service_total"`
	Total         float64    `json:"total"`
	TableName     *string    `json:"table_name"`
	TableCode     *string    `json:"table_code"`
	TableStatus   *string    `json:"table_status"`
	AreaName      *string    `json:"area_name"`
	AreaCode      *string    `json:"area_code"`
	OpenedByName  *string    `json:"opened_by_name"`
	TotalAmount   float64    `json:"total_amount"`
}

// List returns orders newest-first. A nil status means all orders. Open
// orders have no persisted total yet, so TotalAmount falls back to the live
// sum of their line totals.
func (s *OrderService) List(status *string) ([]OrderSummary, *apierr.Error) {
	q := s.db.Table("orders").
		Select(`orders.id, orders.table_id, orders.customer_name, orders.status,
			orders.opened_at, orders.closed_at, orders.subtotal, orders.discount_total,
			orders.tax_total, orders.service_total, orders.total,
			dt.name AS table_name, dt.code AS table_code, dt.status AS table_status,
			a.name AS area_name, a.code AS area_code, u.name AS opened_by_name,
			COALESCE(NULLIF(orders.total, 0), (
				SELECT COALESCE(SUM(oi.line_total), 0) FROM order_items oi WHERE oi.order_id = orders.id
			)) AS total_amount`).
		Joins("LEFT JOIN dining_tables dt ON dt.id = orders.table_id").
		Joins("LEFT JOIN areas a ON a.id = dt.area_id").
		Joins("LEFT JOIN users u ON u.id = orders.opened_by").
		Order("orders.opened_at DESC, orders.id DESC")
	if status != nil {
		q = q.Where("orders.status = ?", *status)
	}
	var rows []OrderSummary
	if err := q.Scan(&rows).Error; err != nil {
		return nil, apierr.Server(err)
	}
	return rows, nil
}
