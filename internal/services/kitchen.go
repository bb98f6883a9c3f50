package services

import (
	"strings"
	"time"

	"restopos/internal/apierr"
	"restopos/internal/models"

	"gorm.io/gorm"
)

// KitchenService projects the production queue and history out of order-item
// kitchen status. Pull-based: kitchen displays poll these views.
type KitchenService struct {
	db *gorm.DB
}

func NewKitchenService(db *gorm.DB) *KitchenService {
	return &KitchenService{db: db}
}

// KitchenFilters narrows either view; Statuses overrides the view's default
// status set when non-empty.
type KitchenFilters struct {
	StationID  *uint
	AreaCode   string
	TableCode  string
	CategoryID *uint
	Statuses   []string
}

// KitchenRow is one production line as shown to kitchen staff.
type KitchenRow struct {
	OrderItemID   uint      `json:"order_item_id"`
	OrderID       uint      `json:"order_id"`
	TableCode     *string   `json:"table_code"`
	AreaCode      *string   `json:"area_code"`
	ItemName      string    `json:"item_name"`
	Qty           int       `json:"qty"`
	Note          *string   `json:"note"`
	KitchenStatus string    `json:"kitchen_status"`
	CancelReason  *string   `json:"cancel_reason"`
	StationName   *string   `json:"station_name"`
	CategoryID    *uint     `json:"category_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	ModifiersText string    `json:"modifiers_text"`
}

var validKitchenStatuses = []string{
	models.KitchenQueued, models.KitchenPreparing, models.KitchenReady,
	models.KitchenServed, models.KitchenCancelled,
}

func isValidKitchenStatus(s string) bool {
	for _, v := range validKitchenStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Queue lists items still to produce (queued/preparing) on open orders,
// oldest first so the kitchen works FIFO.
func (s *KitchenService) Queue(f KitchenFilters) ([]KitchenRow, *apierr.Error) {
	statuses := f.Statuses
	if len(statuses) == 0 {
		statuses = []string{models.KitchenQueued, models.KitchenPreparing}
	}
	q := s.baseView(f, statuses).
		Where("o.status = ?", models.OrderOpen).
		Order("oi.created_at ASC")
	return s.collect(q)
}

// History lists finished items (ready/served/cancelled) across all orders,
// most recently updated first.
func (s *KitchenService) History(f KitchenFilters) ([]KitchenRow, *apierr.Error) {
	statuses := f.Statuses
	if len(statuses) == 0 {
		statuses = []string{models.KitchenReady, models.KitchenServed, models.KitchenCancelled}
	}
	q := s.baseView(f, statuses).Order("oi.updated_at DESC")
	return s.collect(q)
}

func (s *KitchenService) baseView(f KitchenFilters, statuses []string) *gorm.DB {
	q := s.db.Table("order_items oi").
		Select(`oi.id AS order_item_id, oi.order_id, dt.code AS table_code,
			a.code AS area_code, oi.item_name, oi.qty, oi.note, oi.kitchen_status,
			oi.cancel_reason, ks.name AS station_name, i.category_id,
			oi.created_at, oi.updated_at`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("LEFT JOIN dining_tables dt ON dt.id = o.table_id").
		Joins("LEFT JOIN areas a ON a.id = dt.area_id").
		Joins("LEFT JOIN kitchen_stations ks ON ks.id = oi.station_id").
		Joins("LEFT JOIN items i ON i.id = oi.item_id").
		Where("oi.kitchen_status IN ?", statuses)
	if f.StationID != nil {
		q = q.Where("oi.station_id = ?", *f.StationID)
	}
	if f.AreaCode != "" {
		q = q.Where("a.code = ?", f.AreaCode)
	}
	if f.TableCode != "" {
		q = q.Where("dt.code = ?", f.TableCode)
	}
	if f.CategoryID != nil {
		q = q.Where("i.category_id = ?", *f.CategoryID)
	}
	return q
}

func (s *KitchenService) collect(q *gorm.DB) ([]KitchenRow, *apierr.Error) {
	var rows []KitchenRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, apierr.Server(err)
	}
	if len(rows) == 0 {
		return []KitchenRow{}, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.OrderItemID)
	}
	var mods []models.OrderItemModifier
	if err := s.db.Where("order_item_id IN ?", ids).Order("id").Find(&mods).Error; err != nil {
		return nil, apierr.Server(err)
	}
	byLine := map[uint][]models.OrderItemModifier{}
	for _, m := range mods {
		byLine[m.OrderItemID] = append(byLine[m.OrderItemID], m)
	}
	for i := range rows {
		rows[i].ModifiersText = modifiersText(byLine[rows[i].OrderItemID])
	}
	return rows, nil
}

// SetItemStatus writes a new kitchen status. Cancelling requires a non-empty
// reason; any other status clears the stored reason. Transitions are not
// restricted to forward-only.
func (s *KitchenService) SetItemStatus(orderItemID uint, status string, reason *string) *apierr.Error {
	if !isValidKitchenStatus(status) {
		return apierr.Validation("Invalid kitchen_status").WithDetail("field", "kitchen_status")
	}
	var storedReason *string
	if status == models.KitchenCancelled {
		if reason == nil || strings.TrimSpace(*reason) == "" {
			return apierr.Validation("Cancel reason is required").WithDetail("field", "cancel_reason")
		}
		storedReason = reason
	}

	res := s.db.Model(&models.OrderItem{}).Where("id = ?", orderItemID).
		Updates(map[string]interface{}{
			"kitchen_status": status,
			"cancel_reason":  storedReason,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return apierr.Server(res.Error)
	}
	if res.RowsAffected == 0 {
		return apierr.NotFound("Order item not found")
	}
	return nil
}
