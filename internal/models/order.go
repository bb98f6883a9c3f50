package models

import (
	"time"
)

// Order - a customer's running tab, bound 1:1 to a table while open
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	TableID       uint        `gorm:"index" json:"table_id"`
	OpenedBy      uint        `json:"opened_by"`
	CustomerName  *string     `json:"customer_name"`
	Status        string      `gorm:"size:20;index;default:'open'" json:"status"` // 'open', 'closed', 'cancelled'
	OpenedAt      time.Time   `json:"opened_at"`
	ClosedAt      *time.Time  `json:"closed_at"`
	ClosedBy      *uint       `json:"closed_by"`
	Subtotal      float64     `json:"subtotal"`
	DiscountTotal float64     `json:"discount_total"`
	TaxTotal      float64     `json:"tax_total"`
	ServiceTotal  float64     `json:"service_total"`
	Total         float64     `json:"total"`
	Note          *string     `json:"note"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

const (
	OrderOpen      = "open"
	OrderClosed    = "closed"
	OrderCancelled = "cancelled"
)

// OrderItem - one line of an order. Name, station, unit price and tax rate
// are snapshots taken when the line is created; later catalog edits never
// change an existing line.
type OrderItem struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	OrderID        uint                `gorm:"index" json:"order_id"`
	ItemID         uint                `json:"item_id"`
	ItemName       string              `json:"item_name"`
	StationID      *uint               `json:"station_id"`
	Qty            int                 `json:"qty"`
	UnitPrice      float64             `json:"unit_price"`
	TaxRate        float64             `json:"tax_rate"`
	DiscountAmount float64             `json:"discount_amount"`
	LineTotal      float64             `json:"line_total"`
	Note           *string             `json:"note"`
	KitchenStatus  string              `gorm:"size:20;index;default:'queued'" json:"kitchen_status"`
	CancelReason   *string             `json:"cancel_reason"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Modifiers      []OrderItemModifier `gorm:"foreignKey:OrderItemID" json:"modifiers,omitempty"`
}

const (
	KitchenQueued    = "queued"
	KitchenPreparing = "preparing"
	KitchenReady     = "ready"
	KitchenServed    = "served"
	KitchenCancelled = "cancelled"
)

// OrderItemModifier - immutable snapshot of a modifier option attached to a
// line; replaced wholesale (delete + reinsert) on item edit.
type OrderItemModifier struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderItemID uint    `gorm:"index" json:"order_item_id"`
	OptionID    uint    `json:"option_id"`
	OptionName  string  `json:"option_name"`
	UnitDelta   float64 `json:"unit_delta"`
	Qty         int     `gorm:"default:1" json:"qty"`
}

// OrderCancellation - audit record written when an order is cancelled
type OrderCancellation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"index" json:"order_id"`
	UserID    uint      `json:"user_id"`
	ReasonID  *uint     `json:"reason_id"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// Discount - a percent/amount reduction rule with optional code and window
type Discount struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Code        *string    `gorm:"size:40" json:"code"`
	Name        string     `json:"name"`
	Type        string     `gorm:"size:10" json:"type"` // 'percent', 'amount'
	Value       float64    `json:"value"`
	MinSubtotal float64    `json:"min_subtotal"`
	Active      bool       `gorm:"default:true" json:"active"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

const (
	DiscountPercent = "percent"
	DiscountAmount  = "amount"
)

// OrderDiscount - one-per-order snapshot of the discount applied at checkout.
// DiscountID is nil for ad-hoc amounts.
type OrderDiscount struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	OrderID    uint    `gorm:"uniqueIndex" json:"order_id"`
	DiscountID *uint   `json:"discount_id"`
	Code       *string `json:"code"`
	Name       string  `json:"name"`
	Type       string  `gorm:"size:10" json:"type"`
	Value      float64 `json:"value"`
	Applied    float64 `json:"applied"`
}

// Payment - a settled amount against an order; split tender allowed
type Payment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	OrderID  uint      `gorm:"index" json:"order_id"`
	MethodID uint      `json:"method_id"`
	Amount   float64   `json:"amount"`
	PaidAt   time.Time `json:"paid_at"`
	RefNo    *string   `json:"ref_no"`
}

// Receipt - immutable financial record of a closed order, 1:1 with the order
type Receipt struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderID       uint          `gorm:"uniqueIndex" json:"order_id"`
	ReceiptNo     string        `gorm:"size:40" json:"receipt_no"`
	TableCode     *string       `json:"table_code"`
	AreaCode      *string       `json:"area_code"`
	CashierID     uint          `json:"cashier_id"`
	CashierName   string        `json:"cashier_name"`
	CustomerName  *string       `json:"customer_name"`
	Subtotal      float64       `json:"subtotal"`
	DiscountTotal float64       `json:"discount_total"`
	TaxTotal      float64       `json:"tax_total"`
	ServiceTotal  float64       `json:"service_total"`
	Total         float64       `json:"total"`
	PaidMethods   string        `json:"paid_methods"`
	PaidAt        time.Time     `json:"paid_at"`
	Note          *string       `json:"note"`
	Items         []ReceiptItem `gorm:"foreignKey:ReceiptID" json:"items,omitempty"`
}

// ReceiptItem - frozen copy of an order line, decoupled from the live row
type ReceiptItem struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	ReceiptID     uint    `gorm:"index" json:"receipt_id"`
	ItemName      string  `json:"item_name"`
	Qty           int     `json:"qty"`
	UnitPrice     float64 `json:"unit_price"`
	ModifiersText string  `json:"modifiers_text"`
	LineTotal     float64 `json:"line_total"`
}
