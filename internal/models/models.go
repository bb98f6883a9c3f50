package models

import (
	"time"
)

// User - staff member operating the terminal
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `json:"name"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'cashier', 'kitchen'
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Area - a dining zone grouping tables (e.g., "Terrace")
type Area struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:20" json:"code"`
	Name string `json:"name"`
	Sort int    `json:"sort"`
}

// DiningTable - a physical table; Status is the order-lifecycle field
type DiningTable struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AreaID   uint   `json:"area_id"`
	Code     string `gorm:"size:20" json:"code"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Capacity int    `json:"capacity"`
	Status   string `gorm:"size:20;default:'free'" json:"status"` // 'free', 'occupied', 'cleaning'
}

const (
	TableFree     = "free"
	TableOccupied = "occupied"
	TableCleaning = "cleaning"
)

// KitchenStation - where an item is produced (grill, bar, ...)
type KitchenStation struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:20" json:"code"`
	Name string `json:"name"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`
	Sort int    `json:"sort"`
}

// Item - a sellable menu entry; price/tax are snapshotted onto order lines
type Item struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	CategoryID uint    `json:"category_id"`
	StationID  *uint   `json:"station_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	TaxRate    float64 `json:"tax_rate"`
	Enabled    bool    `gorm:"default:true" json:"enabled"`
}

type ModifierGroup struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`
}

// ModifierOption - a priced add-on (e.g., "Extra Beef" +15000)
type ModifierOption struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	GroupID    uint    `json:"group_id"`
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta"`
}

// ReasonCode - predefined cancellation reasons
type ReasonCode struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Label string `json:"label"`
}

// PaymentMethod - an accepted tender type, looked up by code at checkout
type PaymentMethod struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Code    string `gorm:"uniqueIndex;size:20" json:"code"`
	Name    string `json:"name"`
	Enabled bool   `gorm:"default:true" json:"enabled"`
}
