package services

import (
	"testing"

	"restopos/internal/database"
	"restopos/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixtures holds the ids the tests reference.
type fixtures struct {
	CashierID   uint
	KitchenID   uint
	AreaID      uint
	Table5ID    uint
	Table6ID    uint
	StationID   uint
	CategoryID  uint
	PhoID       uint
	TeaID       uint
	ExtraBeefID uint
	NoOnionID   uint
}

func newTestDB(t *testing.T) (*gorm.DB, *fixtures) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := &fixtures{}

	cashier := models.User{Name: "Anna Cashier", Username: "anna", Role: "cashier", IsActive: true}
	kitchen := models.User{Name: "Bo Kitchen", Username: "bo", Role: "kitchen", IsActive: true}
	mustCreate(t, db, &cashier)
	mustCreate(t, db, &kitchen)
	f.CashierID = cashier.ID
	f.KitchenID = kitchen.ID

	area := models.Area{Code: "MAIN", Name: "Main Hall", Sort: 1}
	mustCreate(t, db, &area)
	f.AreaID = area.ID

	t5 := models.DiningTable{AreaID: area.ID, Code: "T5", Name: "Table 5", Number: 5, Capacity: 4, Status: models.TableFree}
	t6 := models.DiningTable{AreaID: area.ID, Code: "T6", Name: "Table 6", Number: 6, Capacity: 2, Status: models.TableFree}
	mustCreate(t, db, &t5)
	mustCreate(t, db, &t6)
	f.Table5ID = t5.ID
	f.Table6ID = t6.ID

	station := models.KitchenStation{Code: "WOK", Name: "Wok Station"}
	mustCreate(t, db, &station)
	f.StationID = station.ID

	cat := models.Category{Name: "Noodles", Sort: 1}
	mustCreate(t, db, &cat)
	f.CategoryID = cat.ID

	pho := models.Item{CategoryID: cat.ID, StationID: &station.ID, Name: "Pho", Price: 50000, TaxRate: 0.08, Enabled: true}
	tea := models.Item{CategoryID: cat.ID, Name: "Iced Tea", Price: 10000, Enabled: true}
	mustCreate(t, db, &pho)
	mustCreate(t, db, &tea)
	f.PhoID = pho.ID
	f.TeaID = tea.ID

	group := models.ModifierGroup{Name: "Toppings"}
	mustCreate(t, db, &group)
	beef := models.ModifierOption{GroupID: group.ID, Name: "Extra Beef", PriceDelta: 15000}
	onion := models.ModifierOption{GroupID: group.ID, Name: "No Onion", PriceDelta: 0}
	mustCreate(t, db, &beef)
	mustCreate(t, db, &onion)
	f.ExtraBeefID = beef.ID
	f.NoOnionID = onion.ID

	mustCreate(t, db, &models.PaymentMethod{Code: "cash", Name: "Cash", Enabled: true})
	mustCreate(t, db, &models.PaymentMethod{Code: "card", Name: "Card", Enabled: true})
	mustCreate(t, db, &models.PaymentMethod{Code: "voucher", Name: "Voucher", Enabled: false})

	return db, f
}

func mustCreate(t *testing.T, db *gorm.DB, v interface{}) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create fixture %T: %v", v, err)
	}
}

// openOrderWithPho opens an order on table 5 and adds Pho x2 with Extra Beef.
func openOrderWithPho(t *testing.T, db *gorm.DB, f *fixtures) (orderID, lineID uint) {
	t.Helper()
	orders := NewOrderService(db)
	orderID, e := orders.Create(f.Table5ID, f.CashierID, nil)
	if e != nil {
		t.Fatalf("create order: %v", e)
	}
	lineID, e = orders.AddItem(orderID, f.PhoID, 2, nil, []uint{f.ExtraBeefID})
	if e != nil {
		t.Fatalf("add item: %v", e)
	}
	return orderID, lineID
}

func tableStatus(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var table models.DiningTable
	if err := db.First(&table, id).Error; err != nil {
		t.Fatalf("load table: %v", err)
	}
	return table.Status
}
