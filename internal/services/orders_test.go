package services

import (
	"testing"

	"restopos/internal/apierr"
	"restopos/internal/models"
)

func TestCreateOrderOccupiesTable(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)

	name := "Linh"
	orderID, e := orders.Create(f.Table5ID, f.CashierID, &name)
	if e != nil {
		t.Fatalf("create: %v", e)
	}
	if orderID == 0 {
		t.Fatal("expected a new order id")
	}
	if got := tableStatus(t, db, f.Table5ID); got != models.TableOccupied {
		t.Fatalf("table status = %q, want occupied", got)
	}

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != models.OrderOpen {
		t.Fatalf("order status = %q, want open", order.Status)
	}
	if order.CustomerName == nil || *order.CustomerName != "Linh" {
		t.Fatalf("customer name not stored: %v", order.CustomerName)
	}
}

func TestCreateOrderConflictOnOccupiedTable(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)

	if _, e := orders.Create(f.Table5ID, f.CashierID, nil); e != nil {
		t.Fatalf("first create: %v", e)
	}
	_, e := orders.Create(f.Table5ID, f.CashierID, nil)
	if e == nil || e.Code != apierr.CodeConflict {
		t.Fatalf("second create = %v, want CONFLICT", e)
	}

	var open int64
	db.Model(&models.Order{}).Where("table_id = ? AND status = ?", f.Table5ID, models.OrderOpen).Count(&open)
	if open != 1 {
		t.Fatalf("open orders on table = %d, want 1", open)
	}
}

func TestCreateOrderUnknownTable(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)

	_, e := orders.Create(9999, f.CashierID, nil)
	if e == nil || e.Code != apierr.CodeNotFound {
		t.Fatalf("create on missing table = %v, want NOT_FOUND", e)
	}
}

func TestAddItemSnapshotsPricing(t *testing.T) {
	db, f := newTestDB(t)
	orderID, lineID := openOrderWithPho(t, db, f)

	var line models.OrderItem
	if err := db.Preload("Modifiers").First(&line, lineID).Error; err != nil {
		t.Fatalf("load line: %v", err)
	}
	if line.OrderID != orderID {
		t.Fatalf("line order id = %d, want %d", line.OrderID, orderID)
	}
	// (50000 + 15000) * 2
	if line.LineTotal != 130000 {
		t.Fatalf("line total = %v, want 130000", line.LineTotal)
	}
	if line.ItemName != "Pho" || line.UnitPrice != 50000 || line.TaxRate != 0.08 {
		t.Fatalf("snapshot wrong: %+v", line)
	}
	if line.KitchenStatus != models.KitchenQueued {
		t.Fatalf("kitchen status = %q, want queued", line.KitchenStatus)
	}
	if len(line.Modifiers) != 1 || line.Modifiers[0].OptionName != "Extra Beef" || line.Modifiers[0].UnitDelta != 15000 {
		t.Fatalf("modifier snapshot wrong: %+v", line.Modifiers)
	}

	// Later catalog edits must not touch the existing line.
	db.Model(&models.Item{}).Where("id = ?", f.PhoID).Update("price", 99999)
	db.First(&line, lineID)
	if line.UnitPrice != 50000 || line.LineTotal != 130000 {
		t.Fatalf("catalog edit leaked into line: %+v", line)
	}
}

func TestAddItemDropsUnknownModifiers(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)
	orderID, _ := openOrderWithPho(t, db, f)

	lineID, e := orders.AddItem(orderID, f.TeaID, 1, nil, []uint{f.NoOnionID, 424242})
	if e != nil {
		t.Fatalf("add item: %v", e)
	}
	var mods []models.OrderItemModifier
	db.Where("order_item_id = ?", lineID).Find(&mods)
	if len(mods) != 1 || mods[0].OptionID != f.NoOnionID {
		t.Fatalf("unknown modifier not dropped: %+v", mods)
	}
	var line models.OrderItem
	db.First(&line, lineID)
	if line.LineTotal != 10000 {
		t.Fatalf("line total = %v, want 10000", line.LineTotal)
	}
}

func TestAddItemErrors(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)
	orderID, _ := openOrderWithPho(t, db, f)

	disabled := models.Item{CategoryID: f.CategoryID, Name: "Off Menu", Price: 1000, Enabled: false}
	mustCreate(t, db, &disabled)

	if _, e := orders.AddItem(orderID, disabled.ID, 1, nil, nil); e == nil || e.Code != apierr.CodeNotFound {
		t.Fatalf("disabled item = %v, want NOT_FOUND", e)
	}
	if _, e := orders.AddItem(orderID, 9999, 1, nil, nil); e == nil || e.Code != apierr.CodeNotFound {
		t.Fatalf("missing item = %v, want NOT_FOUND", e)
	}
	if _, e := orders.AddItem(9999, f.PhoID, 1, nil, nil); e == nil || e.Code != apierr.CodeNotFound {
		t.Fatalf("missing order = %v, want NOT_FOUND", e)
	}

	if e := orders.Cancel(orderID, f.CashierID, nil, nil); e != nil {
		t.Fatalf("cancel: %v", e)
	}
	if _, e := orders.AddItem(orderID, f.PhoID, 1, nil, nil); e == nil || e.Code != apierr.CodeConflict {
		t.Fatalf("add to cancelled order = %v, want CONFLICT", e)
	}
}

func TestUpdateItemRecomputesTotal(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)
	_, lineID := openOrderWithPho(t, db, f)

	qty := 3
	line, e := orders.UpdateItem(lineID, ItemUpdate{Qty: &qty})
	if e != nil {
		t.Fatalf("update qty: %v", e)
	}
	// Existing Extra Beef modifier kept: (50000 + 15000) * 3
	if line.LineTotal != 195000 {
		t.Fatalf("line total = %v, want 195000", line.LineTotal)
	}

	// Replacing modifiers with the free option reprices from scratch.
	mods := []uint{f.NoOnionID}
	line, e = orders.UpdateItem(lineID, ItemUpdate{Modifiers: &mods})
	if e != nil {
		t.Fatalf("update modifiers: %v", e)
	}
	if line.LineTotal != 150000 {
		t.Fatalf("line total = %v, want 150000", line.LineTotal)
	}
	var rows []models.OrderItemModifier
	db.Where("order_item_id = ?", lineID).Find(&rows)
	if len(rows) != 1 || rows[0].OptionID != f.NoOnionID {
		t.Fatalf("modifiers not replaced: %+v", rows)
	}

	// Clearing all modifiers.
	empty := []uint{}
	line, e = orders.UpdateItem(lineID, ItemUpdate{Modifiers: &empty})
	if e != nil {
		t.Fatalf("clear modifiers: %v", e)
	}
	if line.LineTotal != 150000 {
		t.Fatalf("line total = %v, want 150000", line.LineTotal)
	}
	db.Where("order_item_id = ?", lineID).Find(&rows)
	if len(rows) != 0 {
		t.Fatalf("modifiers not cleared: %+v", rows)
	}
}

func TestUpdateItemFrozenOnceInKitchen(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)
	kitchen := NewKitchenService(db)
	_, lineID := openOrderWithPho(t, db, f)

	if e := kitchen.SetItemStatus(lineID, models.KitchenPreparing, nil); e != nil {
		t.Fatalf("set status: %v", e)
	}
	qty := 5
	if _, e := orders.UpdateItem(lineID, ItemUpdate{Qty: &qty}); e == nil || e.Code != apierr.CodeConflict {
		t.Fatalf("update preparing line = %v, want CONFLICT", e)
	}
	if e := orders.DeleteItem(lineID); e == nil || e.Code != apierr.CodeConflict {
		t.Fatalf("delete preparing line = %v, want CONFLICT", e)
	}
}

func TestItemsFrozenAfterCheckout(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)
	checkout := NewCheckoutService(db, false)
	orderID, lineID := openOrderWithPho(t, db, f)

	if _, e := checkout.Checkout(orderID, f.CashierID, CheckoutPayload{}); e != nil {
		t.Fatalf("checkout: %v", e)
	}

	// The line is still kitchen-queued, but its order is closed now.
	qty := 9
	if _, e := orders.UpdateItem(lineID, ItemUpdate{Qty: &qty}); e == nil || e.Code != apierr.CodeConflict {
		t.Fatalf("update on closed order = %v, want CONFLICT", e)
	}
	if e := orders.DeleteItem(lineID); e == nil || e.Code != apierr.CodeConflict {
		t.Fatalf("delete on closed order = %v, want CONFLICT", e)
	}

	var line models.OrderItem
	if err := db.First(&line, lineID).Error; err != nil {
		t.Fatalf("load line: %v", err)
	}
	if line.Qty != 2 || line.LineTotal != 130000 {
		t.Fatalf("closed-order line mutated: %+v", line)
	}
}

func TestDeleteItemRemovesModifiers(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)
	_, lineID := openOrderWithPho(t, db, f)

	if e := orders.DeleteItem(lineID); e != nil {
		t.Fatalf("delete: %v", e)
	}
	var lines, mods int64
	db.Model(&models.OrderItem{}).Where("id = ?", lineID).Count(&lines)
	db.Model(&models.OrderItemModifier{}).Where("order_item_id = ?", lineID).Count(&mods)
	if lines != 0 || mods != 0 {
		t.Fatalf("delete left rows behind: lines=%d mods=%d", lines, mods)
	}

	if e := orders.DeleteItem(lineID); e == nil || e.Code != apierr.CodeNotFound {
		t.Fatalf("second delete = %v, want NOT_FOUND", e)
	}
}

func TestCancelOrder(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)
	kitchen := NewKitchenService(db)

	orderID, queuedLine := openOrderWithPho(t, db, f)
	preparingLine, _ := orders.AddItem(orderID, f.TeaID, 1, nil, nil)
	servedLine, _ := orders.AddItem(orderID, f.TeaID, 2, nil, nil)
	if e := kitchen.SetItemStatus(preparingLine, models.KitchenPreparing, nil); e != nil {
		t.Fatalf("set preparing: %v", e)
	}
	if e := kitchen.SetItemStatus(servedLine, models.KitchenServed, nil); e != nil {
		t.Fatalf("set served: %v", e)
	}

	rc := models.ReasonCode{Label: "Customer left"}
	mustCreate(t, db, &rc)
	reason := rc.ID
	note := "walked out"
	if e := orders.Cancel(orderID, f.CashierID, &reason, &note); e != nil {
		t.Fatalf("cancel: %v", e)
	}

	var order models.Order
	db.First(&order, orderID)
	if order.Status != models.OrderCancelled || order.ClosedBy == nil || *order.ClosedBy != f.CashierID || order.ClosedAt == nil {
		t.Fatalf("order not closed out: %+v", order)
	}
	if got := tableStatus(t, db, f.Table5ID); got != models.TableFree {
		t.Fatalf("table status = %q, want free", got)
	}

	status := func(id uint) string {
		var l models.OrderItem
		db.First(&l, id)
		return l.KitchenStatus
	}
	if status(queuedLine) != models.KitchenCancelled {
		t.Fatal("queued line should be cancelled")
	}
	if status(preparingLine) != models.KitchenCancelled {
		t.Fatal("preparing line should be cancelled")
	}
	if status(servedLine) != models.KitchenServed {
		t.Fatal("served line must stay served")
	}

	var rec models.OrderCancellation
	if err := db.Where("order_id = ?", orderID).First(&rec).Error; err != nil {
		t.Fatalf("cancellation record missing: %v", err)
	}
	if rec.UserID != f.CashierID || rec.ReasonID == nil || *rec.ReasonID != reason {
		t.Fatalf("cancellation record wrong: %+v", rec)
	}

	if e := orders.Cancel(orderID, f.CashierID, nil, nil); e == nil || e.Code != apierr.CodeConflict {
		t.Fatalf("second cancel = %v, want CONFLICT", e)
	}
}

func TestListOrdersFallsBackToLiveTotal(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)
	openOrderWithPho(t, db, f)

	open := models.OrderOpen
	rows, e := orders.List(&open)
	if e != nil {
		t.Fatalf("list: %v", e)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	r := rows[0]
	if r.TotalAmount != 130000 {
		t.Fatalf("total_amount = %v, want live sum 130000", r.TotalAmount)
	}
	if r.TableCode == nil || *r.TableCode != "T5" || r.AreaCode == nil || *r.AreaCode != "MAIN" {
		t.Fatalf("location codes missing: %+v", r)
	}
	if r.OpenedByName == nil || *r.OpenedByName != "Anna Cashier" {
		t.Fatalf("opener name missing: %+v", r)
	}
}

func TestGetFullOrder(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)
	orderID, lineID := openOrderWithPho(t, db, f)

	detail, e := orders.GetFull(orderID)
	if e != nil {
		t.Fatalf("get: %v", e)
	}
	if len(detail.Items) != 1 || detail.Items[0].ID != lineID {
		t.Fatalf("items missing: %+v", detail.Items)
	}
	if len(detail.Items[0].Modifiers) != 1 {
		t.Fatalf("modifiers missing: %+v", detail.Items[0])
	}
	if detail.TableCode == nil || *detail.TableCode != "T5" {
		t.Fatalf("table code missing: %+v", detail)
	}

	if _, e := orders.GetFull(9999); e == nil || e.Code != apierr.CodeNotFound {
		t.Fatalf("missing order = %v, want NOT_FOUND", e)
	}
}
