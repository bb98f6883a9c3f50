package services

import (
	"testing"

	"restopos/internal/apierr"
	"restopos/internal/models"
)

func TestKitchenQueueDefaultsAndOrdering(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)
	kitchen := NewKitchenService(db)

	orderID, first := openOrderWithPho(t, db, f)
	second, _ := orders.AddItem(orderID, f.TeaID, 1, nil, nil)
	third, _ := orders.AddItem(orderID, f.TeaID, 1, nil, nil)
	if e := kitchen.SetItemStatus(second, models.KitchenPreparing, nil); e != nil {
		t.Fatalf("set preparing: %v", e)
	}
	if e := kitchen.SetItemStatus(third, models.KitchenServed, nil); e != nil {
		t.Fatalf("set served: %v", e)
	}

	rows, e := kitchen.Queue(KitchenFilters{})
	if e != nil {
		t.Fatalf("queue: %v", e)
	}
	if len(rows) != 2 {
		t.Fatalf("queue rows = %d, want 2 (queued + preparing)", len(rows))
	}
	// FIFO: the oldest line comes first.
	if rows[0].OrderItemID != first || rows[1].OrderItemID != second {
		t.Fatalf("queue order wrong: %+v", rows)
	}
	if rows[0].ModifiersText != "Extra Beef(+15000)" {
		t.Fatalf("modifiers text = %q", rows[0].ModifiersText)
	}
	if rows[0].TableCode == nil || *rows[0].TableCode != "T5" {
		t.Fatalf("table code missing: %+v", rows[0])
	}
	if rows[0].StationName == nil || *rows[0].StationName != "Wok Station" {
		t.Fatalf("station name missing: %+v", rows[0])
	}
}

func TestKitchenQueueOnlyOpenOrders(t *testing.T) {
	db, f := newTestDB(t)
	kitchen := NewKitchenService(db)

	orderID, _ := openOrderWithPho(t, db, f)
	if _, e := NewCheckoutService(db, false).Checkout(orderID, f.CashierID, CheckoutPayload{}); e != nil {
		t.Fatalf("checkout: %v", e)
	}

	rows, e := kitchen.Queue(KitchenFilters{})
	if e != nil {
		t.Fatalf("queue: %v", e)
	}
	if len(rows) != 0 {
		t.Fatalf("closed-order lines leaked into queue: %+v", rows)
	}
}

func TestKitchenQueueFilters(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)
	kitchen := NewKitchenService(db)

	orderID, phoLine := openOrderWithPho(t, db, f)
	teaLine, _ := orders.AddItem(orderID, f.TeaID, 1, nil, nil)

	rows, e := kitchen.Queue(KitchenFilters{StationID: &f.StationID})
	if e != nil {
		t.Fatalf("station filter: %v", e)
	}
	if len(rows) != 1 || rows[0].OrderItemID != phoLine {
		t.Fatalf("station filter wrong: %+v", rows)
	}

	rows, _ = kitchen.Queue(KitchenFilters{TableCode: "T6"})
	if len(rows) != 0 {
		t.Fatalf("table filter wrong: %+v", rows)
	}
	rows, _ = kitchen.Queue(KitchenFilters{AreaCode: "MAIN"})
	if len(rows) != 2 {
		t.Fatalf("area filter wrong: %+v", rows)
	}
	rows, _ = kitchen.Queue(KitchenFilters{CategoryID: &f.CategoryID})
	if len(rows) != 2 {
		t.Fatalf("category filter wrong: %+v", rows)
	}

	// Explicit status list overrides the default set.
	if e := kitchen.SetItemStatus(teaLine, models.KitchenReady, nil); e != nil {
		t.Fatalf("set ready: %v", e)
	}
	rows, _ = kitchen.Queue(KitchenFilters{Statuses: []string{models.KitchenReady}})
	if len(rows) != 1 || rows[0].OrderItemID != teaLine {
		t.Fatalf("status override wrong: %+v", rows)
	}
}

func TestKitchenHistory(t *testing.T) {
	db, f := newTestDB(t)
	orders := NewOrderService(db)
	kitchen := NewKitchenService(db)

	orderID, phoLine := openOrderWithPho(t, db, f)
	teaLine, _ := orders.AddItem(orderID, f.TeaID, 1, nil, nil)

	reason := "dropped the bowl"
	if e := kitchen.SetItemStatus(phoLine, models.KitchenCancelled, &reason); e != nil {
		t.Fatalf("cancel line: %v", e)
	}
	if e := kitchen.SetItemStatus(teaLine, models.KitchenServed, nil); e != nil {
		t.Fatalf("serve line: %v", e)
	}

	rows, e := kitchen.History(KitchenFilters{})
	if e != nil {
		t.Fatalf("history: %v", e)
	}
	if len(rows) != 2 {
		t.Fatalf("history rows = %d, want 2", len(rows))
	}
	// Most recently updated first.
	if rows[0].OrderItemID != teaLine {
		t.Fatalf("history order wrong: %+v", rows)
	}
	for _, r := range rows {
		if r.OrderItemID == phoLine {
			if r.CancelReason == nil || *r.CancelReason != reason {
				t.Fatalf("cancel reason missing: %+v", r)
			}
		}
	}
}

func TestSetItemStatusValidation(t *testing.T) {
	db, f := newTestDB(t)
	kitchen := NewKitchenService(db)
	_, lineID := openOrderWithPho(t, db, f)

	if e := kitchen.SetItemStatus(lineID, "burnt", nil); e == nil || e.Code != apierr.CodeValidation {
		t.Fatalf("invalid status = %v, want VALIDATION_FAILED", e)
	}
	if e := kitchen.SetItemStatus(lineID, models.KitchenCancelled, nil); e == nil || e.Code != apierr.CodeValidation {
		t.Fatalf("cancel without reason = %v, want VALIDATION_FAILED", e)
	}
	empty := "   "
	if e := kitchen.SetItemStatus(lineID, models.KitchenCancelled, &empty); e == nil || e.Code != apierr.CodeValidation {
		t.Fatalf("cancel with blank reason = %v, want VALIDATION_FAILED", e)
	}
	if e := kitchen.SetItemStatus(9999, models.KitchenReady, nil); e == nil || e.Code != apierr.CodeNotFound {
		t.Fatalf("missing line = %v, want NOT_FOUND", e)
	}
}

func TestSetItemStatusClearsReason(t *testing.T) {
	db, f := newTestDB(t)
	kitchen := NewKitchenService(db)
	_, lineID := openOrderWithPho(t, db, f)

	reason := "86'd"
	if e := kitchen.SetItemStatus(lineID, models.KitchenCancelled, &reason); e != nil {
		t.Fatalf("cancel: %v", e)
	}
	var line models.OrderItem
	db.First(&line, lineID)
	if line.CancelReason == nil || *line.CancelReason != reason {
		t.Fatalf("reason not stored: %+v", line)
	}

	// No forward-only enforcement: cancelled may go back to queued, and the
	// stored reason is cleared.
	if e := kitchen.SetItemStatus(lineID, models.KitchenQueued, nil); e != nil {
		t.Fatalf("requeue: %v", e)
	}
	db.First(&line, lineID)
	if line.KitchenStatus != models.KitchenQueued || line.CancelReason != nil {
		t.Fatalf("reason not cleared on requeue: %+v", line)
	}
}
