package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/lotus/internal/models"
)

func testDraft() OrderDraft {
	return OrderDraft{
		Email:         "guest@example.com",
		FullName:      "Nguyễn Văn A",
		Phone:         "0901234567",
		Province:      "Hà Nội",
		District:      "Ba Đình",
		Ward:          "Điện Biên",
		AddressDetail: "12 Hoàng Diệu",
		Items: []models.OrderItem{
			{ProductID: "p1", Name: "Áo thun", UnitPrice: 150000, Quantity: 2},
			{ProductID: "p2", Name: "Quần jean", UnitPrice: 400000, Quantity: 1},
		},
		PaymentMethod:    models.PaymentMethodCOD,
		RedeemerIdentity: "guest@example.com",
	}
}

func TestCreateOrderComputesTotals(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, NewPromoService(db))

	order, err := svc.Create(testDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if order.Subtotal != 700000 {
		t.Fatalf("subtotal = %d, want 700000", order.Subtotal)
	}
	if order.ShippingFee != StandardShippingFee {
		t.Fatalf("shipping fee = %d, want %d", order.ShippingFee, StandardShippingFee)
	}
	if order.Total != order.Subtotal+order.ShippingFee-order.PromoAmount {
		t.Fatalf("total invariant broken: %d != %d + %d - %d",
			order.Total, order.Subtotal, order.ShippingFee, order.PromoAmount)
	}
	if order.Status != models.OrderStatusPending || order.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("initial state = %s/%s, want pending/pending", order.Status, order.PaymentStatus)
	}
	if !strings.HasPrefix(order.OrderCode, "LT") {
		t.Fatalf("order code %q missing prefix", order.OrderCode)
	}
	if order.UserID != nil {
		t.Fatal("guest order must have nil user id")
	}

	stored, err := svc.GetByCode(order.OrderCode)
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if len(stored.Items) != 2 {
		t.Fatalf("stored items = %d, want 2", len(stored.Items))
	}
}

func TestCreateOrderMetroShipping(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, NewPromoService(db))

	draft := testDraft()
	draft.Province = "TP. Hồ Chí Minh"
	order, err := svc.Create(draft)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.ShippingFee != MetroShippingFee {
		t.Fatalf("shipping fee = %d, want %d", order.ShippingFee, MetroShippingFee)
	}
}

func TestCreateOrderRedeemsPromo(t *testing.T) {
	db := newTestDB(t)
	promos := NewPromoService(db)
	svc := NewOrderService(db, promos)

	seedPromo(t, db, models.PromoCode{
		Code:         "SALE10",
		PromoType:    models.PromoTypePercentage,
		Value:        10,
		MaxAmount:    50000,
		IsActive:     true,
		PerUserLimit: 1,
	})

	draft := testDraft()
	draft.PromoCode = "SALE10"
	order, err := svc.Create(draft)
	if err != nil {
		t.Fatalf("create with promo: %v", err)
	}

	// 10% of 700000 is 70000, capped at 50000.
	if order.PromoAmount != 50000 {
		t.Fatalf("promo amount = %d, want 50000", order.PromoAmount)
	}
	if order.Total != 700000+StandardShippingFee-50000 {
		t.Fatalf("total = %d", order.Total)
	}

	var promo models.PromoCode
	if err := db.First(&promo, "code = ?", "SALE10").Error; err != nil {
		t.Fatalf("reload promo: %v", err)
	}
	if promo.UsedCount != 1 {
		t.Fatalf("used_count = %d, want 1", promo.UsedCount)
	}

	// Limit of one redemption per identity: the second checkout fails
	// and no order is written for it.
	if _, err := svc.Create(draft); !errors.Is(err, ErrPromoLimitReached) {
		t.Fatalf("second checkout: got %v, want limit reached", err)
	}
	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 1 {
		t.Fatalf("orders persisted = %d, want 1", count)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, NewPromoService(db))

	cases := []struct {
		name   string
		mutate func(*OrderDraft)
	}{
		{"missing email", func(d *OrderDraft) { d.Email = "" }},
		{"missing address", func(d *OrderDraft) { d.AddressDetail = "" }},
		{"no items", func(d *OrderDraft) { d.Items = nil }},
		{"zero quantity", func(d *OrderDraft) { d.Items[0].Quantity = 0 }},
		{"negative price", func(d *OrderDraft) { d.Items[0].UnitPrice = -1 }},
		{"bad payment method", func(d *OrderDraft) { d.PaymentMethod = "paypal" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := testDraft()
			tc.mutate(&draft)
			_, err := svc.Create(draft)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("got %v, want ValidationError", err)
			}
		})
	}
}

func TestCreateOrdersSameSecondGetDistinctCodes(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, NewPromoService(db))

	// Back-to-back creation lands in the same calendar second almost
	// always; the second insert hits the unique index and retries with
	// a suffixed code.
	first, err := svc.Create(testDraft())
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.Create(testDraft())
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	if first.OrderCode == second.OrderCode {
		t.Fatalf("both orders persisted with code %q", first.OrderCode)
	}

	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 2 {
		t.Fatalf("orders persisted = %d, want 2", count)
	}
}

func TestUpdateStatusWalksLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, NewPromoService(db))

	order, err := svc.Create(testDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, next := range []string{
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	} {
		order, err = svc.UpdateStatus(order.OrderCode, StatusPatch{Status: next})
		if err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
		if order.Status != next {
			t.Fatalf("status = %s, want %s", order.Status, next)
		}
	}

	// Delivered is terminal; the failed attempt must leave the order
	// unchanged.
	_, err = svc.UpdateStatus(order.OrderCode, StatusPatch{Status: models.OrderStatusCancelled})
	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("cancel after delivery: got %v", err)
	}
	current, err := svc.GetByCode(order.OrderCode)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if current.Status != models.OrderStatusDelivered {
		t.Fatalf("status mutated to %s by rejected transition", current.Status)
	}
}

func TestCancelBeforeShipmentOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, NewPromoService(db))

	order, err := svc.Create(testDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateStatus(order.OrderCode, StatusPatch{Status: models.OrderStatusCancelled}); err != nil {
		t.Fatalf("cancel from pending: %v", err)
	}

	shipped, err := svc.Create(testDraft())
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	for _, next := range []string{models.OrderStatusProcessing, models.OrderStatusShipped} {
		if _, err := svc.UpdateStatus(shipped.OrderCode, StatusPatch{Status: next}); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
	if _, err := svc.UpdateStatus(shipped.OrderCode, StatusPatch{Status: models.OrderStatusCancelled}); err == nil {
		t.Fatal("cancel after shipment must be rejected")
	}
}

func TestUpdatePaymentStatusTerminal(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, NewPromoService(db))

	order, err := svc.Create(testDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	order, err = svc.UpdateStatus(order.OrderCode, StatusPatch{PaymentStatus: models.PaymentStatusPaid})
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if order.PaymentStatus != models.PaymentStatusPaid {
		t.Fatalf("payment status = %s", order.PaymentStatus)
	}

	if _, err := svc.UpdateStatus(order.OrderCode, StatusPatch{PaymentStatus: models.PaymentStatusFailed}); err == nil {
		t.Fatal("paid is terminal; paid -> failed must be rejected")
	}
}

func TestDeleteOrderIdempotentNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, NewPromoService(db))

	order, err := svc.Create(testDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(order.OrderCode); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(order.OrderCode); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("second delete: got %v, want not found", err)
	}
	if _, err := svc.GetByCode(order.OrderCode); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("get after delete: got %v, want not found", err)
	}

	var items int64
	if err := db.Model(&models.OrderItem{}).Count(&items).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if items != 0 {
		t.Fatalf("order items left behind: %d", items)
	}
}

func TestListForIdentity(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, NewPromoService(db))

	mine := testDraft()
	for i := 0; i < 2; i++ {
		if _, err := svc.Create(mine); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	other := testDraft()
	other.Email = "other@example.com"
	other.RedeemerIdentity = "other@example.com"
	if _, err := svc.Create(other); err != nil {
		t.Fatalf("create other: %v", err)
	}

	orders, total, err := svc.List(ListFilter{Email: "guest@example.com", Limit: 20})
	if err != nil {
		t.Fatalf("list by email: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("list by email: %d/%d, want 2/2", len(orders), total)
	}

	all, total, err := svc.List(ListFilter{All: true, Limit: 20})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("admin wildcard: %d/%d, want 3/3", len(all), total)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].CreatedAt.Before(all[i].CreatedAt) {
			t.Fatal("orders not sorted newest first")
		}
	}
}
