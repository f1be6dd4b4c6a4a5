package services

import (
	"errors"
	"testing"

	"github.com/example/lotus/internal/models"
)

func TestStatusTransitions(t *testing.T) {
	allowed := [][2]string{
		{models.OrderStatusPending, models.OrderStatusProcessing},
		{models.OrderStatusPending, models.OrderStatusCancelled},
		{models.OrderStatusProcessing, models.OrderStatusShipped},
		{models.OrderStatusProcessing, models.OrderStatusCancelled},
		{models.OrderStatusShipped, models.OrderStatusDelivered},
	}
	for _, pair := range allowed {
		if err := CheckStatusTransition(pair[0], pair[1]); err != nil {
			t.Fatalf("%s -> %s should be allowed: %v", pair[0], pair[1], err)
		}
	}

	denied := [][2]string{
		{models.OrderStatusShipped, models.OrderStatusCancelled},
		{models.OrderStatusDelivered, models.OrderStatusCancelled},
		{models.OrderStatusDelivered, models.OrderStatusPending},
		{models.OrderStatusCancelled, models.OrderStatusProcessing},
		{models.OrderStatusPending, models.OrderStatusDelivered},
		{models.OrderStatusPending, "nonsense"},
	}
	for _, pair := range denied {
		err := CheckStatusTransition(pair[0], pair[1])
		if err == nil {
			t.Fatalf("%s -> %s should be rejected", pair[0], pair[1])
		}
		var transitionErr *InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Fatalf("%s -> %s: got %T, want InvalidTransitionError", pair[0], pair[1], err)
		}
		if transitionErr.From != pair[0] || transitionErr.To != pair[1] {
			t.Fatalf("error names %s -> %s, want %s -> %s",
				transitionErr.From, transitionErr.To, pair[0], pair[1])
		}
	}
}

func TestPaymentTransitionsAreTerminal(t *testing.T) {
	if err := CheckPaymentTransition(models.PaymentStatusPending, models.PaymentStatusPaid); err != nil {
		t.Fatalf("pending -> paid: %v", err)
	}
	if err := CheckPaymentTransition(models.PaymentStatusPending, models.PaymentStatusFailed); err != nil {
		t.Fatalf("pending -> failed: %v", err)
	}
	if err := CheckPaymentTransition(models.PaymentStatusPaid, models.PaymentStatusFailed); err == nil {
		t.Fatal("paid -> failed should be rejected")
	}
	if err := CheckPaymentTransition(models.PaymentStatusFailed, models.PaymentStatusPaid); err == nil {
		t.Fatal("failed -> paid should be rejected")
	}
}

func TestShippingStatusFor(t *testing.T) {
	if got := ShippingStatusFor(models.OrderStatusShipped); got != models.OrderStatusShipped {
		t.Fatalf("shipped derives to %q", got)
	}
	if got := ShippingStatusFor(models.OrderStatusCancelled); got != models.OrderStatusPending {
		t.Fatalf("cancelled should derive to pending, got %q", got)
	}
}
