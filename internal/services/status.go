package services

import "github.com/example/lotus/internal/models"

// statusTransitions is the authoritative order lifecycle. Cancellation is
// only possible before shipment; delivered and cancelled are terminal.
var statusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

// paymentTransitions: payment settles exactly once, to paid or failed.
var paymentTransitions = map[string][]string{
	models.PaymentStatusPending: {models.PaymentStatusPaid, models.PaymentStatusFailed},
	models.PaymentStatusPaid:    {},
	models.PaymentStatusFailed:  {},
}

// CheckStatusTransition reports whether an order may move from one status
// to another. Unknown target states are rejected the same way as illegal
// moves between known states.
func CheckStatusTransition(from, to string) error {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{Field: "status", From: from, To: to}
}

// CheckPaymentTransition validates a payment status change.
func CheckPaymentTransition(from, to string) error {
	for _, allowed := range paymentTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{Field: "payment_status", From: from, To: to}
}

// ShippingStatusFor derives the storefront shipping status from the
// canonical order status. There is no stored shipping_status column and
// no write path for it; a cancelled order's shipment never progressed.
func ShippingStatusFor(status string) string {
	if status == models.OrderStatusCancelled {
		return models.OrderStatusPending
	}
	return status
}
