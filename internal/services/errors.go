package services

import (
	"errors"
	"fmt"
)

// Expected failures surfaced by the services layer. Handlers map these to
// HTTP statuses; anything else is treated as an unexpected server error.
var (
	ErrPromoNotFound      = errors.New("promo code not found")
	ErrPromoInactive      = errors.New("promo code is not active")
	ErrPromoExpired       = errors.New("promo code has expired")
	ErrPromoLoginRequired = errors.New("promo code requires a signed-in account")
	ErrPromoLimitReached  = errors.New("promo code usage limit reached")

	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderCodeConflict = errors.New("could not allocate a unique order code")
)

// ValidationError marks malformed or incomplete input; handlers turn it
// into a 400 with the message intact.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// InvalidTransitionError reports an illegal status change, naming the
// attempted pair. The order is left unchanged.
type InvalidTransitionError struct {
	Field string
	From  string
	To    string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition from %q to %q", e.Field, e.From, e.To)
}
