package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/example/lotus/internal/models"
)

// Identity describes the requester as established by the auth middleware.
// Unauthenticated requests carry a zero Identity.
type Identity struct {
	UserID        uuid.UUID
	Email         string
	Role          string
	Authenticated bool
}

// IsAdmin reports whether the identity carries the admin role claim.
func (id Identity) IsAdmin() bool {
	return id.Authenticated && id.Role == models.RoleAdmin
}

// RedeemerKey is the identity string recorded against promo redemptions:
// the account ID when signed in, the checkout email otherwise.
func (id Identity) RedeemerKey(guestEmail string) string {
	if id.Authenticated {
		return id.UserID.String()
	}
	return strings.ToLower(guestEmail)
}

// CanViewOrder grants read access to admins and to the order's owner by
// authenticated email. An unauthenticated caller holding the exact order
// code may read it by presenting a matching email, which covers the
// post-checkout confirmation screen for guests.
func CanViewOrder(id Identity, guestEmail string, order *models.Order) bool {
	if id.Authenticated {
		if id.IsAdmin() {
			return true
		}
		return strings.EqualFold(id.Email, order.Email)
	}
	return guestEmail != "" && strings.EqualFold(guestEmail, order.Email)
}

// CanMutateOrder grants write access to admins and the authenticated
// owner only. Guests never mutate orders.
func CanMutateOrder(id Identity, order *models.Order) bool {
	if !id.Authenticated {
		return false
	}
	if id.IsAdmin() {
		return true
	}
	return strings.EqualFold(id.Email, order.Email)
}
