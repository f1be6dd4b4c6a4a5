package models

import (
	"time"

	"github.com/google/uuid"
)

// Promo discount types.
const (
	PromoTypeFixed      = "fixed"
	PromoTypePercentage = "percentage"
)

// PromoCode is an admin-managed discount code. Value is a VND amount for
// fixed promos and percentage points for percentage promos; MaxAmount caps
// percentage discounts (0 means uncapped). PerUserLimit 0 means unlimited.
type PromoCode struct {
	BaseModel
	Code            string     `gorm:"uniqueIndex" json:"code"`
	PromoType       string     `json:"promo_type"`
	Value           int64      `json:"value"`
	MaxAmount       int64      `json:"max_amount"`
	IsActive        bool       `json:"is_active"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	IsLoginRequired bool       `json:"is_login_required"`
	PerUserLimit    int        `json:"per_user_limit"`
	UsedCount       int64      `json:"used_count"`
}

// PromoRedemption counts how many times a single identity (user ID for
// accounts, email for guests) has redeemed a promo. The unique pair index
// makes per-user limit enforcement a conditional increment.
type PromoRedemption struct {
	BaseModel
	PromoCodeID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_promo_redemption_identity" json:"promo_code_id"`
	Identity    string    `gorm:"uniqueIndex:idx_promo_redemption_identity" json:"identity"`
	Count       int       `json:"count"`
}
