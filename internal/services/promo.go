package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/example/lotus/internal/models"
)

// PromoService validates and redeems discount codes.
type PromoService struct {
	db *gorm.DB
}

// NewPromoService constructs PromoService.
func NewPromoService(db *gorm.DB) *PromoService {
	return &PromoService{db: db}
}

// Validate checks a promo code against a cart without reserving anything.
// Checks run in order and the first failure wins: existence, active flag,
// expiry, login requirement, per-user limit. On success it returns the
// promo and the discount amount, already clamped to the subtotal.
// identity is the redeemer key (user ID or guest email); authenticated
// tells whether the requester is signed in.
func (s *PromoService) Validate(code string, subtotal int64, identity string, authenticated bool) (*models.PromoCode, int64, error) {
	var promo models.PromoCode
	if err := s.db.First(&promo, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrPromoNotFound
		}
		return nil, 0, err
	}

	if !promo.IsActive {
		return nil, 0, ErrPromoInactive
	}
	if promo.ExpiresAt != nil && promo.ExpiresAt.Before(time.Now()) {
		return nil, 0, ErrPromoExpired
	}
	if promo.IsLoginRequired && !authenticated {
		return nil, 0, ErrPromoLoginRequired
	}

	if promo.PerUserLimit > 0 {
		var redemption models.PromoRedemption
		err := s.db.First(&redemption, "promo_code_id = ? AND identity = ?", promo.ID, identity).Error
		if err == nil && redemption.Count >= promo.PerUserLimit {
			return nil, 0, ErrPromoLimitReached
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, err
		}
	}

	return &promo, DiscountFor(&promo, subtotal), nil
}

// DiscountFor computes the discount a promo grants on a subtotal: fixed
// promos grant their value, percentage promos grant subtotal*value/100
// capped by MaxAmount when set. The result never exceeds the subtotal.
func DiscountFor(promo *models.PromoCode, subtotal int64) int64 {
	var discount int64
	switch promo.PromoType {
	case models.PromoTypePercentage:
		discount = subtotal * promo.Value / 100
		if promo.MaxAmount > 0 && discount > promo.MaxAmount {
			discount = promo.MaxAmount
		}
	default:
		discount = promo.Value
	}

	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// Redeem records one redemption for the identity inside the caller's
// transaction. The per-user limit is enforced with a conditional
// increment ("count = count + 1 where count < limit"), so two concurrent
// checkouts cannot both take the last slot: the insert path is guarded by
// the unique (promo, identity) index and the loser of that race re-enters
// the conditional update. Rolling back the transaction releases the slot.
func (s *PromoService) Redeem(tx *gorm.DB, promo *models.PromoCode, identity string) error {
	increment := tx.Model(&models.PromoRedemption{}).
		Where("promo_code_id = ? AND identity = ?", promo.ID, identity)
	if promo.PerUserLimit > 0 {
		increment = increment.Where("count < ?", promo.PerUserLimit)
	}

	res := increment.Update("count", gorm.Expr("count + 1"))
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		var existing models.PromoRedemption
		err := tx.First(&existing, "promo_code_id = ? AND identity = ?", promo.ID, identity).Error
		if err == nil {
			// Row exists but the conditional increment skipped it.
			return ErrPromoLimitReached
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		redemption := models.PromoRedemption{
			PromoCodeID: promo.ID,
			Identity:    identity,
			Count:       1,
		}
		if err := tx.Create(&redemption).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return s.Redeem(tx, promo, identity)
			}
			return err
		}
	}

	return tx.Model(&models.PromoCode{}).
		Where("id = ?", promo.ID).
		Update("used_count", gorm.Expr("used_count + 1")).Error
}

// ListActive returns promos usable right now, for the storefront surface.
func (s *PromoService) ListActive() ([]models.PromoCode, error) {
	var promos []models.PromoCode
	err := s.db.
		Where("is_active = ?", true).
		Where("expires_at IS NULL OR expires_at >= ?", time.Now()).
		Order("created_at desc").
		Find(&promos).Error
	return promos, err
}
