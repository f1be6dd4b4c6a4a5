package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/lotus/internal/middleware"
	"github.com/example/lotus/internal/models"
	"github.com/example/lotus/internal/services"
	"github.com/example/lotus/internal/utils"
)

// PromoHandler manages promo code endpoints.
type PromoHandler struct {
	db     *gorm.DB
	promos *services.PromoService
}

// NewPromoHandler constructs PromoHandler.
func NewPromoHandler(db *gorm.DB, promos *services.PromoService) *PromoHandler {
	return &PromoHandler{db: db, promos: promos}
}

// ListActivePromos returns promos usable right now. Public.
func (h *PromoHandler) ListActivePromos(c *fiber.Ctx) error {
	promos, err := h.promos.ListActive()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": promos})
}

type validatePromoRequest struct {
	Code     string `json:"code"`
	Subtotal int64  `json:"subtotal"`
	Email    string `json:"email"`
}

// ValidatePromo checks a code against a cart subtotal without redeeming
// it; the storefront uses this before checkout. Guests pass their email
// so per-user limits apply to them too.
func (h *PromoHandler) ValidatePromo(c *fiber.Ctx) error {
	identity, _ := middleware.GetCurrentIdentity(c)

	var req validatePromoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "promo code is required")
	}
	if req.Subtotal < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid subtotal")
	}

	_, discount, err := h.promos.Validate(req.Code, req.Subtotal, identity.RedeemerKey(req.Email), identity.Authenticated)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"code":            req.Code,
			"discount_amount": discount,
			"total":           req.Subtotal - discount,
		},
	})
}

// ListAllPromos returns every promo with pagination. Admin only.
func (h *PromoHandler) ListAllPromos(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.PromoCode{}).Count(&total).Error; err != nil {
		return err
	}

	var promos []models.PromoCode
	if err := h.db.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&promos).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    promos,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type promoRequest struct {
	Code            string     `json:"code"`
	PromoType       string     `json:"promo_type"`
	Value           int64      `json:"value"`
	MaxAmount       int64      `json:"max_amount"`
	IsActive        *bool      `json:"is_active"`
	ExpiresAt       *time.Time `json:"expires_at"`
	IsLoginRequired bool       `json:"is_login_required"`
	PerUserLimit    int        `json:"per_user_limit"`
}

func (r *promoRequest) validate() error {
	if r.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "code is required")
	}
	if r.PromoType != models.PromoTypeFixed && r.PromoType != models.PromoTypePercentage {
		return fiber.NewError(fiber.StatusBadRequest, "promo_type must be fixed or percentage")
	}
	if r.Value <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "value must be positive")
	}
	if r.PromoType == models.PromoTypePercentage && r.Value > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "percentage value cannot exceed 100")
	}
	if r.MaxAmount < 0 || r.PerUserLimit < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "max_amount and per_user_limit cannot be negative")
	}
	return nil
}

// CreatePromo creates a promo code. Admin only.
func (h *PromoHandler) CreatePromo(c *fiber.Ctx) error {
	var req promoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	promo := models.PromoCode{
		Code:            req.Code,
		PromoType:       req.PromoType,
		Value:           req.Value,
		MaxAmount:       req.MaxAmount,
		IsActive:        active,
		ExpiresAt:       req.ExpiresAt,
		IsLoginRequired: req.IsLoginRequired,
		PerUserLimit:    req.PerUserLimit,
	}

	if err := h.db.Create(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "promo code already exists")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": promo})
}

// UpdatePromo edits a promo code. Redemption counters are never touched
// through this path. Admin only.
func (h *PromoHandler) UpdatePromo(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var promo models.PromoCode
	if err := h.db.First(&promo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "promo code not found")
		}
		return err
	}

	usedCount := promo.UsedCount
	if err := c.BodyParser(&promo); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	promo.ID = id
	promo.UsedCount = usedCount

	check := promoRequest{
		Code:         promo.Code,
		PromoType:    promo.PromoType,
		Value:        promo.Value,
		MaxAmount:    promo.MaxAmount,
		PerUserLimit: promo.PerUserLimit,
	}
	if err := check.validate(); err != nil {
		return err
	}

	if err := h.db.Save(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "promo code already exists")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": promo})
}

// DeletePromo removes a promo code and its redemption ledger. Admin only.
func (h *PromoHandler) DeletePromo(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("promo_code_id = ?", id).Delete(&models.PromoRedemption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PromoCode{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
