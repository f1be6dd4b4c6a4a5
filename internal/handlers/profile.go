package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/lotus/internal/middleware"
	"github.com/example/lotus/internal/models"
)

// ProfileHandler manages user profile endpoints.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetProfile returns the authenticated user's profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok || !identity.Authenticated {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", identity.UserID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":             user.ID,
			"email":          user.Email,
			"first_name":     user.FirstName,
			"last_name":      user.LastName,
			"phone":          user.Phone,
			"provider":       user.Provider,
			"role":           user.Role,
			"province":       user.Province,
			"district":       user.District,
			"ward":           user.Ward,
			"address_detail": user.AddressDetail,
			"created_at":     user.CreatedAt,
			"updated_at":     user.UpdatedAt,
		},
	})
}

type updateProfileRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Phone         *string `json:"phone"`
	Province      *string `json:"province"`
	District      *string `json:"district"`
	Ward          *string `json:"ward"`
	AddressDetail *string `json:"address_detail"`
}

// UpdateProfile updates profile and default shipping fields. Email, role
// and provider are not editable here.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok || !identity.Authenticated {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Province != nil {
		updates["province"] = *req.Province
	}
	if req.District != nil {
		updates["district"] = *req.District
	}
	if req.Ward != nil {
		updates["ward"] = *req.Ward
	}
	if req.AddressDetail != nil {
		updates["address_detail"] = *req.AddressDetail
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}
	updates["updated_at"] = time.Now()

	if err := h.db.Model(&models.User{}).Where("id = ?", identity.UserID).Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "profile updated"})
}
