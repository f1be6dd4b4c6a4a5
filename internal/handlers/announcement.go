package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/lotus/internal/models"
	"github.com/example/lotus/internal/services"
)

// AnnouncementHandler manages the storefront announcement surface.
type AnnouncementHandler struct {
	db     *gorm.DB
	promos *services.PromoService
}

// NewAnnouncementHandler constructs AnnouncementHandler.
func NewAnnouncementHandler(db *gorm.DB, promos *services.PromoService) *AnnouncementHandler {
	return &AnnouncementHandler{db: db, promos: promos}
}

// Storefront returns the active announcements together with the active
// promo list, the banner payload the storefront renders. Public.
func (h *AnnouncementHandler) Storefront(c *fiber.Ctx) error {
	var announcements []models.Announcement
	if err := h.db.Where("is_active = ?", true).
		Order("created_at desc").
		Find(&announcements).Error; err != nil {
		return err
	}

	promos, err := h.promos.ListActive()
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"announcements": announcements,
			"promos":        promos,
		},
	})
}

// ListAnnouncements returns every announcement. Admin only.
func (h *AnnouncementHandler) ListAnnouncements(c *fiber.Ctx) error {
	var items []models.Announcement
	if err := h.db.Order("created_at desc").Find(&items).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// CreateAnnouncement creates an announcement. Admin only.
func (h *AnnouncementHandler) CreateAnnouncement(c *fiber.Ctx) error {
	var item models.Announcement
	if err := c.BodyParser(&item); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if item.Message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "message is required")
	}
	if err := h.db.Create(&item).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

// UpdateAnnouncement edits an announcement. Admin only.
func (h *AnnouncementHandler) UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	var item models.Announcement
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "announcement not found")
		}
		return err
	}
	if err := c.BodyParser(&item); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	item.ID = id
	if err := h.db.Save(&item).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

// DeleteAnnouncement removes an announcement. Admin only.
func (h *AnnouncementHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := h.db.Delete(&models.Announcement{}, "id = ?", id).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
