package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/lotus/internal/config"
	"github.com/example/lotus/internal/handlers"
	"github.com/example/lotus/internal/middleware"
	"github.com/example/lotus/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	promoService := services.NewPromoService(db)
	orderService := services.NewOrderService(db, promoService)

	authHandler := handlers.NewAuthHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(orderService, telegramService)
	promoHandler := handlers.NewPromoHandler(db, promoService)
	announcementHandler := handlers.NewAnnouncementHandler(db, promoService)
	profileHandler := handlers.NewProfileHandler(db)

	requireAuth := middleware.AuthMiddleware(cfg)
	optionalAuth := middleware.OptionalAuthMiddleware(cfg)
	requireAdmin := middleware.RequireAdmin()

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Orders: checkout and confirmation reads allow guests, listing
	// requires an account, mutation and deletion are admin-only.
	orders := api.Group("/orders")
	orders.Post("/", optionalAuth, orderHandler.CreateOrder)
	orders.Get("/", requireAuth, orderHandler.ListOrders)
	orders.Get("/:code", optionalAuth, orderHandler.GetOrder)
	orders.Patch("/:code", requireAuth, requireAdmin, orderHandler.UpdateOrder)
	orders.Delete("/:code", requireAuth, requireAdmin, orderHandler.DeleteOrder)

	// Promo codes
	promos := api.Group("/promos")
	promos.Get("/", promoHandler.ListActivePromos)
	promos.Post("/validate", optionalAuth, promoHandler.ValidatePromo)
	promos.Get("/all", requireAuth, requireAdmin, promoHandler.ListAllPromos)
	promos.Post("/", requireAuth, requireAdmin, promoHandler.CreatePromo)
	promos.Put("/:id", requireAuth, requireAdmin, promoHandler.UpdatePromo)
	promos.Delete("/:id", requireAuth, requireAdmin, promoHandler.DeletePromo)

	// Storefront announcements
	announcements := api.Group("/announcements")
	announcements.Get("/", announcementHandler.Storefront)
	announcements.Get("/all", requireAuth, requireAdmin, announcementHandler.ListAnnouncements)
	announcements.Post("/", requireAuth, requireAdmin, announcementHandler.CreateAnnouncement)
	announcements.Put("/:id", requireAuth, requireAdmin, announcementHandler.UpdateAnnouncement)
	announcements.Delete("/:id", requireAuth, requireAdmin, announcementHandler.DeleteAnnouncement)

	// Profile
	api.Get("/profile", requireAuth, profileHandler.GetProfile)
	api.Put("/profile", requireAuth, profileHandler.UpdateProfile)
}
