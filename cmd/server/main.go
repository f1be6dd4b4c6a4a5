package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/lotus/internal/config"
	"github.com/example/lotus/internal/database"
	"github.com/example/lotus/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)
	defer database.Close(db)

	app := fiber.New(fiber.Config{
		AppName:      "Lotus Storefront",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server")
		_ = app.Shutdown()
	}()

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}

// errorHandler turns every error into the uniform response envelope.
// Expected failures keep their status and message; anything else is
// logged with the request context and reported as a generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code == fiber.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Method(), c.Path(), err)
		message = "internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
