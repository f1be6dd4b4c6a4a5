package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/lotus/internal/config"
	"github.com/example/lotus/internal/services"
	"github.com/example/lotus/internal/utils"
)

const identityContextKey = "currentIdentity"

// AuthMiddleware validates JWT tokens and loads the requester identity
// into context. Requests without a valid token are rejected.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := identityFromHeader(c, cfg)
		if err != nil {
			return err
		}
		if !identity.Authenticated {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		c.Locals(identityContextKey, identity)
		return c.Next()
	}
}

// OptionalAuthMiddleware loads the identity when a token is present but
// lets anonymous requests through; guest checkout and the post-checkout
// confirmation read rely on this. A malformed token is still rejected.
func OptionalAuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := identityFromHeader(c, cfg)
		if err != nil {
			return err
		}

		c.Locals(identityContextKey, identity)
		return c.Next()
	}
}

// RequireAdmin rejects requests whose identity lacks the admin role.
// Must run after AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetCurrentIdentity(c)
		if !ok || !identity.Authenticated {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		if !identity.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "admin role required")
		}
		return c.Next()
	}
}

// GetCurrentIdentity extracts the requester identity from context. The
// second return is false when no auth middleware ran on the route.
func GetCurrentIdentity(c *fiber.Ctx) (services.Identity, bool) {
	value := c.Locals(identityContextKey)
	if value == nil {
		return services.Identity{}, false
	}

	if identity, ok := value.(services.Identity); ok {
		return identity, true
	}

	return services.Identity{}, false
}

func identityFromHeader(c *fiber.Ctx, cfg *config.Config) (services.Identity, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return services.Identity{}, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return services.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
	}

	claims, err := utils.ParseToken(cfg.JWTSecret, parts[1])
	if err != nil {
		return services.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	return services.Identity{
		UserID:        claims.UserID,
		Email:         claims.Email,
		Role:          claims.Role,
		Authenticated: true,
	}, nil
}
