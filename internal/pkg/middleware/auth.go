package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/VeluraLiving/Velura/internal/pkg/usercontext"
)

// RequireAuthAPI rejects requests whose user context is not authenticated.
func RequireAuthAPI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !usercontext.IsLoggedIn(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Authentication required"})
		}
		return c.Next()
	}
}

// RequireAdminAPI rejects requests from non-admin users.
func RequireAdminAPI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !usercontext.IsLoggedIn(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Authentication required"})
		}
		if !usercontext.IsAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Admin privileges required"})
		}
		return c.Next()
	}
}
