package middleware

import (
	"github.com/gofiber/fiber/v2"

	"learning-platform/backend/config"
	"learning-platform/backend/models"
	"learning-platform/backend/utils"
)

const (
	LocalUserID   = "userID"
	LocalUserRole = "userRole"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.ExtractClaimsFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserRole, claims.Role)
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals(LocalUserRole).(string); role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden - Admin access required",
			})
		}
		return c.Next()
	}
}

// CurrentUser is the authenticated caller as AuthMiddleware stored it.
func CurrentUser(c *fiber.Ctx) models.Student {
	id, _ := c.Locals(LocalUserID).(uint)
	role, _ := c.Locals(LocalUserRole).(string)
	return models.Student{ID: id, Role: role}
}
