package middleware

import (
	"orbit-hr-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func Permission(requiredPermission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Role from context (set by Auth)
		userRole, ok := c.Locals("role").(string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
		}

		// 2. Look the permission up in the role table
		if !model.HasPermission(userRole, requiredPermission) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Missing permission: " + requiredPermission})
		}

		return c.Next()
	}
}
