package middleware

import "github.com/gofiber/fiber/v2"

// Role lets the request through only when the actor set by Auth has one of
// the given roles.
func Role(allowedRoles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		userRole, _ := c.Locals("role").(string)
		if userRole == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
		}
		if _, ok := allowed[userRole]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized", "role": userRole})
		}
		return c.Next()
	}
}
