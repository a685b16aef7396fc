package middleware

import (
	"strings"

	"orbit-hr-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// Auth requires a valid access token and stores its claims in Locals.
func Auth(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		// 1. Token from "Authorization: Bearer <token>"
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing bearer token"})
		}

		// 2. Parse and verify
		claims, err := usecase.ParseToken(key, tokenString, usecase.TokenAccess)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// 3. Expose the actor to handlers
		setActor(c, claims)
		return c.Next()
	}
}

// OptionalAuth stores the actor when a valid token is present and lets the
// request through either way.
func OptionalAuth(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := usecase.ParseToken(key, tokenString, usecase.TokenAccess); err == nil {
				setActor(c, claims)
			}
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func setActor(c *fiber.Ctx, claims *usecase.Claims) {
	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
}
