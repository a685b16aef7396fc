package handler

import (
	"errors"

	"orbit-hr-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// respondError writes the status and body for an error returned by a usecase.
func respondError(c *fiber.Ctx, err error) error {
	var ve *usecase.ValidationError
	var sc *usecase.StateConflictError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Message, "field": ve.Field})
	case errors.As(err, &sc):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": sc.Message, "current_status": sc.Current})
	case errors.Is(err, usecase.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, usecase.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	case errors.Is(err, usecase.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
