package handler

import (
	"orbit-hr-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type TeamHandler struct {
	usecase *usecase.DirectoryUsecase
}

func NewTeamHandler(u *usecase.DirectoryUsecase) *TeamHandler {
	return &TeamHandler{usecase: u}
}

func (h *TeamHandler) List(c *fiber.Ctx) error {
	teams, err := h.usecase.Teams(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Teams with details", "data": teams})
}
