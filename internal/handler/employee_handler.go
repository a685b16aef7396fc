package handler

import (
	"orbit-hr-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type EmployeeHandler struct {
	usecase *usecase.DirectoryUsecase
}

func NewEmployeeHandler(u *usecase.DirectoryUsecase) *EmployeeHandler {
	return &EmployeeHandler{usecase: u}
}

func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	res, err := h.usecase.Employees(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("per_page", 10), c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	e, err := h.usecase.Employee(c.UserContext(), c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Employee found", "data": e})
}

func (h *EmployeeHandler) GetWithProjects(c *fiber.Ctx) error {
	e, err := h.usecase.EmployeeWithProjects(c.UserContext(), c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Employee with projects", "data": e})
}
