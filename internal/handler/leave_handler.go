package handler

import (
	"orbit-hr-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type LeaveHandler struct {
	usecase *usecase.LeaveUsecase
}

func NewLeaveHandler(u *usecase.LeaveUsecase) *LeaveHandler {
	return &LeaveHandler{usecase: u}
}

func (h *LeaveHandler) RequestLeave(c *fiber.Ctx) error {
	var req usecase.LeaveInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	leave, err := h.usecase.RequestLeave(c.UserContext(), userID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Leave request submitted", "data": leave})
}

func (h *LeaveHandler) MyLeaves(c *fiber.Ctx) error {
	list, err := h.usecase.MyLeaves(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Leave requests", "data": list})
}

func (h *LeaveHandler) EmployeeAttendance(c *fiber.Ctx) error {
	list, err := h.usecase.EmployeeAttendance(c.UserContext(), c.Params("nt_account"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Employee attendance", "data": list})
}

func (h *LeaveHandler) EmployeeLeaves(c *fiber.Ctx) error {
	list, err := h.usecase.EmployeeLeaves(c.UserContext(), c.Params("nt_account"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Employee leaves", "data": list})
}

func (h *LeaveHandler) EmployeeOvertime(c *fiber.Ctx) error {
	list, err := h.usecase.EmployeeOvertime(c.UserContext(), c.Params("nt_account"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Employee overtime", "data": list})
}
