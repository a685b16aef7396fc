package handler

import (
	"orbit-hr-backend/internal/repository"
	"orbit-hr-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type AttendanceHandler struct {
	usecase *usecase.AttendanceUsecase
	users   *usecase.UserUsecase
}

func NewAttendanceHandler(u *usecase.AttendanceUsecase, users *usecase.UserUsecase) *AttendanceHandler {
	return &AttendanceHandler{usecase: u, users: users}
}

func (h *AttendanceHandler) ClockIn(c *fiber.Ctx) error {
	var req usecase.ClockInInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	a, err := h.usecase.ClockIn(c.UserContext(), userID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Clocked in successfully", "data": a})
}

func (h *AttendanceHandler) ClockOut(c *fiber.Ctx) error {
	var req usecase.ClockOutInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	a, err := h.usecase.ClockOut(c.UserContext(), userID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Clocked out successfully", "data": a})
}

func (h *AttendanceHandler) BacktrackClockOut(c *fiber.Ctx) error {
	var req usecase.BacktrackInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	a, err := h.usecase.BacktrackClockOut(c.UserContext(), userID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Clock-out backtracked", "data": a})
}

func (h *AttendanceHandler) FixPartial(c *fiber.Ctx) error {
	var req usecase.FixPartialInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	a, err := h.usecase.FixPartial(c.UserContext(), userID(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Partial attendance fixed", "data": a})
}

func (h *AttendanceHandler) RequestPermission(c *fiber.Ctx) error {
	var req usecase.PermissionInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	a, err := h.usecase.RequestPermission(c.UserContext(), userID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Permission recorded", "data": a})
}

func (h *AttendanceHandler) GetToday(c *fiber.Ctx) error {
	a, err := h.usecase.Today(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Today's attendance", "data": a})
}

func historyFilter(c *fiber.Ctx) repository.AttendanceFilter {
	return repository.AttendanceFilter{
		Month:  c.QueryInt("month", 0),
		Year:   c.QueryInt("year", 0),
		Limit:  c.QueryInt("limit", 30),
		Offset: c.QueryInt("offset", 0),
	}
}

func (h *AttendanceHandler) GetHistory(c *fiber.Ctx) error {
	list, err := h.usecase.History(c.UserContext(), userID(c), historyFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Attendance history", "data": list})
}

func (h *AttendanceHandler) GetWeeklyStats(c *fiber.Ctx) error {
	stats, err := h.usecase.WeeklyStats(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Weekly statistics", "data": stats})
}

func (h *AttendanceHandler) GetLogs(c *fiber.Ctx) error {
	logs, err := h.usecase.Logs(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Attendance logs", "data": logs})
}

func (h *AttendanceHandler) GetTeamMembers(c *fiber.Ctx) error {
	lead, err := h.users.Me(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}

	team, err := h.usecase.TeamMembers(c.UserContext(), lead)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Team members", "data": team})
}

func (h *AttendanceHandler) GetTeamHistory(c *fiber.Ctx) error {
	lead, err := h.users.Me(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}

	list, err := h.usecase.TeamHistory(c.UserContext(), lead, historyFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Team attendance history", "data": list})
}

// AutoClockOut runs the end-of-day sweep on demand.
func (h *AttendanceHandler) AutoClockOut(c *fiber.Ctx) error {
	res, err := h.usecase.AutoClockOut(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
