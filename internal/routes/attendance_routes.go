package routes

import (
	"orbit-hr-backend/internal/handler"
	"orbit-hr-backend/internal/middleware"
	"orbit-hr-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupAttendanceRoutes(app *fiber.App, svc *Services) {
	hdl := handler.NewAttendanceHandler(svc.Attendance, svc.Users)
	leaves := handler.NewLeaveHandler(svc.Leaves)

	api := app.Group("/api/attendance", middleware.Auth(svc.Secret))
	api.Post("/clock-in", hdl.ClockIn)
	api.Post("/clock-out", hdl.ClockOut)
	api.Post("/backtrack-clock-out", hdl.BacktrackClockOut)
	api.Post("/permission", hdl.RequestPermission)
	api.Put("/:id/fix", hdl.FixPartial)
	api.Get("/today", hdl.GetToday)
	api.Get("/history", hdl.GetHistory)
	api.Get("/weekly-stats", hdl.GetWeeklyStats)
	api.Get("/team/members", hdl.GetTeamMembers)
	api.Get("/team/history", hdl.GetTeamHistory)
	api.Get("/:id/logs", hdl.GetLogs)

	// hr_admin only
	manage := middleware.Permission(model.PermManageAttendance)
	api.Post("/auto-clock-out", manage, hdl.AutoClockOut)
	api.Get("/employee/:nt_account/attendance", manage, leaves.EmployeeAttendance)
	api.Get("/employee/:nt_account/leave", manage, leaves.EmployeeLeaves)
	api.Get("/employee/:nt_account/overtime", manage, leaves.EmployeeOvertime)
}
