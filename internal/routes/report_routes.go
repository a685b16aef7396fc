package routes

import (
	"orbit-hr-backend/internal/handler"
	"orbit-hr-backend/internal/middleware"
	"orbit-hr-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupReportRoutes(app *fiber.App, svc *Services) {
	hdl := handler.NewReportHandler(svc.Candidates)

	api := app.Group("/api/reports", middleware.Auth(svc.Secret), middleware.Role(model.RoleHRAdmin))
	api.Get("/candidates.xlsx", hdl.CandidatesXLSX)
}
