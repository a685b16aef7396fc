package routes

import (
	"orbit-hr-backend/internal/handler"
	"orbit-hr-backend/internal/middleware"
	"orbit-hr-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App, svc *Services) {
	hdl := handler.NewDashboardHandler(svc.Dashboard)

	api := app.Group("/api/dashboard", middleware.Auth(svc.Secret), middleware.Permission(model.PermViewReports))
	api.Get("/candidate-stages", hdl.GetCandidateStages)
	api.Get("/summary", hdl.GetSummary)
}
