package routes

import (
	"orbit-hr-backend/internal/handler"
	"orbit-hr-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaveRoutes(app *fiber.App, svc *Services) {
	hdl := handler.NewLeaveHandler(svc.Leaves)

	api := app.Group("/api/leave", middleware.Auth(svc.Secret))
	api.Post("/", hdl.RequestLeave)
	api.Get("/", hdl.MyLeaves)
}
