package routes

import (
	deliveryhttp "orbit-hr-backend/internal/delivery/http"
	"orbit-hr-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, svc *Services) {
	hdl := deliveryhttp.NewUserHandler(svc.Users)

	auth := app.Group("/api/auth")
	auth.Post("/login", hdl.Login)
	auth.Post("/refresh", hdl.Refresh)
	// The first account can be registered anonymously; later ones need an hr_admin token.
	auth.Post("/register", middleware.OptionalAuth(svc.Secret), hdl.Register)

	users := app.Group("/api/users", middleware.Auth(svc.Secret))
	users.Get("/me", hdl.Me)
}
