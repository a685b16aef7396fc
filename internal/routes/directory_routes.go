package routes

import (
	"orbit-hr-backend/internal/handler"
	"orbit-hr-backend/internal/middleware"
	"orbit-hr-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupDirectoryRoutes(app *fiber.App, svc *Services) {
	employees := handler.NewEmployeeHandler(svc.Directory)
	teams := handler.NewTeamHandler(svc.Directory)
	projects := handler.NewProjectHandler(svc.Directory)

	auth := middleware.Auth(svc.Secret)
	manage := middleware.Permission(model.PermManageDirectory)

	emp := app.Group("/api/employees", auth)
	emp.Get("/", employees.List)
	emp.Get("/:uuid", employees.Get)
	emp.Get("/:uuid/projects", employees.GetWithProjects)

	app.Get("/api/teams", auth, teams.List)

	proj := app.Group("/api/projects", auth)
	proj.Get("/dashboard", projects.Dashboard)
	proj.Get("/:id", projects.Get)
	proj.Put("/:id", manage, projects.Update)
	proj.Post("/:id/members", manage, projects.AddMember)
	proj.Delete("/:id/members/:task_id", manage, projects.RemoveMember)
}
