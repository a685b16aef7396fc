package routes

import (
	"orbit-hr-backend/internal/handler"
	"orbit-hr-backend/internal/middleware"
	"orbit-hr-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupCandidateRoutes(app *fiber.App, svc *Services) {
	hdl := handler.NewCandidateHandler(svc.Candidates, svc.UploadDir)

	api := app.Group("/api/candidates", middleware.Auth(svc.Secret), middleware.Permission(model.PermManageCandidates))
	api.Get("/", hdl.List)
	api.Get("/count", hdl.Count)
	api.Get("/by-email", hdl.GetByEmail)
	api.Post("/", hdl.Create)
	api.Put("/stages", hdl.UpdateStages)
	api.Post("/import-template", hdl.ImportTemplate)
	api.Post("/batch-upload-resumes", hdl.BatchUploadResumes)
	api.Get("/:id", hdl.Get)
	api.Put("/:id", hdl.Update)
	api.Get("/:id/stages", hdl.Stages)
	api.Post("/:id/resume", hdl.UploadResume)
}
