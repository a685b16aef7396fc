package handler

import (
	"orbit-hr-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type ProjectHandler struct {
	usecase *usecase.DirectoryUsecase
}

func NewProjectHandler(u *usecase.DirectoryUsecase) *ProjectHandler {
	return &ProjectHandler{usecase: u}
}

func (h *ProjectHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.usecase.ProjectDashboard(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Project dashboard", "data": d})
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	p, err := h.usecase.Project(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Project details", "data": p})
}

func (h *ProjectHandler) AddMember(c *fiber.Ctx) error {
	var req usecase.ProjectMemberInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	task, err := h.usecase.AddProjectMember(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Member added to project successfully", "data": task})
}

func (h *ProjectHandler) RemoveMember(c *fiber.Ctx) error {
	if err := h.usecase.RemoveProjectMember(c.UserContext(), c.Params("id"), c.Params("task_id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Member removed from project successfully"})
}

func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var req usecase.ProjectUpdateInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	p, err := h.usecase.UpdateProject(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Project updated", "data": p})
}
