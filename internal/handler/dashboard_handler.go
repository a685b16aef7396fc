package handler

import (
	"orbit-hr-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	usecase *usecase.DashboardUsecase
}

func NewDashboardHandler(u *usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{usecase: u}
}

// GetCandidateStages serves the stage bucket matrix.
// Query: period (required), from, to, latest_per_candidate_bucket (default true).
func (h *DashboardHandler) GetCandidateStages(c *fiber.Ctx) error {
	q := usecase.StageBucketQuery{
		Period:                   c.Query("period"),
		From:                     c.Query("from"),
		To:                       c.Query("to"),
		LatestPerCandidateBucket: c.QueryBool("latest_per_candidate_bucket", true),
	}

	res, err := h.usecase.StageBuckets(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": res})
}

func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	stats, err := h.usecase.Summary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Dashboard summary retrieved",
		"data":    stats,
	})
}
