package handler

import (
	"bytes"
	"fmt"
	"time"

	"orbit-hr-backend/internal/report"
	"orbit-hr-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	candidates *usecase.CandidateUsecase
}

func NewReportHandler(candidates *usecase.CandidateUsecase) *ReportHandler {
	return &ReportHandler{candidates: candidates}
}

// CandidatesXLSX exports the candidates matching the list filters.
func (h *ReportHandler) CandidatesXLSX(c *fiber.Ctx) error {
	// 1. Same filters as the candidate list, without paging
	items, err := h.candidates.Export(c.UserContext(), listQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	if len(items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No candidate data found for the given filters."})
	}

	// 2. Render the workbook
	var buf bytes.Buffer
	if err := report.WriteCandidates(&buf, items); err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("candidates_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
