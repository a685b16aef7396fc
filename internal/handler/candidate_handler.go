package handler

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"orbit-hr-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

const (
	maxResumeSize  = 1 << 20
	maxArchiveSize = 50 << 20

	// MaxRequestBody leaves room for multipart framing around a full archive.
	MaxRequestBody = maxArchiveSize + 1<<20
)

type CandidateHandler struct {
	usecase   *usecase.CandidateUsecase
	uploadDir string
}

func NewCandidateHandler(u *usecase.CandidateUsecase, uploadDir string) *CandidateHandler {
	return &CandidateHandler{usecase: u, uploadDir: uploadDir}
}

func listQuery(c *fiber.Ctx) usecase.CandidateListQuery {
	return usecase.CandidateListQuery{
		Page:      c.QueryInt("page", 1),
		PerPage:   c.QueryInt("per_page", 10),
		Search:    c.Query("search"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		SortOrder: c.Query("sort_order", "desc"),
	}
}

func (h *CandidateHandler) List(c *fiber.Ctx) error {
	res, err := h.usecase.List(c.UserContext(), listQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (h *CandidateHandler) Count(c *fiber.Ctx) error {
	n, err := h.usecase.Count(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": n})
}

func (h *CandidateHandler) Get(c *fiber.Ctx) error {
	candidate, err := h.usecase.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Candidate found", "data": candidate})
}

func (h *CandidateHandler) GetByEmail(c *fiber.Ctx) error {
	candidate, err := h.usecase.GetByEmail(c.UserContext(), c.Query("email"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Candidate found", "data": candidate})
}

func (h *CandidateHandler) Create(c *fiber.Ctx) error {
	var req usecase.CandidateInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	candidate, err := h.usecase.Create(c.UserContext(), userID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Candidate created", "data": candidate})
}

func (h *CandidateHandler) Update(c *fiber.Ctx) error {
	var req usecase.CandidateUpdateInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	candidate, err := h.usecase.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Candidate updated", "data": candidate})
}

// ImportTemplate creates candidates from a JSON array in the template format.
func (h *CandidateHandler) ImportTemplate(c *fiber.Ctx) error {
	var items []usecase.TemplateCandidate
	if err := c.BodyParser(&items); err != nil {
		return respondError(c, &usecase.ValidationError{Field: "body", Message: "Payload must be a JSON array"})
	}

	res, err := h.usecase.ImportTemplate(c.UserContext(), userID(c), items, func(in usecase.CandidateInput) error {
		return check(in)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Candidates imported", "data": res})
}

// BatchUploadResumes links the PDFs of a ZIP archive (form field "zip_file")
// to candidates by file name.
func (h *CandidateHandler) BatchUploadResumes(c *fiber.Ctx) error {
	file, err := c.FormFile("zip_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "zip_file is required", "field": "zip_file"})
	}
	if file.Size > maxArchiveSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "ZIP file too large (max 50MB)"})
	}

	f, err := file.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxArchiveSize+1))
	if err != nil {
		return respondError(c, err)
	}
	if len(data) > maxArchiveSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "ZIP file too large"})
	}

	res, err := h.usecase.ImportResumeArchive(c.UserContext(), bytes.NewReader(data), int64(len(data)), h.uploadDir)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Resumes processed", "data": res})
}

func (h *CandidateHandler) UpdateStages(c *fiber.Ctx) error {
	var req usecase.StageUpdateInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	res, err := h.usecase.UpdateStages(c.UserContext(), userID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Candidate stages updated", "data": res})
}

func (h *CandidateHandler) Stages(c *fiber.Ctx) error {
	stages, err := h.usecase.Stages(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Candidate stage history", "data": stages})
}

// UploadResume stores a PDF resume (form field "resume") for the candidate.
func (h *CandidateHandler) UploadResume(c *fiber.Ctx) error {
	id := c.Params("id")

	// 1. Validate the file
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "resume file is required", "field": "resume"})
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only PDF resumes are accepted", "field": "resume"})
	}
	if file.Size > maxResumeSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "Resume must be at most 1 MiB"})
	}
	if _, err := h.usecase.Get(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}

	// 2. Save under uploadDir as {candidate}_{unix}.pdf
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return respondError(c, err)
	}
	path := filepath.Join(h.uploadDir, fmt.Sprintf("%s_%d.pdf", id, time.Now().Unix()))
	if err := c.SaveFile(file, path); err != nil {
		return respondError(c, err)
	}

	// 3. Link it to the candidate
	candidate, err := h.usecase.AttachResume(c.UserContext(), id, filepath.ToSlash(path))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Resume uploaded", "data": candidate})
}
