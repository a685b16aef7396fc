package usecase

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"orbit-hr-backend/internal/event"
	"orbit-hr-backend/internal/model"
)

// MaxArchiveResumeSize caps one PDF inside a batch resume archive.
const MaxArchiveResumeSize = 5 << 20

// TemplateCandidate is one entry of the JSON import template.
type TemplateCandidate struct {
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	Whatsapp *string `json:"whatsapp"`
	Detail   struct {
		Location        *string `json:"lokasi"`
		HighestDegree   *string `json:"gelar_tertinggi"`
		TotalExperience *string `json:"pengalaman_total"`
	} `json:"detail"`
	WorkExperience    []string `json:"pengalaman_kerja"`
	Skills            *string  `json:"skills"`
	Interests         *string  `json:"minat"`
	AboutMe           *string  `json:"tentang_saya"`
	Education         []string `json:"pendidikan"`
	Awards            []string `json:"penghargaan"`
	Organizations     []string `json:"organisasi"`
	SalaryExpectation *string  `json:"ekspektasi_gaji"`
	ResumeURL         *string  `json:"resume_url"`
}

type ImportError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Inserted int           `json:"inserted"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

type ResumeError struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

type ResumeBatchResult struct {
	Matched   int           `json:"matched"`
	Unmatched int           `json:"unmatched"`
	Errors    []ResumeError `json:"errors"`
}

var (
	yearsPattern  = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*tahun`)
	monthsPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*bulan`)
	resumeSuffix  = regexp.MustCompile(`(?i)[\s._-]*(resume|cv)$`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9]`)
	nameSeparator = regexp.MustCompile(`[._-]+`)
)

// experienceMonths reads "3 tahun 6 bulan" or a bare number of years.
func experienceMonths(s *string) *int {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	if years, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64); err == nil {
		months := int(years*12 + 0.5)
		return &months
	}
	var total float64
	if m := yearsPattern.FindStringSubmatch(v); m != nil {
		n, _ := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		total += n * 12
	}
	if m := monthsPattern.FindStringSubmatch(v); m != nil {
		n, _ := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		total += n
	}
	if total <= 0 {
		return nil
	}
	months := int(total + 0.5)
	return &months
}

func section(title string, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return title + ":\n" + strings.Join(lines, "\n")
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Input maps the template entry onto the create request.
func (t TemplateCandidate) Input() CandidateInput {
	skills := deref(t.Skills)
	if t.Interests != nil && *t.Interests != "" {
		if skills != "" {
			skills += " | Interests: " + *t.Interests
		} else {
			skills = "Interests: " + *t.Interests
		}
	}

	notes := []string{deref(t.AboutMe)}
	for _, s := range []string{
		section("Pengalaman Kerja", t.WorkExperience),
		section("Penghargaan", t.Awards),
		section("Organisasi", t.Organizations),
	} {
		if s != "" {
			notes = append(notes, s)
		}
	}

	return CandidateInput{
		Email:           t.Email,
		Name:            t.Name,
		Whatsapp:        t.Whatsapp,
		Location:        t.Detail.Location,
		HighestDegree:   t.Detail.HighestDegree,
		ExperienceMonth: experienceMonths(t.Detail.TotalExperience),
		Skills:          nonEmpty(skills),
		Education:       nonEmpty(strings.Join(t.Education, "\n")),
		AboutMe:         nonEmpty(strings.Join(notes, "\n\n")),
		ExpectedSalary:  t.SalaryExpectation,
		CVFile:          t.ResumeURL,
	}
}

// ImportTemplate creates a candidate per template entry. Entries without an
// email are reported, entries whose email already exists are skipped quietly.
// check, when set, vets each mapped row the way a single create is vetted.
func (u *CandidateUsecase) ImportTemplate(ctx context.Context, actorID string, items []TemplateCandidate,
	check func(CandidateInput) error) (*ImportResult, error) {
	if len(items) == 0 {
		return nil, invalid("body", "payload must be a non-empty list")
	}

	result := &ImportResult{Errors: []ImportError{}}
	var created []event.StageChangedEvent
	for i, item := range items {
		email := strings.TrimSpace(item.Email)
		if email == "" {
			result.Skipped++
			result.Errors = append(result.Errors, ImportError{Index: i, Reason: "Missing email"})
			continue
		}
		if _, err := u.repo.GetByEmail(ctx, email); err == nil {
			result.Skipped++
			continue
		} else if !isRecordNotFound(err) {
			return nil, err
		}

		in := item.Input()
		var err error
		if check != nil {
			err = check(in)
		}
		var c *model.Candidate
		var now time.Time
		if err == nil {
			c, now, err = u.insert(ctx, actorID, in)
		}
		var ve *ValidationError
		if errors.As(err, &ve) {
			result.Skipped++
			result.Errors = append(result.Errors, ImportError{Index: i, Reason: ve.Message})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("import row %d: %w", i, err)
		}
		result.Inserted++
		created = append(created, event.StageChangedEvent{CandidateID: c.ID, StageKey: model.StageApplied, ChangedBy: actorID, EnteredAt: now})
	}

	if len(created) > 0 {
		u.invalidate()
	}
	for _, e := range created {
		u.publish(ctx, e)
	}
	u.log.Info().Int("inserted", result.Inserted).Int("skipped", result.Skipped).Msg("candidate template imported")
	return result, nil
}

// normalizeResumeName drops the extension and a trailing resume/cv suffix,
// then keeps lowercase letters and digits only.
func normalizeResumeName(s string) string {
	base := strings.TrimSpace(s)
	if strings.HasSuffix(strings.ToLower(base), ".pdf") {
		base = base[:len(base)-4]
	}
	base = resumeSuffix.ReplaceAllString(strings.TrimSpace(base), "")
	return nonAlnum.ReplaceAllString(strings.ToLower(base), "")
}

// ImportResumeArchive matches every PDF in a ZIP archive to a candidate by
// file name, stores it under dir and links it as the candidate's CV.
func (u *CandidateUsecase) ImportResumeArchive(ctx context.Context, r io.ReaderAt, size int64, dir string) (*ResumeBatchResult, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, invalid("zip_file", "Invalid ZIP file")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	result := &ResumeBatchResult{Errors: []ResumeError{}}
	fail := func(file, reason string) {
		result.Unmatched++
		result.Errors = append(result.Errors, ResumeError{File: file, Reason: reason})
	}
	for _, f := range zr.File {
		name := f.Name
		base := path.Base(name)
		if f.FileInfo().IsDir() || strings.HasPrefix(name, "__MACOSX") || strings.HasPrefix(name, ".") ||
			strings.HasPrefix(base, ".") || f.UncompressedSize64 == 0 {
			continue
		}
		if f.UncompressedSize64 > MaxArchiveResumeSize {
			fail(base, fmt.Sprintf("PDF too large (max %dMB)", MaxArchiveResumeSize>>20))
			continue
		}
		if !strings.EqualFold(path.Ext(base), ".pdf") {
			fail(base, "Not a PDF")
			continue
		}

		raw := resumeSuffix.ReplaceAllString(strings.TrimSpace(base[:len(base)-4]), "")
		raw = strings.TrimSpace(nameSeparator.ReplaceAllString(raw, " "))
		candidates, err := u.repo.FindByName(ctx, raw)
		if err != nil {
			return nil, err
		}
		target := normalizeResumeName(base)
		var matches []model.Candidate
		for _, c := range candidates {
			if c.Name != nil && normalizeResumeName(*c.Name) == target {
				matches = append(matches, c)
			}
		}
		switch len(matches) {
		case 0:
			fail(name, fmt.Sprintf("No candidate found matching name '%s'", raw))
			continue
		case 1:
		default:
			fail(name, fmt.Sprintf("Multiple candidates match name '%s'", raw))
			continue
		}

		dest := filepath.Join(dir, base)
		if err := extract(f, dest); err != nil {
			fail(name, "Failed to store file")
			u.log.Warn().Err(err).Str("file", name).Msg("resume extract failed")
			continue
		}
		if err := u.repo.UpdateCVFile(ctx, matches[0].ID, filepath.ToSlash(dest)); err != nil {
			return nil, err
		}
		result.Matched++
	}

	u.log.Info().Int("matched", result.Matched).Int("unmatched", result.Unmatched).Msg("resume archive imported")
	return result, nil
}

func extract(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, io.LimitReader(rc, MaxArchiveResumeSize)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
