package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"orbit-hr-backend/internal/model"

	"github.com/xuri/excelize/v2"
)

const candidateSheet = "Candidates"

var candidateHeaders = []string{
	"Email", "Name", "WhatsApp", "Total Exp (y)", "Primary Lang",
	"Lang Experience", "Domicile", "Status", "Salary (IDR)", "Highest Degree",
}

const missing = "-"

// WriteCandidates renders the candidate export workbook to w.
func WriteCandidates(w io.Writer, candidates []model.Candidate) error {
	f, err := CandidateWorkbook(candidates)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// CandidateWorkbook builds one sheet with a bold, frozen header row.
func CandidateWorkbook(candidates []model.Candidate) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", candidateSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		return nil, err
	}
	yearsFmt := "0.0"
	yearsStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &yearsFmt})
	if err != nil {
		return nil, err
	}
	salaryFmt := "#,##0"
	salaryStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &salaryFmt})
	if err != nil {
		return nil, err
	}

	widths := make([]int, len(candidateHeaders))
	for i, h := range candidateHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(candidateSheet, cell, h); err != nil {
			return nil, err
		}
		widths[i] = len(h)
	}
	last, _ := excelize.CoordinatesToCellName(len(candidateHeaders), 1)
	if err := f.SetCellStyle(candidateSheet, "A1", last, headerStyle); err != nil {
		return nil, err
	}

	for r, c := range candidates {
		row := r + 2
		values := candidateRow(c)
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(candidateSheet, cell, v); err != nil {
				return nil, err
			}
			if n := len(fmt.Sprint(v)); n > widths[i] {
				widths[i] = n
			}
		}
		if _, ok := values[3].(float64); ok {
			cell, _ := excelize.CoordinatesToCellName(4, row)
			f.SetCellStyle(candidateSheet, cell, cell, yearsStyle)
		}
		if _, ok := values[8].(int64); ok {
			cell, _ := excelize.CoordinatesToCellName(9, row)
			f.SetCellStyle(candidateSheet, cell, cell, salaryStyle)
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if w > 60 {
			w = 60
		}
		if err := f.SetColWidth(candidateSheet, col, col, float64(w+2)); err != nil {
			return nil, err
		}
	}

	err = f.SetPanes(candidateSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func candidateRow(c model.Candidate) []interface{} {
	row := []interface{}{
		c.Email,
		text(c.Name),
		text(c.Whatsapp),
		missing,
		missing,
		text(c.Skills),
		text(c.Location),
		orMissing(c.CandidateStatus),
		missing,
		text(c.HighestDegree),
	}
	if c.ExperienceMonth != nil {
		row[3] = float64(*c.ExperienceMonth) / 12
	}
	if c.Skills != nil {
		row[4] = orMissing(strings.TrimSpace(strings.Split(*c.Skills, ",")[0]))
	}
	if n, ok := ParseSalary(c.ExpectedSalary); ok {
		row[8] = n
	}
	return row
}

// ParseSalary keeps the digits of a salary string such as "Rp 10.000.000".
func ParseSalary(s *string) (int64, bool) {
	if s == nil {
		return 0, false
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, *s)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func text(s *string) string {
	if s == nil {
		return missing
	}
	return orMissing(strings.TrimSpace(*s))
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}
