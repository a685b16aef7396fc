package report

import (
	"bytes"
	"testing"

	"orbit-hr-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func strp(s string) *string { return &s }

func TestParseSalary(t *testing.T) {
	n, ok := ParseSalary(strp("Rp 12.500.000"))
	require.True(t, ok)
	assert.EqualValues(t, 12500000, n)

	_, ok = ParseSalary(strp("negotiable"))
	assert.False(t, ok)
	_, ok = ParseSalary(nil)
	assert.False(t, ok)
}

func TestWriteCandidates(t *testing.T) {
	months := 30
	candidates := []model.Candidate{
		{
			Email:           "aisyah@example.com",
			Name:            strp("Aisyah Pratama"),
			Whatsapp:        strp("+628123"),
			ExperienceMonth: &months,
			Skills:          strp("Go, Python"),
			Location:        strp("Bandung"),
			CandidateStatus: model.StageScreened,
			ExpectedSalary:  strp("Rp10.000.000"),
			HighestDegree:   strp("S1"),
		},
		{Email: "bare@example.com", CandidateStatus: model.StageApplied},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCandidates(&buf, candidates))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(candidateSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, candidateHeaders, rows[0])

	assert.Equal(t, "aisyah@example.com", rows[1][0])
	assert.Equal(t, "2.5", rows[1][3])
	assert.Equal(t, "Go", rows[1][4])
	assert.Equal(t, "Go, Python", rows[1][5])
	assert.Equal(t, "10,000,000", rows[1][8])

	assert.Equal(t, []string{"bare@example.com", "-", "-", "-", "-", "-", "-", "applied", "-", "-"}, rows[2])

	panes, err := f.GetPanes(candidateSheet)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, "A2", panes.TopLeftCell)
}
