package repository

import (
	"fmt"
	"strings"
	"time"
)

// monthRange converts a year (and optional month) filter into an inclusive
// YYYY-MM-DD range. A zero year means no filter.
func monthRange(year, month int) (string, string, bool) {
	if year <= 0 {
		return "", "", false
	}
	if month < 1 || month > 12 {
		return fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year), true
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02"), true
}

// likePattern builds a case-insensitive LIKE pattern to be used against LOWER(column).
func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
