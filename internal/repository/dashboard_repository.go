package repository

import (
	"context"
	"time"

	"orbit-hr-backend/internal/model"

	"gorm.io/gorm"
)

// StageEventRow is the projection of candidate_stages used for bucketing.
type StageEventRow struct {
	CandidateID string
	StageKey    string
	EnteredAt   time.Time
}

type DashboardRepository interface {
	// ListStageEvents returns every stage entry up to until (all when nil),
	// ordered by candidate then entered_at, so callers keep each candidate's
	// history before the reporting window.
	ListStageEvents(ctx context.Context, until *time.Time) ([]StageEventRow, error)
	GetSummaryStats(ctx context.Context, date string) (map[string]interface{}, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db}
}

func (r *dashboardRepository) ListStageEvents(ctx context.Context, until *time.Time) ([]StageEventRow, error) {
	var rows []StageEventRow
	q := r.db.WithContext(ctx).Model(&model.CandidateStage{}).
		Select("candidate_id, stage_key, entered_at")
	if until != nil {
		q = q.Where("entered_at <= ?", until.UTC())
	}
	err := q.Order("candidate_id asc").Order("entered_at asc").Order("id asc").Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) GetSummaryStats(ctx context.Context, date string) (map[string]interface{}, error) {
	stats := make(map[string]interface{})
	db := r.db.WithContext(ctx)

	// 1. Total candidates
	var totalCandidates int64
	if err := db.Model(&model.Candidate{}).Count(&totalCandidates).Error; err != nil {
		return nil, err
	}
	stats["total_candidates"] = totalCandidates

	// 2. Candidates per pipeline status
	var byStatus []struct {
		CandidateStatus string
		Count           int64
	}
	err := db.Model(&model.Candidate{}).
		Group("candidate_status").Select("candidate_status, count(*) as count").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	statusMap := make(map[string]int64, len(model.StageKeys))
	for _, k := range model.StageKeys {
		statusMap[k] = 0
	}
	for _, s := range byStatus {
		statusMap[s.CandidateStatus] = s.Count
	}
	stats["candidates_by_status"] = statusMap

	// 3. Attendance today
	var daily []struct {
		Status string
		Count  int64
	}
	err = db.Model(&model.Attendance{}).
		Where("attendance_date = ?", date).
		Group("status").Select("status, count(*) as count").
		Scan(&daily).Error
	if err != nil {
		return nil, err
	}
	dailyMap := map[string]int64{
		model.AttendanceClockedIn:  0,
		model.AttendanceClockedOut: 0,
		model.AttendancePartial:    0,
		model.AttendancePermission: 0,
	}
	for _, d := range daily {
		dailyMap[d.Status] = d.Count
	}
	stats["attendance_today"] = dailyMap

	return stats, nil
}
