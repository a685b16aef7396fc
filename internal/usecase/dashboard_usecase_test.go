package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"orbit-hr-backend/internal/cache"
	"orbit-hr-backend/internal/model"
	"orbit-hr-backend/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubDashboardRepo struct {
	rows  []repository.StageEventRow
	calls int
	until *time.Time
	err   error
}

func (s *stubDashboardRepo) ListStageEvents(_ context.Context, until *time.Time) ([]repository.StageEventRow, error) {
	s.calls++
	s.until = until
	if s.err != nil {
		return nil, s.err
	}
	var out []repository.StageEventRow
	for _, r := range s.rows {
		if until == nil || !r.EnteredAt.After(*until) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubDashboardRepo) GetSummaryStats(context.Context, string) (map[string]interface{}, error) {
	return map[string]interface{}{"total_candidates": int64(0)}, nil
}

func newDashboard(repo repository.DashboardRepository, store cache.Store) *DashboardUsecase {
	uc := NewDashboardUsecase(repo, store, 15*time.Minute, wib, zerolog.Nop())
	uc.now = fixedClock(time.Date(2025, 7, 20, 12, 0, 0, 0, wib))
	return uc
}

func TestStageBucketsCacheKey(t *testing.T) {
	assert.Equal(t, "dashboard_stages:weekly:none:none:false", StageBucketsCacheKey(StageBucketQuery{Period: "weekly"}))
	assert.Equal(t, "dashboard_stages:custom:2025-07-01:2025-07-15:true",
		StageBucketsCacheKey(StageBucketQuery{Period: "custom", From: "2025-07-01", To: "2025-07-15", LatestPerCandidateBucket: true}))
}

func TestStageBucketsCustomDaily(t *testing.T) {
	repo := &stubDashboardRepo{rows: []repository.StageEventRow{
		{CandidateID: "c1", StageKey: model.StageApplied, EnteredAt: time.Date(2025, 6, 20, 9, 0, 0, 0, wib)},
		{CandidateID: "c1", StageKey: model.StageCodingTest, EnteredAt: time.Date(2025, 6, 28, 9, 0, 0, 0, wib)},
		{CandidateID: "c1", StageKey: model.StageRejected, EnteredAt: time.Date(2025, 7, 2, 9, 0, 0, 0, wib)},
		{CandidateID: "c2", StageKey: model.StageApplied, EnteredAt: time.Date(2025, 7, 15, 22, 0, 0, 0, wib)},
		{CandidateID: "c3", StageKey: model.StageApplied, EnteredAt: time.Date(2025, 7, 16, 1, 0, 0, 0, wib)},
	}}
	uc := newDashboard(repo, cache.NewMemory())

	res, err := uc.StageBuckets(context.Background(), StageBucketQuery{Period: "custom", From: "2025-07-01", To: "2025-07-15"})
	require.NoError(t, err)
	assert.Equal(t, PeriodCustom, res.Period)
	require.NotNil(t, res.From)
	assert.Equal(t, "2025-07-01", *res.From)

	require.Len(t, res.Buckets, 2)
	assert.Equal(t, "2025-07-02T00:00:00", res.Buckets[0].BucketStart)
	assert.Equal(t, map[string]int{LabelFailCodingTest: 1, model.StageApplied: 0}, res.Buckets[0].Counts)
	assert.Equal(t, "2025-07-15T00:00:00", res.Buckets[1].BucketStart)
	assert.Equal(t, map[string]int{LabelFailCodingTest: 0, model.StageApplied: 1}, res.Buckets[1].Counts)
}

func TestStageBucketsUsesCache(t *testing.T) {
	repo := &stubDashboardRepo{}
	store := cache.NewMemory()
	uc := newDashboard(repo, store)
	q := StageBucketQuery{Period: "monthly"}

	_, err := uc.StageBuckets(context.Background(), q)
	require.NoError(t, err)
	_, err = uc.StageBuckets(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)

	assert.Equal(t, 1, uc.InvalidateStageBuckets())
	_, err = uc.StageBuckets(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestStageBucketsValidation(t *testing.T) {
	uc := newDashboard(&stubDashboardRepo{}, nil)
	ctx := context.Background()
	tests := []struct {
		name  string
		q     StageBucketQuery
		field string
	}{
		{"unknown period", StageBucketQuery{Period: "hourly"}, "period"},
		{"custom without range", StageBucketQuery{Period: "custom", From: "2025-07-01"}, "from"},
		{"inverted range", StageBucketQuery{Period: "custom", From: "2025-07-10", To: "2025-07-01"}, "to"},
		{"malformed date", StageBucketQuery{Period: "custom", From: "07/01/2025", To: "2025-07-10"}, "from"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.StageBuckets(ctx, tt.q)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestStageBucketsRepositoryError(t *testing.T) {
	uc := newDashboard(&stubDashboardRepo{err: errors.New("connection refused")}, nil)
	_, err := uc.StageBuckets(context.Background(), StageBucketQuery{Period: "all_time"})
	require.Error(t, err)
	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}

func TestStageBucketsAgainstDatabase(t *testing.T) {
	db := newTestDB(t)
	seedStages(t, db, "a@example.com", time.Date(2025, 7, 1, 9, 0, 0, 0, wib),
		model.StageApplied, model.StageScreened, model.StageInterviewTeamLead, model.StageRejected)
	seedStages(t, db, "b@example.com", time.Date(2025, 7, 2, 9, 0, 0, 0, wib),
		model.StageApplied, model.StageRejected)

	uc := newDashboard(repository.NewDashboardRepository(db), nil)
	res, err := uc.StageBuckets(context.Background(), StageBucketQuery{Period: "all_time"})
	require.NoError(t, err)
	require.Len(t, res.Buckets, 1)
	assert.Equal(t, "1970-01-01T00:00:00", res.Buckets[0].BucketStart)
	counts := res.Buckets[0].Counts
	assert.Equal(t, 2, counts[model.StageApplied])
	assert.Equal(t, 1, counts[LabelFailInterviewLead])
	assert.Equal(t, 1, counts[LabelUnqualified])
	assert.Nil(t, res.From)
}

func TestDashboardSummary(t *testing.T) {
	db := newTestDB(t)
	seedStages(t, db, "a@example.com", time.Date(2025, 7, 1, 9, 0, 0, 0, wib), model.StageApplied, model.StageHired)
	user := createUser(t, db, "alice", model.RoleEmployee)
	require.NoError(t, db.Create(&model.Attendance{UserID: user.ID, AttendanceDate: "2025-07-20", Status: model.AttendanceClockedIn}).Error)

	uc := newDashboard(repository.NewDashboardRepository(db), nil)
	stats, err := uc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-07-20", stats["date"])
	assert.EqualValues(t, 1, stats["total_candidates"])

	byStatus := stats["candidates_by_status"].(map[string]int64)
	assert.EqualValues(t, 1, byStatus[model.StageHired])
	assert.EqualValues(t, 0, byStatus[model.StageOffer])

	today := stats["attendance_today"].(map[string]int64)
	assert.EqualValues(t, 1, today[model.AttendanceClockedIn])
	assert.EqualValues(t, 0, today[model.AttendancePartial])
}

// seedStages writes a candidate whose stages are entered one day apart.
func seedStages(t *testing.T, db *gorm.DB, email string, start time.Time, stages ...string) *model.Candidate {
	t.Helper()
	c := &model.Candidate{Email: email, CandidateStatus: stages[len(stages)-1]}
	require.NoError(t, db.Create(c).Error)
	for i, s := range stages {
		entered := start.AddDate(0, 0, i).UTC()
		stage := &model.CandidateStage{CandidateID: c.ID, StageKey: s, EnteredAt: entered, CreatedBy: "seed"}
		if i < len(stages)-1 {
			exited := start.AddDate(0, 0, i+1).UTC()
			stage.ExitedAt = &exited
		}
		require.NoError(t, db.Create(stage).Error)
	}
	return c
}
