package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orbit-hr-backend/internal/cache"
	"orbit-hr-backend/internal/repository"

	"github.com/rs/zerolog"
)

// DashboardCachePrefix namespaces cached stage bucket results.
const DashboardCachePrefix = "dashboard_stages:"

type StageBucketQuery struct {
	Period                   string
	From                     string
	To                       string
	LatestPerCandidateBucket bool
}

type StageBucketItem struct {
	BucketStart string         `json:"bucket_start"`
	Counts      map[string]int `json:"counts"`
}

type StageBucketResult struct {
	Period  Period            `json:"period"`
	From    *string           `json:"from"`
	To      *string           `json:"to"`
	Buckets []StageBucketItem `json:"buckets"`
}

type DashboardUsecase struct {
	repo  repository.DashboardRepository
	cache cache.Store
	ttl   time.Duration
	loc   *time.Location
	now   func() time.Time
	log   zerolog.Logger
}

func NewDashboardUsecase(repo repository.DashboardRepository, store cache.Store, ttl time.Duration, loc *time.Location, log zerolog.Logger) *DashboardUsecase {
	return &DashboardUsecase{
		repo:  repo,
		cache: store,
		ttl:   ttl,
		loc:   loc,
		now:   time.Now,
		log:   log.With().Str("component", "DashboardUsecase").Logger(),
	}
}

// StageBucketsCacheKey identifies a result by every query parameter.
func StageBucketsCacheKey(q StageBucketQuery) string {
	from, to := q.From, q.To
	if from == "" {
		from = "none"
	}
	if to == "" {
		to = "none"
	}
	return fmt.Sprintf("%s%s:%s:%s:%t", DashboardCachePrefix, q.Period, from, to, q.LatestPerCandidateBucket)
}

// StageBuckets counts candidate stage entries per time bucket and label.
func (u *DashboardUsecase) StageBuckets(ctx context.Context, q StageBucketQuery) (*StageBucketResult, error) {
	period, err := ParsePeriod(q.Period)
	if err != nil {
		return nil, err
	}
	from, err := u.parseBound("from", q.From, false)
	if err != nil {
		return nil, err
	}
	to, err := u.parseBound("to", q.To, true)
	if err != nil {
		return nil, err
	}

	key := StageBucketsCacheKey(q)
	if u.cache != nil {
		if cached, ok := u.cache.Get(key); ok {
			if res, ok := cached.(*StageBucketResult); ok {
				return res, nil
			}
		}
	}

	window, err := ResolveStageWindow(period, from, to, u.now())
	if err != nil {
		return nil, err
	}

	rows, err := u.repo.ListStageEvents(ctx, window.End)
	if err != nil {
		return nil, fmt.Errorf("list stage events: %w", err)
	}
	events := make([]StageEvent, len(rows))
	for i, r := range rows {
		events[i] = StageEvent{CandidateID: r.CandidateID, StageKey: r.StageKey, EnteredAt: r.EnteredAt}
	}

	buckets := BucketStageEvents(events, window, u.loc, q.LatestPerCandidateBucket)
	res := &StageBucketResult{
		Period:  period,
		From:    optional(q.From),
		To:      optional(q.To),
		Buckets: make([]StageBucketItem, len(buckets)),
	}
	for i, b := range buckets {
		res.Buckets[i] = StageBucketItem{BucketStart: b.Start.Format("2006-01-02T15:04:05"), Counts: b.Counts}
	}

	if u.cache != nil {
		u.cache.Set(key, res, u.ttl)
	}
	u.log.Debug().Str("key", key).Int("events", len(events)).Int("buckets", len(res.Buckets)).Msg("stage buckets computed")
	return res, nil
}

// Summary returns headline counts for the dashboard landing page.
func (u *DashboardUsecase) Summary(ctx context.Context) (map[string]interface{}, error) {
	today := u.now().In(u.loc).Format("2006-01-02")
	stats, err := u.repo.GetSummaryStats(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("summary stats: %w", err)
	}
	stats["date"] = today
	return stats, nil
}

// InvalidateStageBuckets drops every cached bucket result.
func (u *DashboardUsecase) InvalidateStageBuckets() int {
	if u.cache == nil {
		return 0
	}
	return u.cache.DeletePrefix(DashboardCachePrefix)
}

// parseBound accepts RFC3339 or a YYYY-MM-DD date at local midnight. A date-only
// upper bound covers the whole day.
func (u *DashboardUsecase) parseBound(field, raw string, upper bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", raw, u.loc); err == nil {
		return &t, nil
	}
	d, err := time.ParseInLocation("2006-01-02", raw, u.loc)
	if err != nil {
		return nil, invalid(field, "invalid %s: use YYYY-MM-DD or RFC3339", field)
	}
	if upper {
		d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &d, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
