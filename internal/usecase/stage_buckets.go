package usecase

import (
	"sort"
	"time"

	"orbit-hr-backend/internal/model"
)

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodAllTime Period = "all_time"
	PeriodCustom  Period = "custom"
)

func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return "", invalid("period", "period is required")
	}
	switch p := Period(s); p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly, PeriodAllTime, PeriodCustom:
		return p, nil
	}
	return "", invalid("period", "invalid period %q: expected weekly, monthly, yearly, all_time or custom", s)
}

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
	GranularityAll   Granularity = "all"
)

// Rejection reasons that replace the "rejected" stage label.
const (
	LabelFailCodingTest    = "fail_coding_test"
	LabelFailInterviewLead = "fail_interview_lead"
	LabelUnqualified       = "unqualified"
	// LabelFailToAttend is reserved for when attendance signals exist. It is never emitted.
	LabelFailToAttend = "fail_to_attend"
)

// epochBucket anchors the single all_time bucket.
var epochBucket = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// StageWindow is the resolved reporting window. Nil bounds are open.
type StageWindow struct {
	Period      Period
	Granularity Granularity
	Start       *time.Time
	End         *time.Time
}

// Contains reports whether t lies within the window, both ends inclusive.
func (w StageWindow) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

// ResolveStageWindow applies default lookbacks and picks the bucket granularity.
// from and to are only consulted for the custom period.
func ResolveStageWindow(period Period, from, to *time.Time, now time.Time) (StageWindow, error) {
	if from != nil && to != nil && to.Before(*from) {
		return StageWindow{}, invalid("to", "to must be >= from")
	}

	w := StageWindow{Period: period}
	switch period {
	case PeriodWeekly, PeriodMonthly:
		start := now.AddDate(-1, 0, 0)
		w.Start, w.End = &start, &now
		w.Granularity = GranularityWeek
		if period == PeriodMonthly {
			w.Granularity = GranularityMonth
		}
	case PeriodYearly:
		start := now.AddDate(-5, 0, 0)
		w.Start, w.End = &start, &now
		w.Granularity = GranularityYear
	case PeriodAllTime:
		w.Granularity = GranularityAll
	case PeriodCustom:
		if from == nil || to == nil {
			return StageWindow{}, invalid("from", "from and to are required for custom period")
		}
		start, end := *from, *to
		w.Start, w.End = &start, &end
		w.Granularity = CustomGranularity(start, end)
	default:
		return StageWindow{}, invalid("period", "invalid period %q", period)
	}
	return w, nil
}

// CustomGranularity scales bucket width with the span of a custom window.
func CustomGranularity(from, to time.Time) Granularity {
	spanDays := int(to.Sub(from).Hours() / 24)
	if spanDays < 1 {
		spanDays = 1
	}
	switch {
	case spanDays <= 14:
		return GranularityDay
	case spanDays <= 120:
		return GranularityWeek
	case spanDays <= 730:
		return GranularityMonth
	default:
		return GranularityYear
	}
}

// TruncateTo returns the start of the bucket holding t, as wall-clock time in loc.
// Weeks start on Monday.
func TruncateTo(t time.Time, g Granularity, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	switch g {
	case GranularityDay:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case GranularityWeek:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case GranularityMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case GranularityYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return epochBucket
	}
}

// RejectionLabel maps the stage preceding a rejection to a reason label.
func RejectionLabel(previous string) string {
	switch previous {
	case model.StageCodingTest:
		return LabelFailCodingTest
	case model.StageInterviewTeamLead:
		return LabelFailInterviewLead
	default:
		return LabelUnqualified
	}
}

// StageEvent is one entry of a candidate into a stage.
type StageEvent struct {
	CandidateID string
	StageKey    string
	EnteredAt   time.Time
}

type StageBucket struct {
	Start  time.Time
	Counts map[string]int
}

type labeledEvent struct {
	StageEvent
	label  string
	bucket time.Time
	seq    int
}

// BucketStageEvents counts labels per bucket over the events that fall in w.
//
// The label of a rejection is derived from the candidate's preceding stage
// over the whole input timeline, including events outside w. With
// latestPerCandidate only the most recent event of each candidate in a bucket
// is counted. Every bucket reports every label observed in the result, zero
// when absent, and buckets are sorted by start.
func BucketStageEvents(events []StageEvent, w StageWindow, loc *time.Location, latestPerCandidate bool) []StageBucket {
	ordered := make([]StageEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CandidateID != ordered[j].CandidateID {
			return ordered[i].CandidateID < ordered[j].CandidateID
		}
		return ordered[i].EnteredAt.Before(ordered[j].EnteredAt)
	})

	var inWindow []labeledEvent
	previous := ""
	for i, e := range ordered {
		if i == 0 || e.CandidateID != ordered[i-1].CandidateID {
			previous = ""
		}
		label := e.StageKey
		if e.StageKey == model.StageRejected {
			label = RejectionLabel(previous)
		}
		previous = e.StageKey

		if !w.Contains(e.EnteredAt) {
			continue
		}
		inWindow = append(inWindow, labeledEvent{
			StageEvent: e,
			label:      label,
			bucket:     TruncateTo(e.EnteredAt, w.Granularity, loc),
			seq:        i,
		})
	}

	if latestPerCandidate {
		inWindow = latestPerBucket(inWindow)
	}

	sparse := make(map[int64]*StageBucket)
	labels := make(map[string]struct{})
	for _, e := range inWindow {
		b, ok := sparse[e.bucket.Unix()]
		if !ok {
			b = &StageBucket{Start: e.bucket, Counts: make(map[string]int)}
			sparse[e.bucket.Unix()] = b
		}
		b.Counts[e.label]++
		labels[e.label] = struct{}{}
	}

	buckets := make([]StageBucket, 0, len(sparse))
	for _, b := range sparse {
		for label := range labels {
			if _, ok := b.Counts[label]; !ok {
				b.Counts[label] = 0
			}
		}
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Start.Before(buckets[j].Start) })
	return buckets
}

// latestPerBucket keeps the last entered event per (candidate, bucket). Ties on
// entered_at go to the event that came later in the timeline.
func latestPerBucket(events []labeledEvent) []labeledEvent {
	type key struct {
		candidate string
		bucket    int64
	}
	latest := make(map[key]labeledEvent)
	for _, e := range events {
		k := key{e.CandidateID, e.bucket.Unix()}
		cur, ok := latest[k]
		if !ok || e.EnteredAt.After(cur.EnteredAt) || (e.EnteredAt.Equal(cur.EnteredAt) && e.seq > cur.seq) {
			latest[k] = e
		}
	}
	out := make([]labeledEvent, 0, len(latest))
	for _, e := range latest {
		out = append(out, e)
	}
	return out
}
