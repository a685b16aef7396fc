package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"orbit-hr-backend/internal/event"
	"orbit-hr-backend/internal/mailer"
	"orbit-hr-backend/internal/model"
	"orbit-hr-backend/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// StagePublisher receives committed stage changes.
type StagePublisher interface {
	PublishStageChanged(ctx context.Context, e event.StageChangedEvent) error
}

// StageCacheInvalidator drops cached dashboard results after pipeline writes.
type StageCacheInvalidator interface {
	InvalidateStageBuckets() int
}

type CandidateListQuery struct {
	Page      int
	PerPage   int
	Search    string
	StartDate string
	EndDate   string
	SortOrder string
}

type CandidateList struct {
	Items []model.Candidate `json:"items"`
	Meta  Pagination        `json:"meta"`
}

type CandidateInput struct {
	Email              string     `json:"email" validate:"required,email,max=100"`
	Name               *string    `json:"name" validate:"omitempty,max=255"`
	Age                *int       `json:"age" validate:"omitempty,min=15,max=100"`
	Gender             *string    `json:"gender" validate:"omitempty,max=50"`
	Location           *string    `json:"location" validate:"omitempty,max=150"`
	ExperienceMonth    *int       `json:"experience_month" validate:"omitempty,min=0"`
	HighestDegree      *string    `json:"highest_degree" validate:"omitempty,max=100"`
	JobPreference      *string    `json:"job_preference"`
	LocationPreference *string    `json:"location_preference"`
	Linkedin           *string    `json:"linkedin" validate:"omitempty,max=150"`
	Github             *string    `json:"github" validate:"omitempty,max=150"`
	ExpectedSalary     *string    `json:"expected_salary" validate:"omitempty,max=100"`
	AboutMe            *string    `json:"about_me"`
	Skills             *string    `json:"skills"`
	Education          *string    `json:"education"`
	Whatsapp           *string    `json:"whatsapp" validate:"omitempty,max=50"`
	CVFile             *string    `json:"cv_file" validate:"omitempty,max=255"`
	DateScraped        *time.Time `json:"date_scraped"`
	AppliedAs          *string    `json:"applied_as" validate:"omitempty,max=100"`
}

// CandidateUpdateInput is a partial update: nil fields are left untouched.
type CandidateUpdateInput struct {
	Email              *string    `json:"email" validate:"omitempty,email,max=100"`
	Name               *string    `json:"name" validate:"omitempty,max=255"`
	Age                *int       `json:"age" validate:"omitempty,min=15,max=100"`
	Gender             *string    `json:"gender" validate:"omitempty,max=50"`
	Location           *string    `json:"location" validate:"omitempty,max=150"`
	ExperienceMonth    *int       `json:"experience_month" validate:"omitempty,min=0"`
	HighestDegree      *string    `json:"highest_degree" validate:"omitempty,max=100"`
	JobPreference      *string    `json:"job_preference"`
	LocationPreference *string    `json:"location_preference"`
	Linkedin           *string    `json:"linkedin" validate:"omitempty,max=150"`
	Github             *string    `json:"github" validate:"omitempty,max=150"`
	ExpectedSalary     *string    `json:"expected_salary" validate:"omitempty,max=100"`
	AboutMe            *string    `json:"about_me"`
	Skills             *string    `json:"skills"`
	Education          *string    `json:"education"`
	Whatsapp           *string    `json:"whatsapp" validate:"omitempty,max=50"`
	CVFile             *string    `json:"cv_file" validate:"omitempty,max=255"`
	DateScraped        *time.Time `json:"date_scraped"`
	AppliedAs          *string    `json:"applied_as" validate:"omitempty,max=100"`
}

func (in CandidateUpdateInput) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	set := func(column string, ok bool, v interface{}) {
		if ok {
			fields[column] = v
		}
	}
	set("email", in.Email != nil, deref(in.Email))
	set("name", in.Name != nil, deref(in.Name))
	set("gender", in.Gender != nil, deref(in.Gender))
	set("location", in.Location != nil, deref(in.Location))
	set("highest_degree", in.HighestDegree != nil, deref(in.HighestDegree))
	set("job_preference", in.JobPreference != nil, deref(in.JobPreference))
	set("location_preference", in.LocationPreference != nil, deref(in.LocationPreference))
	set("linkedin", in.Linkedin != nil, deref(in.Linkedin))
	set("github", in.Github != nil, deref(in.Github))
	set("expected_salary", in.ExpectedSalary != nil, deref(in.ExpectedSalary))
	set("about_me", in.AboutMe != nil, deref(in.AboutMe))
	set("skills", in.Skills != nil, deref(in.Skills))
	set("education", in.Education != nil, deref(in.Education))
	set("whatsapp", in.Whatsapp != nil, deref(in.Whatsapp))
	set("cv_file", in.CVFile != nil, deref(in.CVFile))
	set("applied_as", in.AppliedAs != nil, deref(in.AppliedAs))
	if in.Age != nil {
		fields["age"] = *in.Age
	}
	if in.ExperienceMonth != nil {
		fields["experience_month"] = *in.ExperienceMonth
	}
	if in.DateScraped != nil {
		fields["date_scraped"] = in.DateScraped.UTC()
	}
	return fields
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type StageUpdateInput struct {
	IDs               []string `json:"id" validate:"required,min=1,dive,uuid"`
	CandidateStatus   string   `json:"candidate_status" validate:"required"`
	Note              *string  `json:"note" validate:"omitempty,max=5000"`
	SendEmailOnReject bool     `json:"send_email_on_reject"`
}

type StageUpdateResult struct {
	CandidateStatus string   `json:"candidate_status"`
	Updated         []string `json:"updated"`
	NotFound        []string `json:"not_found"`
	Conflicts       []string `json:"conflicts"`
	EmailsSent      int      `json:"emails_sent"`
}

type CandidateUsecase struct {
	repo   repository.CandidateRepository
	cache  StageCacheInvalidator
	events StagePublisher
	mail   mailer.Sender
	loc    *time.Location
	now    func() time.Time
	log    zerolog.Logger
}

func NewCandidateUsecase(repo repository.CandidateRepository, cache StageCacheInvalidator, events StagePublisher,
	mail mailer.Sender, loc *time.Location, log zerolog.Logger) *CandidateUsecase {
	if events == nil {
		events = event.Nop{}
	}
	if mail == nil {
		mail = mailer.Nop{}
	}
	return &CandidateUsecase{
		repo:   repo,
		cache:  cache,
		events: events,
		mail:   mail,
		loc:    loc,
		now:    time.Now,
		log:    log.With().Str("component", "CandidateUsecase").Logger(),
	}
}

// Filter converts list query parameters into a repository filter. The end
// date is inclusive for the caller and exclusive in the filter.
func (u *CandidateUsecase) Filter(q CandidateListQuery) (repository.CandidateFilter, error) {
	f := repository.CandidateFilter{Search: strings.TrimSpace(q.Search)}

	switch strings.ToLower(q.SortOrder) {
	case "", "desc":
	case "asc":
		f.SortAsc = true
	default:
		return f, invalid("sort_order", "sort_order must be asc or desc")
	}

	if q.StartDate != "" {
		d, err := time.ParseInLocation("2006-01-02", q.StartDate, u.loc)
		if err != nil {
			return f, invalid("start_date", "invalid start_date: use YYYY-MM-DD")
		}
		f.ScrapedFrom = &d
	}
	if q.EndDate != "" {
		d, err := time.ParseInLocation("2006-01-02", q.EndDate, u.loc)
		if err != nil {
			return f, invalid("end_date", "invalid end_date: use YYYY-MM-DD")
		}
		d = d.AddDate(0, 0, 1)
		f.ScrapedTo = &d
	}
	if f.ScrapedFrom != nil && f.ScrapedTo != nil && !f.ScrapedTo.After(*f.ScrapedFrom) {
		return f, invalid("end_date", "end_date must be >= start_date")
	}
	return f, nil
}

func (u *CandidateUsecase) List(ctx context.Context, q CandidateListQuery) (*CandidateList, error) {
	page, perPage, offset, err := pageBounds(q.Page, q.PerPage, 10)
	if err != nil {
		return nil, err
	}
	f, err := u.Filter(q)
	if err != nil {
		return nil, err
	}
	f.Limit, f.Offset = perPage, offset

	items, total, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &CandidateList{Items: items, Meta: newPagination(page, perPage, total)}, nil
}

// Export returns every candidate matching the list filters, without paging.
func (u *CandidateUsecase) Export(ctx context.Context, q CandidateListQuery) ([]model.Candidate, error) {
	f, err := u.Filter(q)
	if err != nil {
		return nil, err
	}
	items, _, err := u.repo.List(ctx, f)
	return items, err
}

func (u *CandidateUsecase) Get(ctx context.Context, id string) (*model.Candidate, error) {
	c, err := u.repo.GetByID(ctx, id)
	if isRecordNotFound(err) {
		return nil, notFound("Candidate not found")
	}
	return c, err
}

func (u *CandidateUsecase) GetByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	c, err := u.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if isRecordNotFound(err) {
		return nil, notFound("Candidate not found")
	}
	return c, err
}

func (u *CandidateUsecase) Count(ctx context.Context) (int64, error) {
	return u.repo.Count(ctx)
}

func (u *CandidateUsecase) Stages(ctx context.Context, id string) ([]model.CandidateStage, error) {
	if _, err := u.Get(ctx, id); err != nil {
		return nil, err
	}
	return u.repo.ListStages(ctx, id)
}

// Create stores a candidate and opens its applied stage.
func (u *CandidateUsecase) Create(ctx context.Context, actorID string, in CandidateInput) (*model.Candidate, error) {
	c, now, err := u.insert(ctx, actorID, in)
	if err != nil {
		return nil, err
	}
	u.invalidate()
	u.publish(ctx, event.StageChangedEvent{CandidateID: c.ID, StageKey: model.StageApplied, ChangedBy: actorID, EnteredAt: now})
	return c, nil
}

// insert writes the candidate row and its applied stage in one transaction.
// Callers own cache invalidation and event publishing.
func (u *CandidateUsecase) insert(ctx context.Context, actorID string, in CandidateInput) (*model.Candidate, time.Time, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	now := u.now().UTC()

	c := &model.Candidate{
		Name:               in.Name,
		Age:                in.Age,
		Gender:             in.Gender,
		Location:           in.Location,
		ExperienceMonth:    in.ExperienceMonth,
		HighestDegree:      in.HighestDegree,
		JobPreference:      in.JobPreference,
		LocationPreference: in.LocationPreference,
		Linkedin:           in.Linkedin,
		Github:             in.Github,
		ExpectedSalary:     in.ExpectedSalary,
		AboutMe:            in.AboutMe,
		Skills:             in.Skills,
		Education:          in.Education,
		Whatsapp:           in.Whatsapp,
		Email:              email,
		CVFile:             in.CVFile,
		DateScraped:        in.DateScraped,
		AppliedAs:          in.AppliedAs,
		CandidateStatus:    model.StageApplied,
	}
	if c.DateScraped == nil {
		c.DateScraped = &now
	}

	err := u.repo.Transaction(ctx, func(tx repository.CandidateRepository) error {
		if _, err := tx.GetByEmail(ctx, email); err == nil {
			return invalid("email", "Candidate with email %s already exists", email)
		} else if !isRecordNotFound(err) {
			return err
		}

		if err := tx.Create(ctx, c); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return invalid("email", "Candidate with email %s already exists", email)
			}
			return err
		}
		return tx.CreateStage(ctx, &model.CandidateStage{
			CandidateID: c.ID,
			StageKey:    model.StageApplied,
			EnteredAt:   now,
			CreatedBy:   actorID,
		})
	})
	if err != nil {
		return nil, now, err
	}
	return c, now, nil
}

// Update applies only the fields present in the request. Stage and status are
// not editable here; they move through UpdateStages.
func (u *CandidateUsecase) Update(ctx context.Context, id string, in CandidateUpdateInput) (*model.Candidate, error) {
	fields := in.fields()
	if len(fields) == 0 {
		return nil, invalid("body", "no fields to update")
	}

	err := u.repo.Transaction(ctx, func(tx repository.CandidateRepository) error {
		current, err := tx.GetForUpdate(ctx, id)
		if isRecordNotFound(err) {
			return notFound("Candidate not found")
		}
		if err != nil {
			return err
		}

		if email, ok := fields["email"].(string); ok {
			email = strings.ToLower(strings.TrimSpace(email))
			fields["email"] = email
			if email != current.Email {
				other, err := tx.GetByEmail(ctx, email)
				if err == nil && other.ID != id {
					return invalid("email", "Candidate with email %s already exists", email)
				}
				if err != nil && !isRecordNotFound(err) {
					return err
				}
			}
		}

		if err := tx.Update(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return invalid("email", "Candidate with email %v already exists", fields["email"])
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.invalidate()
	return u.repo.GetByID(ctx, id)
}

// AttachResume records where the candidate's uploaded CV was stored.
func (u *CandidateUsecase) AttachResume(ctx context.Context, id, path string) (*model.Candidate, error) {
	if _, err := u.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := u.repo.UpdateCVFile(ctx, id, path); err != nil {
		return nil, err
	}
	return u.repo.GetByID(ctx, id)
}

type stageChange struct {
	candidate model.Candidate
	stage     *model.CandidateStage
	previous  string
}

// UpdateStages moves every listed candidate into one stage. Each id commits in
// its own transaction: unknown ids and ids whose open stage was closed by a
// concurrent writer are reported back and do not abort the others. A storage
// error stops the batch; ids committed before it keep their new stage.
func (u *CandidateUsecase) UpdateStages(ctx context.Context, actorID string, in StageUpdateInput) (*StageUpdateResult, error) {
	if !model.IsStageKey(in.CandidateStatus) {
		return nil, invalid("candidate_status", "invalid candidate_status %q", in.CandidateStatus)
	}
	if len(in.IDs) == 0 {
		return nil, invalid("id", "at least one candidate id is required")
	}
	now := u.now().UTC()
	notify := in.CandidateStatus == model.StageRejected && in.SendEmailOnReject

	result := &StageUpdateResult{
		CandidateStatus: in.CandidateStatus,
		Updated:         []string{},
		NotFound:        []string{},
		Conflicts:       []string{},
	}
	var changes []stageChange
	var failure error
	seen := make(map[string]bool, len(in.IDs))
	for _, id := range in.IDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		ch, err := u.moveStage(ctx, actorID, id, in, now, notify)
		switch {
		case err == nil:
			changes = append(changes, *ch)
			result.Updated = append(result.Updated, id)
			continue
		case isRecordNotFound(err):
			result.NotFound = append(result.NotFound, id)
			continue
		case errors.Is(err, repository.ErrStageNotOpen):
			u.log.Warn().Str("candidate_id", id).Msg("stage changed concurrently, skipped")
			result.Conflicts = append(result.Conflicts, id)
			continue
		}
		failure = fmt.Errorf("update stages: %w", err)
		break
	}

	if len(changes) > 0 {
		u.invalidate()
	}
	for _, ch := range changes {
		u.publish(ctx, event.StageChangedEvent{
			CandidateID:   ch.candidate.ID,
			PreviousStage: ch.previous,
			StageKey:      ch.stage.StageKey,
			ChangedBy:     actorID,
			EnteredAt:     ch.stage.EnteredAt,
		})
		if notify && u.sendRejection(ctx, ch) {
			result.EmailsSent++
		}
	}
	if failure != nil {
		return nil, failure
	}
	return result, nil
}

// moveStage closes the candidate's open stage and opens the target one. The
// candidate row stays locked until commit so writers for the same candidate
// run one after another.
func (u *CandidateUsecase) moveStage(ctx context.Context, actorID, id string, in StageUpdateInput, now time.Time, notify bool) (*stageChange, error) {
	var ch *stageChange
	err := u.repo.Transaction(ctx, func(tx repository.CandidateRepository) error {
		// 1. Candidate
		c, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		// 2. Close the current stage
		open, err := tx.OpenStage(ctx, id)
		if err != nil && !isRecordNotFound(err) {
			return err
		}
		if open != nil {
			if err := tx.CloseStage(ctx, open, now, in.Note); err != nil {
				return err
			}
		}

		// 3. Open the new one
		stage := &model.CandidateStage{
			CandidateID:       id,
			StageKey:          in.CandidateStatus,
			EnteredAt:         now,
			SendEmailOnReject: notify,
			CreatedBy:         actorID,
		}
		if err := tx.CreateStage(ctx, stage); err != nil {
			return err
		}
		if err := tx.UpdateStatus(ctx, id, in.CandidateStatus); err != nil {
			return err
		}
		ch = &stageChange{candidate: *c, stage: stage, previous: c.CandidateStatus}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (u *CandidateUsecase) sendRejection(ctx context.Context, ch stageChange) bool {
	name := ""
	if ch.candidate.Name != nil {
		name = *ch.candidate.Name
	}
	if err := u.mail.SendRejection(ctx, ch.candidate.Email, name); err != nil {
		u.log.Warn().Err(err).Str("candidate_id", ch.candidate.ID).Msg("rejection email not sent")
		return false
	}
	if err := u.repo.MarkEmailSent(ctx, ch.stage.ID, u.now()); err != nil {
		u.log.Warn().Err(err).Str("stage_id", ch.stage.ID).Msg("failed to stamp email_sent_at")
	}
	return true
}

func (u *CandidateUsecase) invalidate() {
	if u.cache == nil {
		return
	}
	n := u.cache.InvalidateStageBuckets()
	u.log.Debug().Int("keys", n).Msg("dashboard cache invalidated")
}

func (u *CandidateUsecase) publish(ctx context.Context, e event.StageChangedEvent) {
	if err := u.events.PublishStageChanged(ctx, e); err != nil {
		u.log.Warn().Err(err).Str("candidate_id", e.CandidateID).Msg("publish stage event failed")
	}
}
