package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"orbit-hr-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStageNotOpen is returned by CloseStage when another writer exited the
// stage first.
var ErrStageNotOpen = errors.New("stage is no longer open")

type CandidateFilter struct {
	Search      string
	ScrapedFrom *time.Time // inclusive
	ScrapedTo   *time.Time // exclusive
	SortAsc     bool
	Limit       int
	Offset      int
}

type CandidateRepository interface {
	Transaction(ctx context.Context, fn func(tx CandidateRepository) error) error
	Create(ctx context.Context, candidate *model.Candidate) error
	GetByID(ctx context.Context, id string) (*model.Candidate, error)
	GetForUpdate(ctx context.Context, id string) (*model.Candidate, error)
	FindByName(ctx context.Context, name string) ([]model.Candidate, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	GetByEmail(ctx context.Context, email string) (*model.Candidate, error)
	List(ctx context.Context, f CandidateFilter) ([]model.Candidate, int64, error)
	Count(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateCVFile(ctx context.Context, id, path string) error
	OpenStage(ctx context.Context, candidateID string) (*model.CandidateStage, error)
	CloseStage(ctx context.Context, stage *model.CandidateStage, exitedAt time.Time, note *string) error
	CreateStage(ctx context.Context, stage *model.CandidateStage) error
	ListStages(ctx context.Context, candidateID string) ([]model.CandidateStage, error)
	MarkEmailSent(ctx context.Context, stageID string, at time.Time) error
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db}
}

func (r *candidateRepository) Transaction(ctx context.Context, fn func(tx CandidateRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&candidateRepository{tx})
	})
}

func (r *candidateRepository) Create(ctx context.Context, candidate *model.Candidate) error {
	return r.db.WithContext(ctx).Create(candidate).Error
}

func (r *candidateRepository) GetByID(ctx context.Context, id string) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&candidate).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

// GetForUpdate reads the candidate with a row lock held until the surrounding
// transaction ends. Stage writers for one candidate queue behind it.
func (r *candidateRepository) GetForUpdate(ctx context.Context, id string) (*model.Candidate, error) {
	var candidate model.Candidate
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&candidate).Error
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// FindByName matches names case-insensitively, exact matches first and then
// a contains search.
func (r *candidateRepository) FindByName(ctx context.Context, name string) ([]model.Candidate, error) {
	var list []model.Candidate
	if err := r.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).Find(&list).Error; err != nil {
		return nil, err
	}
	if len(list) > 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("LOWER(name) LIKE ?", likePattern(name)).Find(&list).Error
	return list, err
}

func (r *candidateRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Candidate{}).Where("id = ?", id).Updates(fields).Error
}

func (r *candidateRepository) GetByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&candidate).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *candidateRepository) List(ctx context.Context, f CandidateFilter) ([]model.Candidate, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Candidate{})
	if f.Search != "" {
		pattern := likePattern(f.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if f.ScrapedFrom != nil {
		q = q.Where("date_scraped >= ?", f.ScrapedFrom.UTC())
	}
	if f.ScrapedTo != nil {
		q = q.Where("date_scraped < ?", f.ScrapedTo.UTC())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "date_scraped desc"
	if f.SortAsc {
		order = "date_scraped asc"
	}
	q = q.Order(order).Order("email")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var list []model.Candidate
	if err := q.Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *candidateRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Candidate{}).Count(&count).Error
	return count, err
}

func (r *candidateRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&model.Candidate{}).Where("id = ?", id).Update("candidate_status", status).Error
}

func (r *candidateRepository) UpdateCVFile(ctx context.Context, id, path string) error {
	return r.db.WithContext(ctx).Model(&model.Candidate{}).Where("id = ?", id).Update("cv_file", path).Error
}

// OpenStage returns the most recent stage that has not been exited yet.
func (r *candidateRepository) OpenStage(ctx context.Context, candidateID string) (*model.CandidateStage, error) {
	var stage model.CandidateStage
	err := r.db.WithContext(ctx).
		Where("candidate_id = ? AND exited_at IS NULL", candidateID).
		Order("entered_at desc").
		First(&stage).Error
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

// CloseStage exits the stage only if it is still open.
func (r *candidateRepository) CloseStage(ctx context.Context, stage *model.CandidateStage, exitedAt time.Time, note *string) error {
	exitedAt = exitedAt.UTC()
	duration := int64(exitedAt.Sub(stage.EnteredAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	fields := map[string]interface{}{
		"exited_at":        exitedAt,
		"duration_seconds": duration,
	}
	if note != nil {
		fields["hr_private_notes"] = *note
	}
	res := r.db.WithContext(ctx).Model(&model.CandidateStage{}).
		Where("id = ? AND exited_at IS NULL", stage.ID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStageNotOpen
	}
	stage.ExitedAt = &exitedAt
	stage.DurationSeconds = &duration
	if note != nil {
		stage.HRPrivateNotes = note
	}
	return nil
}

func (r *candidateRepository) CreateStage(ctx context.Context, stage *model.CandidateStage) error {
	return r.db.WithContext(ctx).Create(stage).Error
}

func (r *candidateRepository) ListStages(ctx context.Context, candidateID string) ([]model.CandidateStage, error) {
	var stages []model.CandidateStage
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("entered_at asc").
		Find(&stages).Error
	return stages, err
}

func (r *candidateRepository) MarkEmailSent(ctx context.Context, stageID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.CandidateStage{}).
		Where("id = ?", stageID).
		Update("email_sent_at", at.UTC()).Error
}
