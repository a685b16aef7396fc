package repository

import (
	"context"

	"orbit-hr-backend/internal/model"

	"gorm.io/gorm"
)

type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	ListWithEmployees(ctx context.Context) ([]model.Team, error)
	// ProjectsByTeam maps team_id to the distinct projects its employees work on.
	ProjectsByTeam(ctx context.Context) (map[string][]model.Project, error)
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db}
}

func (r *teamRepository) Create(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepository) ListWithEmployees(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).
		Preload("Employees", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Find(&teams).Error
	return teams, err
}

func (r *teamRepository) ProjectsByTeam(ctx context.Context) (map[string][]model.Project, error) {
	db := r.db.WithContext(ctx)

	// 1. Which team works on which project, through its employees
	var pairs []struct {
		TeamID    string
		ProjectID string
	}
	err := db.Table("employee_project_tasks").
		Select("DISTINCT employees.team_id AS team_id, employee_project_tasks.project_id AS project_id").
		Joins("JOIN employees ON employees.uuid = employee_project_tasks.employee_uuid").
		Where("employees.team_id IS NOT NULL").
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string][]model.Project)
	if len(pairs) == 0 {
		return out, nil
	}

	// 2. Load the projects once
	ids := make([]string, 0, len(pairs))
	for _, p := range pairs {
		ids = append(ids, p.ProjectID)
	}
	var projects []model.Project
	if err := db.Where("project_id IN ?", ids).Order("project_name").Find(&projects).Error; err != nil {
		return nil, err
	}
	for _, p := range projects {
		for _, pair := range pairs {
			if pair.ProjectID == p.ProjectID {
				out[pair.TeamID] = append(out[pair.TeamID], p)
			}
		}
	}
	return out, nil
}
