package repository

import (
	"context"

	"orbit-hr-backend/internal/model"

	"gorm.io/gorm"
)

// ProjectCard is a project with its member count.
type ProjectCard struct {
	model.Project
	MemberCount int64 `json:"member_count"`
}

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	ListWithMemberCount(ctx context.Context) ([]ProjectCard, error)
	GetByID(ctx context.Context, projectID string) (*model.Project, error)
	Members(ctx context.Context, projectID string) ([]model.EmployeeProjectTask, error)
	FindTask(ctx context.Context, projectID, employeeUUID string) (*model.EmployeeProjectTask, error)
	AddTask(ctx context.Context, task *model.EmployeeProjectTask) error
	DeleteTask(ctx context.Context, projectID, taskID string) (bool, error)
	Update(ctx context.Context, projectID string, fields map[string]interface{}) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) ListWithMemberCount(ctx context.Context) ([]ProjectCard, error) {
	var cards []ProjectCard
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Select("projects.*, COUNT(employee_project_tasks.task_id) AS member_count").
		Joins("LEFT JOIN employee_project_tasks ON employee_project_tasks.project_id = projects.project_id").
		Group("projects.project_id").
		Order("projects.project_name").
		Scan(&cards).Error
	return cards, err
}

func (r *projectRepository) GetByID(ctx context.Context, projectID string) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Members(ctx context.Context, projectID string) ([]model.EmployeeProjectTask, error) {
	var tasks []model.EmployeeProjectTask
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("project_id = ?", projectID).
		Find(&tasks).Error
	return tasks, err
}

func (r *projectRepository) FindTask(ctx context.Context, projectID, employeeUUID string) (*model.EmployeeProjectTask, error) {
	var task model.EmployeeProjectTask
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND employee_uuid = ?", projectID, employeeUUID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *projectRepository) AddTask(ctx context.Context, task *model.EmployeeProjectTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *projectRepository) DeleteTask(ctx context.Context, projectID, taskID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("task_id = ? AND project_id = ?", taskID, projectID).
		Delete(&model.EmployeeProjectTask{})
	return res.RowsAffected > 0, res.Error
}

func (r *projectRepository) Update(ctx context.Context, projectID string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Project{}).Where("project_id = ?", projectID).Updates(fields).Error
}
