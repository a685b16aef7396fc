package repository

import (
	"context"

	"orbit-hr-backend/internal/model"

	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	List(ctx context.Context, search string, limit, offset int) ([]model.Employee, int64, error)
	GetByUUID(ctx context.Context, uuid string) (*model.Employee, error)
	GetWithProjects(ctx context.Context, uuid string) (*model.Employee, []model.Project, error)
	GetByNTAccount(ctx context.Context, ntAccount string) (*model.Employee, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepository) List(ctx context.Context, search string, limit, offset int) ([]model.Employee, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Employee{})
	if search != "" {
		pattern := likePattern(search)
		q = q.Where("(name IS NOT NULL AND LOWER(name) LIKE ?) OR (employee_id IS NOT NULL AND LOWER(employee_id) LIKE ?) OR (email IS NOT NULL AND LOWER(email) LIKE ?)",
			pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Employee
	err := q.Order("name").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

func (r *employeeRepository) GetByUUID(ctx context.Context, uuid string) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) GetWithProjects(ctx context.Context, uuid string) (*model.Employee, []model.Project, error) {
	employee, err := r.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, nil, err
	}

	var projects []model.Project
	err = r.db.WithContext(ctx).
		Joins("JOIN employee_project_tasks ON employee_project_tasks.project_id = projects.project_id").
		Where("employee_project_tasks.employee_uuid = ?", uuid).
		Order("projects.project_name").
		Find(&projects).Error
	return employee, projects, err
}

func (r *employeeRepository) GetByNTAccount(ctx context.Context, ntAccount string) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.WithContext(ctx).Where("nt_account = ?", ntAccount).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}
