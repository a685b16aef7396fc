package repository

import (
	"context"

	"orbit-hr-backend/internal/model"

	"gorm.io/gorm"
)

type LeaveRepository interface {
	Create(ctx context.Context, leave *model.Leave) error
	ListByUser(ctx context.Context, userID string) ([]model.Leave, error)
	ListOvertimeByUser(ctx context.Context, userID string) ([]model.Overtime, error)
}

type leaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db}
}

func (r *leaveRepository) Create(ctx context.Context, leave *model.Leave) error {
	return r.db.WithContext(ctx).Create(leave).Error
}

func (r *leaveRepository) ListByUser(ctx context.Context, userID string) ([]model.Leave, error) {
	var list []model.Leave
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("start_date desc").Find(&list).Error
	return list, err
}

func (r *leaveRepository) ListOvertimeByUser(ctx context.Context, userID string) ([]model.Overtime, error) {
	var list []model.Overtime
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("start_date desc").Find(&list).Error
	return list, err
}
