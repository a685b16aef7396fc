package repository

import (
	"context"

	"orbit-hr-backend/internal/model"

	"gorm.io/gorm"
)

type AttendanceFilter struct {
	Month  int // 1..12, 0 = any
	Year   int // 0 = any
	Limit  int
	Offset int
	Asc    bool
}

type AttendanceRepository interface {
	// Transaction runs fn against a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx AttendanceRepository) error) error
	Create(ctx context.Context, attendance *model.Attendance) error
	GetByID(ctx context.Context, id string) (*model.Attendance, error)
	GetByIDAndUser(ctx context.Context, id, userID string) (*model.Attendance, error)
	GetByUserAndDate(ctx context.Context, userID, date string) (*model.Attendance, error)
	// UpdateIfStatus applies fields only while the row is still in the expected status.
	UpdateIfStatus(ctx context.Context, id, expected string, fields map[string]interface{}) (bool, error)
	ListByDateAndStatus(ctx context.Context, date, status string) ([]model.Attendance, error)
	ListByUserBetween(ctx context.Context, userID, from, to string) ([]model.Attendance, error)
	History(ctx context.Context, userIDs []string, f AttendanceFilter) ([]model.Attendance, error)
	CreateLog(ctx context.Context, log *model.AttendanceLog) error
	ListLogs(ctx context.Context, attendanceID string) ([]model.AttendanceLog, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db}
}

func (r *attendanceRepository) Transaction(ctx context.Context, fn func(tx AttendanceRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&attendanceRepository{tx})
	})
}

func (r *attendanceRepository) Create(ctx context.Context, attendance *model.Attendance) error {
	return r.db.WithContext(ctx).Create(attendance).Error
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (*model.Attendance, error) {
	var attendance model.Attendance
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&attendance).Error; err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (r *attendanceRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*model.Attendance, error) {
	var attendance model.Attendance
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&attendance).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID, date string) (*model.Attendance, error) {
	var attendance model.Attendance
	err := r.db.WithContext(ctx).Where("user_id = ? AND attendance_date = ?", userID, date).First(&attendance).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (r *attendanceRepository) UpdateIfStatus(ctx context.Context, id, expected string, fields map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *attendanceRepository) ListByDateAndStatus(ctx context.Context, date, status string) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.db.WithContext(ctx).
		Where("attendance_date = ? AND status = ?", date, status).
		Order("user_id").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepository) ListByUserBetween(ctx context.Context, userID, from, to string) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND attendance_date >= ? AND attendance_date <= ?", userID, from, to).
		Order("attendance_date").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepository) History(ctx context.Context, userIDs []string, f AttendanceFilter) ([]model.Attendance, error) {
	var list []model.Attendance
	if len(userIDs) == 0 {
		return list, nil
	}

	q := r.db.WithContext(ctx).Where("user_id IN ?", userIDs)
	if from, to, ok := monthRange(f.Year, f.Month); ok {
		q = q.Where("attendance_date >= ? AND attendance_date <= ?", from, to)
	}
	if f.Asc {
		q = q.Order("attendance_date asc")
	} else {
		q = q.Order("attendance_date desc")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	err := q.Offset(f.Offset).Find(&list).Error
	return list, err
}

func (r *attendanceRepository) CreateLog(ctx context.Context, log *model.AttendanceLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *attendanceRepository) ListLogs(ctx context.Context, attendanceID string) ([]model.AttendanceLog, error) {
	var logs []model.AttendanceLog
	err := r.db.WithContext(ctx).
		Where("attendance_id = ?", attendanceID).
		Order("event_time asc").
		Find(&logs).Error
	return logs, err
}
