package usecase

import (
	"context"
	"time"

	"orbit-hr-backend/internal/model"
	"orbit-hr-backend/internal/repository"
)

type LeaveInput struct {
	Type      string  `json:"type" validate:"required,max=50"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    *string `json:"reason" validate:"omitempty,max=2000"`
}

// LeaveUsecase serves leave and overtime records, and the per-employee
// attendance view used by HR.
type LeaveUsecase struct {
	leaves     repository.LeaveRepository
	attendance repository.AttendanceRepository
	employees  repository.EmployeeRepository
	users      repository.UserRepository
}

func NewLeaveUsecase(leaves repository.LeaveRepository, attendance repository.AttendanceRepository,
	employees repository.EmployeeRepository, users repository.UserRepository) *LeaveUsecase {
	return &LeaveUsecase{leaves: leaves, attendance: attendance, employees: employees, users: users}
}

// userForAccount resolves an employee's nt_account to the user whose username
// matches it case-insensitively.
func (u *LeaveUsecase) userForAccount(ctx context.Context, ntAccount string) (*model.User, error) {
	employee, err := u.employees.GetByNTAccount(ctx, ntAccount)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Employee with nt_account %s not found", ntAccount)
		}
		return nil, err
	}
	user, err := u.users.FindByUsernameFold(ctx, *employee.NTAccount)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("No user account linked to %s", ntAccount)
		}
		return nil, err
	}
	return user, nil
}

func (u *LeaveUsecase) EmployeeAttendance(ctx context.Context, ntAccount string) ([]model.Attendance, error) {
	user, err := u.userForAccount(ctx, ntAccount)
	if err != nil {
		return nil, err
	}
	return u.attendance.History(ctx, []string{user.ID}, repository.AttendanceFilter{})
}

func (u *LeaveUsecase) EmployeeLeaves(ctx context.Context, ntAccount string) ([]model.Leave, error) {
	user, err := u.userForAccount(ctx, ntAccount)
	if err != nil {
		return nil, err
	}
	return u.leaves.ListByUser(ctx, user.ID)
}

func (u *LeaveUsecase) EmployeeOvertime(ctx context.Context, ntAccount string) ([]model.Overtime, error) {
	user, err := u.userForAccount(ctx, ntAccount)
	if err != nil {
		return nil, err
	}
	return u.leaves.ListOvertimeByUser(ctx, user.ID)
}

func (u *LeaveUsecase) RequestLeave(ctx context.Context, userID string, in LeaveInput) (*model.Leave, error) {
	start, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return nil, invalid("start_date", "invalid start_date: use YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", in.EndDate)
	if err != nil {
		return nil, invalid("end_date", "invalid end_date: use YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, invalid("end_date", "end_date must be >= start_date")
	}

	leave := &model.Leave{
		UserID:    userID,
		Type:      in.Type,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Status:    model.LeavePending,
		Reason:    in.Reason,
	}
	if err := u.leaves.Create(ctx, leave); err != nil {
		return nil, err
	}
	return leave, nil
}

func (u *LeaveUsecase) MyLeaves(ctx context.Context, userID string) ([]model.Leave, error) {
	return u.leaves.ListByUser(ctx, userID)
}
