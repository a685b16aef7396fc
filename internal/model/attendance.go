package model

import "time"

const (
	AttendanceClockedIn  = "clocked_in"
	AttendanceClockedOut = "clocked_out"
	AttendancePartial    = "partial"
	AttendancePermission = "permission"
)

const (
	EventClockIn           = "clock_in"
	EventClockOut          = "clock_out"
	EventBacktrackClockOut = "backtrack_clock_out"
	EventAutoClockOut      = "auto_clock_out"
	EventManualFix         = "manual_fix"
	EventPermission        = "permission"
)

// Attendance is one user's record for one local calendar day.
type Attendance struct {
	Base
	UserID         string `json:"user_id" gorm:"type:varchar(36);uniqueIndex:idx_attendance_user_date;not null"`
	AttendanceDate string `json:"attendance_date" gorm:"type:varchar(10);uniqueIndex:idx_attendance_user_date;index;not null"` // YYYY-MM-DD

	ClockInTime      *time.Time `json:"clock_in_time"`
	ClockInLatitude  *float64   `json:"clock_in_latitude"`
	ClockInLongitude *float64   `json:"clock_in_longitude"`
	ClockInAddress   *string    `json:"clock_in_address"`

	ClockOutTime      *time.Time `json:"clock_out_time"`
	ClockOutLatitude  *float64   `json:"clock_out_latitude"`
	ClockOutLongitude *float64   `json:"clock_out_longitude"`
	ClockOutAddress   *string    `json:"clock_out_address"`

	WorkDescription *string `json:"work_description" gorm:"type:text"`
	Activity        *string `json:"activity" gorm:"type:text"`
	Plan            *string `json:"plan" gorm:"type:text"`
	Reason          *string `json:"reason" gorm:"type:text"`

	PermissionDate        *string `json:"permission_date" gorm:"type:varchar(10)"`
	PermissionCategory    *string `json:"permission_category" gorm:"type:varchar(30)"`
	PermissionDescription *string `json:"permission_description" gorm:"type:text"`

	Status string `json:"status" gorm:"type:varchar(20);index;not null"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// AttendanceLog is append-only. Rows are never updated.
type AttendanceLog struct {
	Base
	AttendanceID string    `json:"attendance_id" gorm:"type:varchar(36);index;not null"`
	UserID       string    `json:"user_id" gorm:"type:varchar(36);index;not null"`
	EventType    string    `json:"event_type" gorm:"type:varchar(30);not null"`
	EventTime    time.Time `json:"event_time"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	Address      *string   `json:"address"`
	Description  string    `json:"description" gorm:"type:text"`
	Reason       *string   `json:"reason" gorm:"type:text"`
	Plan         *string   `json:"plan" gorm:"type:text"`
	Activity     *string   `json:"activity" gorm:"type:text"`
}
