package model

import "time"

const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

type Leave struct {
	Base
	UserID    string  `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Type      string  `json:"type" gorm:"type:varchar(50)"`
	StartDate string  `json:"start_date" gorm:"type:varchar(10);index"`
	EndDate   string  `json:"end_date" gorm:"type:varchar(10)"`
	StartTime *string `json:"start_time" gorm:"type:varchar(8)"`
	EndTime   *string `json:"end_time" gorm:"type:varchar(8)"`
	Duration  *string `json:"duration"`
	Status    string  `json:"status" gorm:"type:varchar(20);default:pending"`
	Reason    *string `json:"reason" gorm:"type:text"`
}

type Overtime struct {
	Base
	UserID    string     `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Type      *string    `json:"type" gorm:"type:text"`
	StartDate string     `json:"start_date" gorm:"type:varchar(10);index"`
	EndDate   string     `json:"end_date" gorm:"type:varchar(10)"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Duration  *string    `json:"duration" gorm:"type:text"`
	Reason    *string    `json:"reason" gorm:"type:text"`
	Status    *string    `json:"status" gorm:"type:text"`
}
