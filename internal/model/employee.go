package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	UUID                  string     `json:"uuid" gorm:"type:varchar(36);primaryKey"`
	Team                  *string    `json:"team"`
	TeamID                *string    `json:"team_id" gorm:"type:varchar(50);index"`
	Name                  *string    `json:"name"`
	ChineseName           *string    `json:"chinese_name"`
	EmployeeID            *string    `json:"employee_id" gorm:"type:varchar(50);uniqueIndex"`
	Email                 *string    `json:"email"`
	PhoneNo               *string    `json:"phone_no"`
	ITFieldWorkExperience *int       `json:"it_field_work_experience"`
	ProgrammingLanguages  *string    `json:"programming_languages" gorm:"type:text"`
	FrameworksLibraries   *string    `json:"frameworks_libraries" gorm:"type:text"`
	Specialization        *string    `json:"specialization" gorm:"type:text"`
	StartDate             *string    `json:"start_date" gorm:"type:varchar(10)"`
	EndDate               *string    `json:"end_date" gorm:"type:varchar(10)"`
	Role                  *string    `json:"role"`
	JobDesc               *string    `json:"job_desc" gorm:"type:text"`
	NTAccount             *string    `json:"nt_account" gorm:"column:nt_account;type:varchar(100);index"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             *time.Time `json:"updated_at"`

	Tasks []EmployeeProjectTask `json:"tasks,omitempty" gorm:"foreignKey:EmployeeUUID"`
}

type Team struct {
	TeamID          string  `json:"team_id" gorm:"type:varchar(50);primaryKey"` // team_N
	TeamName        string  `json:"team_name" gorm:"type:varchar(100);uniqueIndex;not null"`
	TeamDescription *string `json:"team_description" gorm:"type:text"`

	Employees []Employee `json:"employees,omitempty" gorm:"foreignKey:TeamID"`
}

type Project struct {
	ProjectID          string  `json:"project_id" gorm:"type:varchar(100);primaryKey"`
	ProjectName        string  `json:"project_name" gorm:"type:varchar(255);index"`
	ProjectDescription *string `json:"project_description" gorm:"type:text"`
	Status             *string `json:"status" gorm:"type:varchar(50);index"`
	StartDate          *string `json:"start_date" gorm:"type:varchar(10)"`
	EndDate            *string `json:"end_date" gorm:"type:varchar(10)"`
	Division           *string `json:"division" gorm:"type:varchar(50)"`
	ContactWindow      *string `json:"contact_window" gorm:"type:varchar(100)"`

	Tasks []EmployeeProjectTask `json:"tasks,omitempty" gorm:"foreignKey:ProjectID"`
}

// EmployeeProjectTask assigns an employee to a project. One row per pair.
type EmployeeProjectTask struct {
	TaskID       string  `json:"task_id" gorm:"type:varchar(36);primaryKey"`
	EmployeeUUID string  `json:"employee_uuid" gorm:"type:varchar(36);uniqueIndex:idx_employee_project;not null"`
	ProjectID    string  `json:"project_id" gorm:"type:varchar(100);uniqueIndex:idx_employee_project;not null"`
	Contribution *string `json:"contribution" gorm:"type:varchar(100)"`

	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeUUID"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == "" {
		e.UUID = uuid.NewString()
	}
	return nil
}

func (t *EmployeeProjectTask) BeforeCreate(tx *gorm.DB) error {
	if t.TaskID == "" {
		t.TaskID = uuid.NewString()
	}
	return nil
}
