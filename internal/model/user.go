package model

const (
	RoleEmployee = "employee"
	RoleHRAdmin  = "hr_admin"
	RoleTeamLead = "team_lead"
)

type User struct {
	Base
	Username     string `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	Fullname     string `json:"fullname" gorm:"not null"`
	EmployeeID   string `json:"employee_id" gorm:"type:varchar(50);uniqueIndex;not null"`
	Email        string `json:"email" gorm:"type:varchar(150)"`
	Phone        string `json:"phone"`
	Positions    string `json:"positions"`
	Role         string `json:"role" gorm:"type:varchar(20);default:employee;not null"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
}

// TeamMember links a team lead to one of the users they supervise.
type TeamMember struct {
	Base
	TeamLeadID string `json:"team_lead_id" gorm:"type:varchar(36);uniqueIndex:idx_team_member;not null"`
	MemberID   string `json:"member_id" gorm:"type:varchar(36);uniqueIndex:idx_team_member;not null"`

	Member User `json:"member" gorm:"foreignKey:MemberID"`
}
