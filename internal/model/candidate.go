package model

import "time"

const (
	StageApplied                 = "applied"
	StageResumeScraped           = "resume_scraped"
	StageScreened                = "screened"
	StageSurvey                  = "survey"
	StageCodingTest              = "coding_test"
	StageInterviewTeamLead       = "interview_team_lead"
	StageInterviewGeneralManager = "interview_general_manager"
	StageOffer                   = "offer"
	StageHired                   = "hired"
	StageRejected                = "rejected"
)

// StageKeys is the pipeline order.
var StageKeys = []string{
	StageApplied,
	StageResumeScraped,
	StageScreened,
	StageSurvey,
	StageCodingTest,
	StageInterviewTeamLead,
	StageInterviewGeneralManager,
	StageOffer,
	StageHired,
	StageRejected,
}

func IsStageKey(s string) bool {
	for _, k := range StageKeys {
		if k == s {
			return true
		}
	}
	return false
}

type Candidate struct {
	Base
	Name               *string    `json:"name" gorm:"type:varchar(255)"`
	Age                *int       `json:"age"`
	Gender             *string    `json:"gender" gorm:"type:varchar(50)"`
	Location           *string    `json:"location" gorm:"type:varchar(150)"`
	ExperienceMonth    *int       `json:"experience_month"`
	HighestDegree      *string    `json:"highest_degree" gorm:"type:varchar(100)"`
	JobPreference      *string    `json:"job_preference" gorm:"type:text"`
	LocationPreference *string    `json:"location_preference" gorm:"type:text"`
	Linkedin           *string    `json:"linkedin" gorm:"type:varchar(150)"`
	Github             *string    `json:"github" gorm:"type:varchar(150)"`
	ExpectedSalary     *string    `json:"expected_salary" gorm:"type:varchar(100)"`
	AboutMe            *string    `json:"about_me" gorm:"type:text"`
	Skills             *string    `json:"skills" gorm:"type:text"`
	Education          *string    `json:"education" gorm:"type:text"`
	Whatsapp           *string    `json:"whatsapp" gorm:"type:varchar(50)"`
	Email              string     `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	CVFile             *string    `json:"cv_file" gorm:"column:cv_file;type:varchar(255)"`
	DateScraped        *time.Time `json:"date_scraped" gorm:"index"`
	AppliedAs          *string    `json:"applied_as" gorm:"type:varchar(100)"`
	CandidateStatus    string     `json:"candidate_status" gorm:"type:varchar(40);default:applied;index"`

	Stages []CandidateStage `json:"stages,omitempty" gorm:"foreignKey:CandidateID"`
}

// CandidateStage is one entry of a candidate into a pipeline stage. The row
// with a null ExitedAt is the current stage.
type CandidateStage struct {
	Base
	CandidateID       string     `json:"candidate_id" gorm:"type:varchar(36);index:idx_stage_candidate_entered;not null"`
	StageKey          string     `json:"stage_key" gorm:"type:varchar(40);not null"`
	EnteredAt         time.Time  `json:"entered_at" gorm:"index:idx_stage_candidate_entered;index"`
	ExitedAt          *time.Time `json:"exited_at"`
	DurationSeconds   *int64     `json:"duration_seconds"`
	HRPrivateNotes    *string    `json:"hr_private_notes" gorm:"column:hr_private_notes;type:text"`
	SendEmailOnReject bool       `json:"send_email_on_reject" gorm:"default:false"`
	EmailSentAt       *time.Time `json:"email_sent_at"`
	CreatedBy         string     `json:"created_by" gorm:"type:varchar(36);not null"`
}
