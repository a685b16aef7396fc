package database

import (
	"fmt"
	"time"

	"orbit-hr-backend/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAll inserts demo data. It is idempotent: existing rows are matched by
// their natural keys and left alone, except user passwords which are reset.
func SeedAll(db *gorm.DB, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// 1. Accounts
		admin := model.User{Username: "admin", Fullname: "HR Administrator", EmployeeID: "EMP-0001", Email: "hr@example.com", Positions: "HR Manager", Role: model.RoleHRAdmin, IsActive: true}
		lead := model.User{Username: "lead.andi", Fullname: "Andi Wijaya", EmployeeID: "EMP-0002", Email: "andi@example.com", Positions: "Team Lead", Role: model.RoleTeamLead, IsActive: true}
		staff := model.User{Username: "budi.santoso", Fullname: "Budi Santoso", EmployeeID: "EMP-0003", Email: "budi@example.com", Positions: "Backend Engineer", Role: model.RoleEmployee, IsActive: true}
		for _, u := range []*model.User{&admin, &lead, &staff} {
			u.PasswordHash = string(hashed)
			if err := tx.Where(model.User{Username: u.Username}).FirstOrCreate(u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.Username, err)
			}
			// keep the password in sync with the seed value even if the user already existed
			if err := tx.Model(u).Update("password_hash", string(hashed)).Error; err != nil {
				return err
			}
		}

		// 2. Team lead -> member
		link := model.TeamMember{TeamLeadID: lead.ID, MemberID: staff.ID}
		if err := tx.Where(model.TeamMember{TeamLeadID: lead.ID, MemberID: staff.ID}).FirstOrCreate(&link).Error; err != nil {
			return fmt.Errorf("seed team member: %w", err)
		}

		// 3. Directory
		team := model.Team{TeamID: "team_1", TeamName: "Platform", TeamDescription: strPtr("Core services and infrastructure")}
		if err := tx.Where(model.Team{TeamID: team.TeamID}).FirstOrCreate(&team).Error; err != nil {
			return fmt.Errorf("seed team: %w", err)
		}

		employees := []model.Employee{
			{Name: strPtr("Andi Wijaya"), EmployeeID: strPtr(lead.EmployeeID), Email: strPtr(lead.Email), NTAccount: strPtr(lead.Username), Role: strPtr("Team Lead"), StartDate: strPtr("2021-03-01")},
			{Name: strPtr("Budi Santoso"), EmployeeID: strPtr(staff.EmployeeID), Email: strPtr(staff.Email), NTAccount: strPtr(staff.Username), Role: strPtr("Backend Engineer"), ProgrammingLanguages: strPtr("Go, SQL"), StartDate: strPtr("2023-08-14")},
		}
		for i := range employees {
			e := &employees[i]
			e.Team = strPtr(team.TeamName)
			e.TeamID = strPtr(team.TeamID)
			if err := tx.Where(model.Employee{EmployeeID: e.EmployeeID}).FirstOrCreate(e).Error; err != nil {
				return fmt.Errorf("seed employee %s: %w", *e.EmployeeID, err)
			}
		}

		project := model.Project{ProjectID: "orbit-hr", ProjectName: "Orbit HR", Status: strPtr("In Progress"), Division: strPtr("Engineering"), StartDate: strPtr("2025-01-06")}
		if err := tx.Where(model.Project{ProjectID: project.ProjectID}).FirstOrCreate(&project).Error; err != nil {
			return fmt.Errorf("seed project: %w", err)
		}
		for i, contribution := range []string{"Lead", "Backend"} {
			task := model.EmployeeProjectTask{EmployeeUUID: employees[i].UUID, ProjectID: project.ProjectID, Contribution: strPtr(contribution)}
			if err := tx.Where(model.EmployeeProjectTask{EmployeeUUID: task.EmployeeUUID, ProjectID: task.ProjectID}).FirstOrCreate(&task).Error; err != nil {
				return fmt.Errorf("seed project task: %w", err)
			}
		}

		// 4. Candidates with stage history
		now := time.Now().UTC().Truncate(time.Second)
		day := 24 * time.Hour
		pipelines := []struct {
			name, email string
			stages      []string
		}{
			{"Citra Lestari", "citra@example.com", []string{model.StageApplied, model.StageScreened, model.StageCodingTest}},
			{"Dewi Anggraini", "dewi@example.com", []string{model.StageApplied, model.StageScreened, model.StageInterviewTeamLead, model.StageOffer, model.StageHired}},
			{"Eko Prasetyo", "eko@example.com", []string{model.StageApplied, model.StageRejected}},
			{"Fajar Nugroho", "fajar@example.com", []string{model.StageApplied}},
		}
		for _, p := range pipelines {
			entered := now.Add(-time.Duration(len(p.stages)*3) * day)
			var existing int64
			if err := tx.Model(&model.Candidate{}).Where("email = ?", p.email).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}
			candidate := model.Candidate{Name: strPtr(p.name), Email: p.email, AppliedAs: strPtr("Backend Engineer"), DateScraped: &entered}
			if err := tx.Create(&candidate).Error; err != nil {
				return fmt.Errorf("seed candidate %s: %w", p.email, err)
			}

			for i, key := range p.stages {
				stage := model.CandidateStage{CandidateID: candidate.ID, StageKey: key, EnteredAt: entered, CreatedBy: admin.ID}
				if i < len(p.stages)-1 {
					exited := entered.Add(3 * day)
					secs := int64(exited.Sub(entered) / time.Second)
					stage.ExitedAt = &exited
					stage.DurationSeconds = &secs
					entered = exited
				}
				if err := tx.Create(&stage).Error; err != nil {
					return fmt.Errorf("seed stage %s/%s: %w", p.email, key, err)
				}
			}
			current := p.stages[len(p.stages)-1]
			if err := tx.Model(&candidate).Update("candidate_status", current).Error; err != nil {
				return err
			}
		}

		log.Info().Str("admin", admin.Username).Msg("seed data ready")
		return nil
	})
}

func strPtr(s string) *string { return &s }
