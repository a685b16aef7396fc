package usecase

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"orbit-hr-backend/internal/model"
	"orbit-hr-backend/internal/repository"

	"gorm.io/gorm"
)

type EmployeeList struct {
	Items []model.Employee `json:"items"`
	Meta  Pagination       `json:"meta"`
}

type EmployeeProjects struct {
	model.Employee
	Projects []model.Project `json:"projects"`
}

type TeamDetail struct {
	TeamID          string           `json:"team_id"`
	TeamName        string           `json:"team_name"`
	TeamDescription *string          `json:"team_description"`
	Members         []model.Employee `json:"members"`
	Projects        []model.Project  `json:"projects"`
}

type ProjectDashboard struct {
	TotalProjects     int                      `json:"total_projects"`
	ActiveProjects    int                      `json:"active_projects"`
	CompletedProjects int                      `json:"completed_projects"`
	Projects          []repository.ProjectCard `json:"projects"`
}

type ProjectDetail struct {
	model.Project
	Members []model.EmployeeProjectTask `json:"members"`
}

type ProjectMemberInput struct {
	EmployeeUUID string  `json:"employee_uuid" validate:"required,uuid"`
	Contribution *string `json:"contribution" validate:"omitempty,max=100"`
}

type ProjectUpdateInput struct {
	ProjectName        *string `json:"project_name" validate:"omitempty,min=1,max=255"`
	ProjectDescription *string `json:"project_description"`
	Status             *string `json:"status" validate:"omitempty,max=50"`
	StartDate          *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate            *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Division           *string `json:"division" validate:"omitempty,max=50"`
	ContactWindow      *string `json:"contact_window" validate:"omitempty,max=100"`
}

// DirectoryUsecase serves the employee, team and project directories.
type DirectoryUsecase struct {
	employees repository.EmployeeRepository
	teams     repository.TeamRepository
	projects  repository.ProjectRepository
}

func NewDirectoryUsecase(employees repository.EmployeeRepository, teams repository.TeamRepository, projects repository.ProjectRepository) *DirectoryUsecase {
	return &DirectoryUsecase{employees: employees, teams: teams, projects: projects}
}

func (u *DirectoryUsecase) Employees(ctx context.Context, page, perPage int, search string) (*EmployeeList, error) {
	page, perPage, offset, err := pageBounds(page, perPage, 10)
	if err != nil {
		return nil, err
	}
	items, total, err := u.employees.List(ctx, strings.TrimSpace(search), perPage, offset)
	if err != nil {
		return nil, err
	}
	return &EmployeeList{Items: items, Meta: newPagination(page, perPage, total)}, nil
}

func (u *DirectoryUsecase) Employee(ctx context.Context, uuid string) (*model.Employee, error) {
	e, err := u.employees.GetByUUID(ctx, uuid)
	if isRecordNotFound(err) {
		return nil, notFound("Employee not found")
	}
	return e, err
}

func (u *DirectoryUsecase) EmployeeWithProjects(ctx context.Context, uuid string) (*EmployeeProjects, error) {
	e, projects, err := u.employees.GetWithProjects(ctx, uuid)
	if isRecordNotFound(err) {
		return nil, notFound("Employee not found")
	}
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return &EmployeeProjects{Employee: *e, Projects: projects}, nil
}

// Teams returns every team with its members and projects, ordered by the
// number in the team id (team_2 before team_10).
func (u *DirectoryUsecase) Teams(ctx context.Context) ([]TeamDetail, error) {
	teams, err := u.teams.ListWithEmployees(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := u.teams.ProjectsByTeam(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(teams, func(i, j int) bool {
		return teamNumber(teams[i].TeamID) < teamNumber(teams[j].TeamID)
	})

	out := make([]TeamDetail, len(teams))
	for i, t := range teams {
		members := t.Employees
		if members == nil {
			members = []model.Employee{}
		}
		ps := projects[t.TeamID]
		if ps == nil {
			ps = []model.Project{}
		}
		out[i] = TeamDetail{
			TeamID:          t.TeamID,
			TeamName:        t.TeamName,
			TeamDescription: t.TeamDescription,
			Members:         members,
			Projects:        ps,
		}
	}
	return out, nil
}

// teamNumber parses the suffix of ids like "team_12". Ids without one sort last.
func teamNumber(id string) int {
	i := strings.LastIndex(id, "_")
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

func (u *DirectoryUsecase) ProjectDashboard(ctx context.Context) (*ProjectDashboard, error) {
	cards, err := u.projects.ListWithMemberCount(ctx)
	if err != nil {
		return nil, err
	}
	d := &ProjectDashboard{TotalProjects: len(cards), Projects: cards}
	for _, c := range cards {
		if c.Status == nil {
			continue
		}
		switch strings.ToLower(*c.Status) {
		case "active":
			d.ActiveProjects++
		case "completed":
			d.CompletedProjects++
		}
	}
	if d.Projects == nil {
		d.Projects = []repository.ProjectCard{}
	}
	return d, nil
}

func (u *DirectoryUsecase) Project(ctx context.Context, projectID string) (*ProjectDetail, error) {
	p, err := u.projects.GetByID(ctx, projectID)
	if isRecordNotFound(err) {
		return nil, notFound("Project not found")
	}
	if err != nil {
		return nil, err
	}
	members, err := u.projects.Members(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{Project: *p, Members: members}, nil
}

func (u *DirectoryUsecase) AddProjectMember(ctx context.Context, projectID string, in ProjectMemberInput) (*model.EmployeeProjectTask, error) {
	// 1. Project and employee must exist
	if _, err := u.projects.GetByID(ctx, projectID); err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Project not found")
		}
		return nil, err
	}
	if _, err := u.employees.GetByUUID(ctx, in.EmployeeUUID); err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Employee not found")
		}
		return nil, err
	}

	// 2. One assignment per pair
	if _, err := u.projects.FindTask(ctx, projectID, in.EmployeeUUID); err == nil {
		return nil, invalid("employee_uuid", "Employee already assigned to this project")
	} else if !isRecordNotFound(err) {
		return nil, err
	}

	task := &model.EmployeeProjectTask{EmployeeUUID: in.EmployeeUUID, ProjectID: projectID, Contribution: in.Contribution}
	if err := u.projects.AddTask(ctx, task); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, invalid("employee_uuid", "Employee already assigned to this project")
		}
		return nil, err
	}
	return task, nil
}

func (u *DirectoryUsecase) RemoveProjectMember(ctx context.Context, projectID, taskID string) error {
	ok, err := u.projects.DeleteTask(ctx, projectID, taskID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("Task assignment not found")
	}
	return nil
}

func (u *DirectoryUsecase) UpdateProject(ctx context.Context, projectID string, in ProjectUpdateInput) (*model.Project, error) {
	if _, err := u.projects.GetByID(ctx, projectID); err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Project not found")
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	set("project_name", in.ProjectName)
	set("project_description", in.ProjectDescription)
	set("status", in.Status)
	set("start_date", in.StartDate)
	set("end_date", in.EndDate)
	set("division", in.Division)
	set("contact_window", in.ContactWindow)
	if len(fields) == 0 {
		return nil, invalid("body", "no fields to update")
	}

	if err := u.projects.Update(ctx, projectID, fields); err != nil {
		return nil, err
	}
	return u.projects.GetByID(ctx, projectID)
}
