package usecase

import (
	"context"
	"testing"

	"orbit-hr-backend/internal/model"
	"orbit-hr-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDirectory(t *testing.T) (*DirectoryUsecase, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewDirectoryUsecase(
		repository.NewEmployeeRepository(db),
		repository.NewTeamRepository(db),
		repository.NewProjectRepository(db),
	), db
}

func createEmployee(t *testing.T, db *gorm.DB, name, teamID string) *model.Employee {
	t.Helper()
	e := &model.Employee{Name: ptr(name), EmployeeID: ptr("ID-" + name), Email: ptr(name + "@corp.example"), NTAccount: ptr(name)}
	if teamID != "" {
		e.TeamID = ptr(teamID)
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

func TestEmployeesPaging(t *testing.T) {
	uc, db := newDirectory(t)
	for _, n := range []string{"andi", "bayu", "cahya"} {
		createEmployee(t, db, n, "")
	}
	ctx := context.Background()

	list, err := uc.Employees(ctx, 2, 2, "")
	require.NoError(t, err)
	assert.Equal(t, Pagination{TotalPages: 2, Page: 2, PerPage: 2, TotalItems: 3}, list.Meta)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "cahya", *list.Items[0].Name)

	list, err = uc.Employees(ctx, 1, 10, "ID-BAYU")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	_, err = uc.Employee(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTeamsSortedByNumber(t *testing.T) {
	uc, db := newDirectory(t)
	for _, id := range []string{"team_10", "team_2", "team_1"} {
		require.NoError(t, db.Create(&model.Team{TeamID: id, TeamName: "Team " + id}).Error)
	}
	e := createEmployee(t, db, "andi", "team_2")
	require.NoError(t, db.Create(&model.Project{ProjectID: "P1", ProjectName: "Payroll"}).Error)
	require.NoError(t, db.Create(&model.EmployeeProjectTask{EmployeeUUID: e.UUID, ProjectID: "P1"}).Error)

	teams, err := uc.Teams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 3)
	assert.Equal(t, []string{"team_1", "team_2", "team_10"}, []string{teams[0].TeamID, teams[1].TeamID, teams[2].TeamID})
	require.Len(t, teams[1].Members, 1)
	require.Len(t, teams[1].Projects, 1)
	assert.Equal(t, "Payroll", teams[1].Projects[0].ProjectName)
	assert.Empty(t, teams[0].Projects)
}

func TestProjectMembers(t *testing.T) {
	uc, db := newDirectory(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&model.Project{ProjectID: "P1", ProjectName: "Payroll", Status: ptr("Active")}).Error)
	require.NoError(t, db.Create(&model.Project{ProjectID: "P2", ProjectName: "Portal", Status: ptr("completed")}).Error)
	e := createEmployee(t, db, "andi", "")

	_, err := uc.AddProjectMember(ctx, "nope", ProjectMemberInput{EmployeeUUID: e.UUID})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = uc.AddProjectMember(ctx, "P1", ProjectMemberInput{EmployeeUUID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrNotFound)

	task, err := uc.AddProjectMember(ctx, "P1", ProjectMemberInput{EmployeeUUID: e.UUID, Contribution: ptr("backend")})
	require.NoError(t, err)
	_, err = uc.AddProjectMember(ctx, "P1", ProjectMemberInput{EmployeeUUID: e.UUID})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Employee already assigned to this project", ve.Message)

	detail, err := uc.Project(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, detail.Members, 1)
	require.NotNil(t, detail.Members[0].Employee)
	assert.Equal(t, "andi", *detail.Members[0].Employee.Name)

	dash, err := uc.ProjectDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.TotalProjects)
	assert.Equal(t, 1, dash.ActiveProjects)
	assert.Equal(t, 1, dash.CompletedProjects)

	withProjects, err := uc.EmployeeWithProjects(ctx, e.UUID)
	require.NoError(t, err)
	require.Len(t, withProjects.Projects, 1)

	require.NoError(t, uc.RemoveProjectMember(ctx, "P1", task.TaskID))
	assert.ErrorIs(t, uc.RemoveProjectMember(ctx, "P1", task.TaskID), ErrNotFound)
}

func TestUpdateProject(t *testing.T) {
	uc, db := newDirectory(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&model.Project{ProjectID: "P1", ProjectName: "Payroll"}).Error)

	p, err := uc.UpdateProject(ctx, "P1", ProjectUpdateInput{Status: ptr("completed"), Division: ptr("Finance")})
	require.NoError(t, err)
	assert.Equal(t, "completed", *p.Status)
	assert.Equal(t, "Finance", *p.Division)
	assert.Equal(t, "Payroll", p.ProjectName)

	_, err = uc.UpdateProject(ctx, "P1", ProjectUpdateInput{})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = uc.UpdateProject(ctx, "P9", ProjectUpdateInput{Status: ptr("active")})
	assert.ErrorIs(t, err, ErrNotFound)
}
