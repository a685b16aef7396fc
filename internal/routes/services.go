package routes

import (
	"orbit-hr-backend/config"
	"orbit-hr-backend/internal/cache"
	"orbit-hr-backend/internal/event"
	"orbit-hr-backend/internal/mailer"
	"orbit-hr-backend/internal/repository"
	"orbit-hr-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Deps struct {
	DB        *gorm.DB
	Config    *config.Config
	Cache     cache.Store
	Events    event.Publisher
	Mailer    mailer.Sender
	Log       zerolog.Logger
	UploadDir string
}

// Services holds the usecases shared by every route group and by the scheduler.
type Services struct {
	Secret    string
	UploadDir string

	Users      *usecase.UserUsecase
	Dashboard  *usecase.DashboardUsecase
	Attendance *usecase.AttendanceUsecase
	Candidates *usecase.CandidateUsecase
	Directory  *usecase.DirectoryUsecase
	Leaves     *usecase.LeaveUsecase
}

func NewServices(d Deps) (*Services, error) {
	loc, err := d.Config.Location()
	if err != nil {
		return nil, err
	}
	if d.Cache == nil {
		d.Cache = cache.NewMemory()
	}
	if d.Events == nil {
		d.Events = event.Nop{}
	}

	userRepo := repository.NewUserRepository(d.DB)
	attendanceRepo := repository.NewAttendanceRepository(d.DB)
	employeeRepo := repository.NewEmployeeRepository(d.DB)

	dashboard := usecase.NewDashboardUsecase(repository.NewDashboardRepository(d.DB), d.Cache, d.Config.Dashboard.CacheTTL, loc, d.Log)

	return &Services{
		Secret:     d.Config.Auth.JWTSecret,
		UploadDir:  d.UploadDir,
		Users:      usecase.NewUserUsecase(userRepo, d.Config.Auth.JWTSecret, d.Config.Auth.AccessTokenExpiry, d.Config.Auth.RefreshTokenExpiry, d.Log),
		Dashboard:  dashboard,
		Attendance: usecase.NewAttendanceUsecase(attendanceRepo, userRepo, d.Events, loc, d.Config.Attendance.EndOfDayHour, d.Log),
		Candidates: usecase.NewCandidateUsecase(repository.NewCandidateRepository(d.DB), dashboard, d.Events, d.Mailer, loc, d.Log),
		Directory:  usecase.NewDirectoryUsecase(employeeRepo, repository.NewTeamRepository(d.DB), repository.NewProjectRepository(d.DB)),
		Leaves:     usecase.NewLeaveUsecase(repository.NewLeaveRepository(d.DB), attendanceRepo, employeeRepo, userRepo),
	}, nil
}

// Setup registers every route group on app.
func Setup(app *fiber.App, svc *Services) {
	SetupAuthRoutes(app, svc)
	SetupDashboardRoutes(app, svc)
	SetupAttendanceRoutes(app, svc)
	SetupLeaveRoutes(app, svc)
	SetupCandidateRoutes(app, svc)
	SetupReportRoutes(app, svc)
	SetupDirectoryRoutes(app, svc)
}
