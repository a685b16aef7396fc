package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orbit-hr-backend/internal/event"
	"orbit-hr-backend/internal/model"
	"orbit-hr-backend/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const autoClockOutPlaceholder = "Auto clocked-out by system"

// AttendancePublisher receives committed attendance transitions.
type AttendancePublisher interface {
	PublishAttendance(ctx context.Context, e event.AttendanceEvent) error
}

type ClockInInput struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Address   *string  `json:"address" validate:"omitempty,max=500"`
	Plan      *string  `json:"plan" validate:"omitempty,max=2000"`
}

type ClockOutInput struct {
	Latitude        *float64 `json:"latitude" validate:"required,latitude"`
	Longitude       *float64 `json:"longitude" validate:"required,longitude"`
	Address         *string  `json:"address" validate:"omitempty,max=500"`
	WorkDescription string   `json:"work_description" validate:"required,max=5000"`
	Activity        *string  `json:"activity" validate:"omitempty,max=5000"`
	Plan            *string  `json:"plan" validate:"omitempty,max=2000"`
}

type BacktrackInput struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

type FixPartialInput struct {
	WorkDescription string `json:"work_description" validate:"required,max=5000"`
	Activity        string `json:"activity" validate:"required,max=5000"`
}

type PermissionInput struct {
	PermissionDate string `json:"permission_date" validate:"required,datetime=2006-01-02"`
	Category       string `json:"category" validate:"required,oneof=sick leave personal other"`
	Description    string `json:"description" validate:"required,max=2000"`
}

type SweepResult struct {
	Message      string    `json:"message"`
	UpdatedCount int       `json:"updated_count"`
	Timestamp    time.Time `json:"timestamp"`
}

type WeeklyStats struct {
	DaysPresent     int     `json:"days_present"`
	TotalDays       int     `json:"total_days"`
	TotalHours      int     `json:"total_hours"`
	TotalMinutes    int     `json:"total_minutes"`
	AvgClockInTime  *string `json:"avg_clock_in_time"`
	AvgClockOutTime *string `json:"avg_clock_out_time"`
	WeekStart       string  `json:"week_start"`
	WeekEnd         string  `json:"week_end"`
}

type TeamMembers struct {
	TeamLeadID   string       `json:"team_lead_id"`
	TeamLeadName string       `json:"team_lead_name"`
	Members      []model.User `json:"members"`
}

// AttendanceUsecase owns the daily clock-in/clock-out lifecycle. "Today" is
// always the server clock in loc.
type AttendanceUsecase struct {
	repo         repository.AttendanceRepository
	users        repository.UserRepository
	events       AttendancePublisher
	loc          *time.Location
	endOfDayHour int
	now          func() time.Time
	log          zerolog.Logger
}

func NewAttendanceUsecase(repo repository.AttendanceRepository, users repository.UserRepository, events AttendancePublisher,
	loc *time.Location, endOfDayHour int, log zerolog.Logger) *AttendanceUsecase {
	if events == nil {
		events = event.Nop{}
	}
	return &AttendanceUsecase{
		repo:         repo,
		users:        users,
		events:       events,
		loc:          loc,
		endOfDayHour: endOfDayHour,
		now:          time.Now,
		log:          log.With().Str("component", "AttendanceUsecase").Logger(),
	}
}

func (u *AttendanceUsecase) localNow() time.Time {
	return u.now().In(u.loc)
}

func (u *AttendanceUsecase) today() string {
	return u.localNow().Format("2006-01-02")
}

// Today returns the caller's record for the current local date, or nil.
func (u *AttendanceUsecase) Today(ctx context.Context, userID string) (*model.Attendance, error) {
	a, err := u.repo.GetByUserAndDate(ctx, userID, u.today())
	if isRecordNotFound(err) {
		return nil, nil
	}
	return a, err
}

func (u *AttendanceUsecase) ClockIn(ctx context.Context, userID string, in ClockInInput) (*model.Attendance, error) {
	now := u.localNow()
	today := now.Format("2006-01-02")
	at := now.UTC()

	var created *model.Attendance
	var entry *model.AttendanceLog
	err := u.repo.Transaction(ctx, func(tx repository.AttendanceRepository) error {
		existing, err := tx.GetByUserAndDate(ctx, userID, today)
		if err != nil && !isRecordNotFound(err) {
			return err
		}
		if existing != nil {
			return alreadyRecorded(existing.Status)
		}

		created = &model.Attendance{
			UserID:           userID,
			AttendanceDate:   today,
			ClockInTime:      &at,
			ClockInLatitude:  in.Latitude,
			ClockInLongitude: in.Longitude,
			ClockInAddress:   in.Address,
			Plan:             in.Plan,
			Status:           model.AttendanceClockedIn,
		}
		if err := tx.Create(ctx, created); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict(model.AttendanceClockedIn, "Already clocked in for today")
			}
			return err
		}

		entry = &model.AttendanceLog{
			AttendanceID: created.ID,
			UserID:       userID,
			EventType:    model.EventClockIn,
			EventTime:    at,
			Latitude:     in.Latitude,
			Longitude:    in.Longitude,
			Address:      in.Address,
			Description:  fmt.Sprintf("Clocked in at %s", now.Format("15:04:05")),
			Plan:         in.Plan,
			Activity:     strPtr("Clocked in"),
		}
		return tx.CreateLog(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	u.publish(ctx, created, entry)
	return created, nil
}

// alreadyRecorded explains why a second record for the same day is refused.
func alreadyRecorded(status string) error {
	switch status {
	case model.AttendanceClockedIn:
		return conflict(status, "Already clocked in for today")
	case model.AttendanceClockedOut:
		return conflict(status, "Already completed attendance for today")
	case model.AttendancePartial:
		return conflict(status, "Attendance for today was closed automatically. Use fix to complete it")
	default:
		return conflict(status, "Attendance for today is already recorded as %s", status)
	}
}

func (u *AttendanceUsecase) ClockOut(ctx context.Context, userID string, in ClockOutInput) (*model.Attendance, error) {
	now := u.localNow()
	at := now.UTC()

	return u.transition(ctx, userID, "", model.AttendanceClockedIn, func(a *model.Attendance) (map[string]interface{}, *model.AttendanceLog) {
		fields := map[string]interface{}{
			"clock_out_time":      at,
			"clock_out_latitude":  in.Latitude,
			"clock_out_longitude": in.Longitude,
			"clock_out_address":   in.Address,
			"work_description":    in.WorkDescription,
			"activity":            in.Activity,
			"status":              model.AttendanceClockedOut,
		}
		if in.Plan != nil {
			fields["plan"] = *in.Plan
		}
		return fields, &model.AttendanceLog{
			EventType:   model.EventClockOut,
			EventTime:   at,
			Latitude:    in.Latitude,
			Longitude:   in.Longitude,
			Address:     in.Address,
			Description: fmt.Sprintf("Clocked out at %s. Work: %s", now.Format("15:04:05"), truncate(in.WorkDescription, 100)),
			Activity:    in.Activity,
			Plan:        in.Plan,
		}
	}, func(status string) error {
		return conflict(status, "Cannot clock out. Current status: %s", status)
	})
}

func (u *AttendanceUsecase) BacktrackClockOut(ctx context.Context, userID string, in BacktrackInput) (*model.Attendance, error) {
	at := u.now().UTC()

	return u.transition(ctx, userID, "", model.AttendanceClockedOut, func(a *model.Attendance) (map[string]interface{}, *model.AttendanceLog) {
		fields := map[string]interface{}{
			"clock_out_time":      nil,
			"clock_out_latitude":  nil,
			"clock_out_longitude": nil,
			"clock_out_address":   nil,
			"work_description":    nil,
			"activity":            nil,
			"reason":              in.Reason,
			"status":              model.AttendanceClockedIn,
		}
		return fields, &model.AttendanceLog{
			EventType:   model.EventBacktrackClockOut,
			EventTime:   at,
			Description: fmt.Sprintf("Clock-out backtracked. Reason: %s", truncate(in.Reason, 200)),
			Reason:      strPtr(in.Reason),
		}
	}, func(status string) error {
		return conflict(status, "Can only backtrack a clocked-out attendance. Current status: %s", status)
	})
}

// FixPartial completes a record that the sweep closed. It is looked up by id
// and must belong to the caller.
func (u *AttendanceUsecase) FixPartial(ctx context.Context, userID, attendanceID string, in FixPartialInput) (*model.Attendance, error) {
	at := u.now().UTC()

	return u.transition(ctx, userID, attendanceID, model.AttendancePartial, func(a *model.Attendance) (map[string]interface{}, *model.AttendanceLog) {
		fields := map[string]interface{}{
			"work_description": in.WorkDescription,
			"activity":         in.Activity,
			"status":           model.AttendanceClockedOut,
		}
		return fields, &model.AttendanceLog{
			EventType:   model.EventManualFix,
			EventTime:   at,
			Description: fmt.Sprintf("Manually fixed partial attendance. Work: %s", truncate(in.WorkDescription, 100)),
			Activity:    strPtr(fmt.Sprintf("Manually fixed partial attendance. Work: %s", truncate(in.Activity, 100))),
		}
	}, func(status string) error {
		return conflict(status, "This attendance record is not partial")
	})
}

// transition loads the record (today's, or by id when attendanceID is set),
// checks it is in the expected status and applies the update and its log
// entry in one transaction.
func (u *AttendanceUsecase) transition(
	ctx context.Context,
	userID, attendanceID, expected string,
	apply func(a *model.Attendance) (map[string]interface{}, *model.AttendanceLog),
	rejected func(status string) error,
) (*model.Attendance, error) {
	var updated *model.Attendance
	var entry *model.AttendanceLog
	err := u.repo.Transaction(ctx, func(tx repository.AttendanceRepository) error {
		var (
			current *model.Attendance
			err     error
		)
		if attendanceID != "" {
			current, err = tx.GetByIDAndUser(ctx, attendanceID, userID)
		} else {
			current, err = tx.GetByUserAndDate(ctx, userID, u.today())
		}
		if isRecordNotFound(err) {
			if attendanceID != "" {
				return notFound("Attendance record not found")
			}
			return notFound("No attendance record found for today")
		}
		if err != nil {
			return err
		}
		if current.Status != expected {
			return rejected(current.Status)
		}

		fields, log := apply(current)
		ok, err := tx.UpdateIfStatus(ctx, current.ID, expected, fields)
		if err != nil {
			return err
		}
		if !ok {
			// changed by a concurrent request after it was read
			latest, err := tx.GetByID(ctx, current.ID)
			if err != nil {
				return err
			}
			return rejected(latest.Status)
		}

		log.AttendanceID = current.ID
		log.UserID = userID
		if err := tx.CreateLog(ctx, log); err != nil {
			return err
		}
		entry = log

		updated, err = tx.GetByID(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.publish(ctx, updated, entry)
	return updated, nil
}

// AutoClockOut closes every record of the current date still clocked in. It is
// safe to run repeatedly: rows already partial or clocked out are not touched.
func (u *AttendanceUsecase) AutoClockOut(ctx context.Context) (*SweepResult, error) {
	now := u.localNow()
	today := now.Format("2006-01-02")
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), u.endOfDayHour, 0, 0, 0, u.loc).UTC()
	description := fmt.Sprintf("Automatically clocked out at %d:00 by system", u.endOfDayHour)

	type closed struct {
		attendance model.Attendance
		entry      *model.AttendanceLog
	}
	var done []closed
	err := u.repo.Transaction(ctx, func(tx repository.AttendanceRepository) error {
		open, err := tx.ListByDateAndStatus(ctx, today, model.AttendanceClockedIn)
		if err != nil {
			return err
		}
		for _, a := range open {
			fields := map[string]interface{}{
				"clock_out_time": endOfDay,
				"status":         model.AttendancePartial,
			}
			if a.WorkDescription == nil || *a.WorkDescription == "" {
				fields["work_description"] = autoClockOutPlaceholder
			}
			if a.Activity == nil || *a.Activity == "" {
				fields["activity"] = autoClockOutPlaceholder
			}
			ok, err := tx.UpdateIfStatus(ctx, a.ID, model.AttendanceClockedIn, fields)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}

			entry := &model.AttendanceLog{
				AttendanceID: a.ID,
				UserID:       a.UserID,
				EventType:    model.EventAutoClockOut,
				EventTime:    endOfDay,
				Description:  description,
				Activity:     strPtr(autoClockOutPlaceholder),
			}
			if err := tx.CreateLog(ctx, entry); err != nil {
				return err
			}
			a.Status = model.AttendancePartial
			done = append(done, closed{attendance: a, entry: entry})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("auto clock-out: %w", err)
	}

	for i := range done {
		u.publish(ctx, &done[i].attendance, done[i].entry)
	}
	u.log.Info().Str("date", today).Int("updated_count", len(done)).Msg("auto clock-out sweep finished")

	return &SweepResult{
		Message:      fmt.Sprintf("Auto clock-out completed for %d record(s)", len(done)),
		UpdatedCount: len(done),
		Timestamp:    now,
	}, nil
}

// RequestPermission records a leave or sick day in place of a clock-in.
func (u *AttendanceUsecase) RequestPermission(ctx context.Context, userID string, in PermissionInput) (*model.Attendance, error) {
	if _, err := time.ParseInLocation("2006-01-02", in.PermissionDate, u.loc); err != nil {
		return nil, invalid("permission_date", "invalid permission_date: use YYYY-MM-DD")
	}
	at := u.now().UTC()

	var created *model.Attendance
	var entry *model.AttendanceLog
	err := u.repo.Transaction(ctx, func(tx repository.AttendanceRepository) error {
		existing, err := tx.GetByUserAndDate(ctx, userID, in.PermissionDate)
		if err != nil && !isRecordNotFound(err) {
			return err
		}
		if existing != nil {
			return alreadyRecorded(existing.Status)
		}

		created = &model.Attendance{
			UserID:                userID,
			AttendanceDate:        in.PermissionDate,
			PermissionDate:        strPtr(in.PermissionDate),
			PermissionCategory:    strPtr(in.Category),
			PermissionDescription: strPtr(in.Description),
			Status:                model.AttendancePermission,
		}
		if err := tx.Create(ctx, created); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict(model.AttendancePermission, "Attendance for %s is already recorded", in.PermissionDate)
			}
			return err
		}

		entry = &model.AttendanceLog{
			AttendanceID: created.ID,
			UserID:       userID,
			EventType:    model.EventPermission,
			EventTime:    at,
			Description:  fmt.Sprintf("Permission requested: %s", in.Category),
			Reason:       strPtr(in.Description),
		}
		return tx.CreateLog(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	u.publish(ctx, created, entry)
	return created, nil
}

func (u *AttendanceUsecase) History(ctx context.Context, userID string, f repository.AttendanceFilter) ([]model.Attendance, error) {
	if err := u.checkPaging(&f); err != nil {
		return nil, err
	}
	return u.repo.History(ctx, []string{userID}, f)
}

// WeeklyStats summarises Monday through Friday of the current week, stopping at today.
func (u *AttendanceUsecase) WeeklyStats(ctx context.Context, userID string) (*WeeklyStats, error) {
	now := u.localNow()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, u.loc)
	monday := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	friday := monday.AddDate(0, 0, 4)
	if today.Before(friday) {
		friday = today
	}

	records, err := u.repo.ListByUserBetween(ctx, userID, monday.Format("2006-01-02"), friday.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	totalDays := 0
	for d := monday; !d.After(friday); d = d.AddDate(0, 0, 1) {
		totalDays++
	}

	var ins, outs []time.Time
	totalMinutes := 0
	for _, a := range records {
		if a.ClockInTime != nil {
			ins = append(ins, *a.ClockInTime)
		}
		if a.ClockOutTime != nil {
			outs = append(outs, *a.ClockOutTime)
		}
		if a.ClockInTime != nil && a.ClockOutTime != nil {
			totalMinutes += int(a.ClockOutTime.Sub(*a.ClockInTime).Minutes())
		}
	}

	return &WeeklyStats{
		DaysPresent:     len(records),
		TotalDays:       totalDays,
		TotalHours:      totalMinutes / 60,
		TotalMinutes:    totalMinutes % 60,
		AvgClockInTime:  averageTimeOfDay(ins, u.loc),
		AvgClockOutTime: averageTimeOfDay(outs, u.loc),
		WeekStart:       monday.Format("2006-01-02"),
		WeekEnd:         friday.Format("2006-01-02"),
	}, nil
}

func (u *AttendanceUsecase) Logs(ctx context.Context, userID, attendanceID string) ([]model.AttendanceLog, error) {
	if _, err := u.repo.GetByIDAndUser(ctx, attendanceID, userID); err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Attendance record not found")
		}
		return nil, err
	}
	return u.repo.ListLogs(ctx, attendanceID)
}

func (u *AttendanceUsecase) TeamMembers(ctx context.Context, lead *model.User) (*TeamMembers, error) {
	if lead.Role != model.RoleTeamLead {
		return nil, ErrForbidden
	}
	members, err := u.users.ListTeamMembers(ctx, lead.ID)
	if err != nil {
		return nil, err
	}
	return &TeamMembers{TeamLeadID: lead.ID, TeamLeadName: lead.Fullname, Members: members}, nil
}

func (u *AttendanceUsecase) TeamHistory(ctx context.Context, lead *model.User, f repository.AttendanceFilter) ([]model.Attendance, error) {
	if lead.Role != model.RoleTeamLead {
		return nil, ErrForbidden
	}
	if err := u.checkPaging(&f); err != nil {
		return nil, err
	}
	members, err := u.users.ListTeamMembers(ctx, lead.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	f.Asc = true
	return u.repo.History(ctx, ids, f)
}

func (u *AttendanceUsecase) publish(ctx context.Context, a *model.Attendance, entry *model.AttendanceLog) {
	if a == nil || entry == nil {
		return
	}
	err := u.events.PublishAttendance(ctx, event.AttendanceEvent{
		AttendanceID:   a.ID,
		UserID:         a.UserID,
		AttendanceDate: a.AttendanceDate,
		EventType:      entry.EventType,
		Status:         a.Status,
		EventTime:      entry.EventTime,
		Description:    entry.Description,
	})
	if err != nil {
		u.log.Warn().Err(err).Str("attendance_id", a.ID).Str("event_type", entry.EventType).Msg("publish attendance event failed")
	}
}

// checkPaging applies the default limit and validates the filter. A month
// without a year means that month of the current year.
func (u *AttendanceUsecase) checkPaging(f *repository.AttendanceFilter) error {
	if f.Limit == 0 {
		f.Limit = 30
	}
	if f.Limit < 1 || f.Limit > 100 {
		return invalid("limit", "limit must be between 1 and 100")
	}
	if f.Offset < 0 {
		return invalid("offset", "offset must be >= 0")
	}
	if f.Month != 0 && (f.Month < 1 || f.Month > 12) {
		return invalid("month", "month must be between 1 and 12")
	}
	if f.Year != 0 && (f.Year < 2000 || f.Year > 2100) {
		return invalid("year", "year must be between 2000 and 2100")
	}
	if f.Month != 0 && f.Year == 0 {
		f.Year = u.localNow().Year()
	}
	return nil
}

// averageTimeOfDay averages local clock times and formats them like "03:04 PM".
func averageTimeOfDay(times []time.Time, loc *time.Location) *string {
	if len(times) == 0 {
		return nil
	}
	total := 0
	for _, t := range times {
		t = t.In(loc)
		total += t.Hour()*3600 + t.Minute()*60 + t.Second()
	}
	avg := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(total/len(times)) * time.Second)
	s := avg.Format("03:04 PM")
	return &s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func strPtr(s string) *string {
	return &s
}
