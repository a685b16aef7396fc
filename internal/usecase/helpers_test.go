package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"orbit-hr-backend/config"
	"orbit-hr-backend/internal/event"
	"orbit-hr-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var wib = time.FixedZone("WIB", 7*60*60)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.ConnectDB(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *model.User {
	t.Helper()
	u := &model.User{
		Username:     username,
		PasswordHash: "x",
		Fullname:     username + " fullname",
		EmployeeID:   "EMP-" + username,
		Email:        username + "@example.com",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// recorder collects published events.
type recorder struct {
	mu         sync.Mutex
	attendance []event.AttendanceEvent
	stages     []event.StageChangedEvent
	err        error
}

func (r *recorder) PublishAttendance(_ context.Context, e event.AttendanceEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attendance = append(r.attendance, e)
	return r.err
}

func (r *recorder) PublishStageChanged(_ context.Context, e event.StageChangedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, e)
	return r.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T { return &v }
