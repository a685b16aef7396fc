package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"orbit-hr-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "Asia/Jakarta", cfg.Server.Timezone)
	assert.Equal(t, 18, cfg.Attendance.EndOfDayHour)
	assert.Equal(t, 15*time.Minute, cfg.Dashboard.CacheTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "server:\n  port: 8080\n  timezone: UTC\ndashboard:\n  cache_ttl: 5m\nattendance:\n  end_of_day_hour: 17\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("APP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("DASHBOARD_CACHE_TTL", "900")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "UTC", cfg.Server.Timezone)
	assert.Equal(t, 17, cfg.Attendance.EndOfDayHour)
	assert.Equal(t, 900*time.Second, cfg.Dashboard.CacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg := Default()
	cfg.Server.Timezone = "Mars/Olympus"
	_, err := cfg.Location()
	assert.Error(t, err)

	cfg.Server.Timezone = "UTC"
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadRejectsBadEndOfDayHour(t *testing.T) {
	t.Setenv("END_OF_DAY_HOUR", "25")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConnectDBSqliteAndMigrate(t *testing.T) {
	db, err := ConnectDB(DatabaseConfig{Driver: "sqlite", DSN: "file:config_test?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable(&model.Attendance{}))
	assert.True(t, db.Migrator().HasIndex(&model.Attendance{}, "idx_attendance_user_date"))
}

func TestConnectDBUnknownDriver(t *testing.T) {
	_, err := ConnectDB(DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
