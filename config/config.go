package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	Attendance AttendanceConfig `yaml:"attendance"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	SMTP       SMTPConfig       `yaml:"smtp"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	CORSOrigins string `yaml:"cors_origins"`
	Timezone    string `yaml:"timezone"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // mysql | postgres | sqlite
	DSN    string `yaml:"dsn"`
	Debug  bool   `yaml:"debug"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type AuthConfig struct {
	JWTSecret          string        `yaml:"jwt_secret"`
	AccessTokenExpiry  time.Duration `yaml:"access_token_expiry"`
	RefreshTokenExpiry time.Duration `yaml:"refresh_token_expiry"`
}

type AttendanceConfig struct {
	EndOfDayHour     int    `yaml:"end_of_day_hour"`
	AutoClockOutCron string `yaml:"auto_clock_out_cron"`
}

type DashboardConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type KafkaConfig struct {
	Brokers         []string `yaml:"brokers"`
	TopicAttendance string   `yaml:"topic_attendance"`
	TopicStages     string   `yaml:"topic_stages"`
	ClientID        string   `yaml:"client_id"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: 3000, CORSOrigins: "*", Timezone: "Asia/Jakarta"},
		Database: DatabaseConfig{Driver: "mysql", DSN: "root:@tcp(127.0.0.1:3306)/orbit_hr?charset=utf8mb4&parseTime=True&loc=UTC"},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Auth: AuthConfig{
			JWTSecret:          "change-me",
			AccessTokenExpiry:  60 * time.Minute,
			RefreshTokenExpiry: 7 * 24 * time.Hour,
		},
		Attendance: AttendanceConfig{EndOfDayHour: 18, AutoClockOutCron: "0 0 18 * * 1-5"},
		Dashboard:  DashboardConfig{CacheTTL: 15 * time.Minute},
		Kafka:      KafkaConfig{TopicAttendance: "orbit.attendance", TopicStages: "orbit.candidate-stages", ClientID: "orbit-hr-backend"},
		SMTP:       SMTPConfig{Port: 587, From: "no-reply@example.com"},
	}
}

// Load applies, in order: defaults, the YAML file (if readable), then env overrides.
func Load(configFile string) (*Config, error) {
	c := Default()

	paths := []string{"etc/config.yaml", "/etc/orbit-hr/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		break
	}

	c.Server.Port = GetEnvAsInt("APP_PORT", c.Server.Port)
	c.Server.CORSOrigins = GetEnv("CORS_ORIGINS", c.Server.CORSOrigins)
	c.Server.Timezone = GetEnv("APP_TIMEZONE", c.Server.Timezone)
	c.Database.Driver = GetEnv("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = GetEnv("DB_DSN", c.Database.DSN)
	c.Database.Debug = GetEnvAsBool("DB_DEBUG", c.Database.Debug)
	c.Log.Level = GetEnv("LOG_LEVEL", c.Log.Level)
	c.Log.File = GetEnv("LOG_FILE", c.Log.File)
	c.Auth.JWTSecret = GetEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.AccessTokenExpiry = time.Duration(GetEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", int(c.Auth.AccessTokenExpiry/time.Minute))) * time.Minute
	c.Auth.RefreshTokenExpiry = time.Duration(GetEnvAsInt("REFRESH_TOKEN_EXPIRE_DAYS", int(c.Auth.RefreshTokenExpiry/(24*time.Hour)))) * 24 * time.Hour
	c.Attendance.EndOfDayHour = GetEnvAsInt("END_OF_DAY_HOUR", c.Attendance.EndOfDayHour)
	c.Attendance.AutoClockOutCron = GetEnv("AUTO_CLOCKOUT_CRON", c.Attendance.AutoClockOutCron)
	c.Dashboard.CacheTTL = GetEnvAsDuration("DASHBOARD_CACHE_TTL", c.Dashboard.CacheTTL)
	if brokers := GetEnv("KAFKA_BROKERS", ""); brokers != "" {
		c.Kafka.Brokers = splitList(brokers)
	}
	c.Kafka.TopicAttendance = GetEnv("KAFKA_TOPIC_ATTENDANCE", c.Kafka.TopicAttendance)
	c.Kafka.TopicStages = GetEnv("KAFKA_TOPIC_STAGES", c.Kafka.TopicStages)
	c.SMTP.Host = GetEnv("SMTP_HOST", c.SMTP.Host)
	c.SMTP.Port = GetEnvAsInt("SMTP_PORT", c.SMTP.Port)
	c.SMTP.User = GetEnv("SMTP_USER", c.SMTP.User)
	c.SMTP.Password = GetEnv("SMTP_PASSWORD", c.SMTP.Password)
	c.SMTP.From = GetEnv("SMTP_FROM", c.SMTP.From)

	if c.Attendance.EndOfDayHour < 0 || c.Attendance.EndOfDayHour > 23 {
		return nil, fmt.Errorf("end_of_day_hour must be within 0..23, got %d", c.Attendance.EndOfDayHour)
	}
	if _, err := c.Location(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Location is the zone that defines "today" for attendance and dashboard bucketing.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Server.Timezone, err)
	}
	return loc, nil
}

// Helper function to get environment variable with fallback default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get environment variable as integer with fallback
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func GetEnvAsBool(key string, fallback bool) bool {
	valueStr := GetEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

// GetEnvAsDuration accepts Go durations ("15m") or a plain number of seconds ("900").
func GetEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
