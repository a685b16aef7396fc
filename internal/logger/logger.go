package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"orbit-hr-backend/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/lumberjack.v2"
)

// Init configures the global zerolog logger and returns it.
func Init(cfg config.LogConfig) zerolog.Logger {
	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, os.Stdout)
	}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		})
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Str("service", "orbit-hr-backend").Logger()
	log.Info().Str("level", cfg.Level).Str("file", cfg.File).Msg("logger initialized")
	return log.Logger
}

func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
