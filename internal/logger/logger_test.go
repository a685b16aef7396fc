package logger

import (
	"os"
	"path/filepath"
	"testing"

	"orbit-hr-backend/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("whatever"))
}

func TestInitWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l := Init(config.LogConfig{Level: "info", File: file, MaxSizeMB: 1})
	l.Info().Str("component", "test").Msg("hello")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"component":"test"`)
}
