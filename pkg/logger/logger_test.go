package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-lookup/pkg/logger"
)

func TestNewFileLogger_WritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "http.log")

	l, err := logger.NewFileLogger(path)
	require.NoError(t, err)

	l.Info("provider request completed")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"provider request completed"`)
}

func TestNewLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := logger.NewLogger(path, "weather-lookup")
	require.NoError(t, err)

	hl := logger.WithComponent(l, "history")
	hl.Info().Msg("history ready")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"history"`)
	assert.Contains(t, string(data), `"service":"weather-lookup"`)
}
