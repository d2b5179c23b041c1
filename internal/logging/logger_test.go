package logging

import (
	"os"
	"path/filepath"
	"testing"

	"FoodDelivery/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "неверный уровень логирования")
}

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewLogger(config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)

	logger.Info("сервер запущен", zap.String("addr", ":5000"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"сервер запущен"`)
	assert.Contains(t, string(data), `"addr":":5000"`)
	assert.Contains(t, string(data), `"level":"info"`)
}

func TestNewLogger_LevelFiltersFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewLogger(config.LogConfig{Level: "warn", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Info("не должно попасть в файл")
	logger.Warn("предупреждение")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "не должно попасть в файл")
	assert.Contains(t, string(data), "предупреждение")
}
