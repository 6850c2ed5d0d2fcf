package logger

import (
	"assessment_backend/internal/config"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want zapcore.Level
	}{
		{"debug mode", config.Config{Server: config.ServerConfig{Mode: "debug"}}, zapcore.DebugLevel},
		{"release mode", config.Config{Server: config.ServerConfig{Mode: "release"}}, zapcore.InfoLevel},
		{"explicit level wins", config.Config{Server: config.ServerConfig{Mode: "debug"}, Log: config.LogConfig{Level: "warn"}}, zapcore.WarnLevel},
		{"invalid level ignored", config.Config{Server: config.ServerConfig{Mode: "release"}, Log: config.LogConfig{Level: "loud"}}, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Level(&tt.cfg))
		})
	}
}

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := New(&config.Config{Server: config.ServerConfig{Mode: "release"}, Log: config.LogConfig{File: path}})

	log.Info("question selected")
	log.Debug("hidden at info level")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"question selected"`)
	assert.Contains(t, string(data), `"service":"assessment-backend"`)
	assert.NotContains(t, string(data), "hidden at info level")
}
