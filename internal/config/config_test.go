package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
server:
  mode: debug
selection:
  over_fetch_multiplier: 0
  tags_contain_retry: true
`), 0o644))
	t.Setenv("AI_API_KEY", "sk-test")
	t.Setenv("DATABASE_HOST", "db.internal")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 3, cfg.AI.MaxAttempts)
	assert.True(t, cfg.AI.GenerationEnabled)
	assert.Equal(t, 1, cfg.Selection.OverFetchMultiplier, "multiplier is clamped to at least 1")
	assert.True(t, cfg.Selection.TagsContainRetry)
	assert.Equal(t, time.Minute, cfg.AISettings.CacheTTL())
	assert.Equal(t, 5*time.Minute, cfg.Selection.CategoryCacheTTL())
	assert.Equal(t, time.Second, cfg.AI.RateLimitBackoff())
}
