package configwatcher

import (
	"assessment_backend/internal/config"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: {}\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loaded := make(chan string, 1)
	reloaded := make(chan *config.Config, 1)
	load := func(d string) (*config.Config, error) {
		select {
		case loaded <- d:
		default:
		}
		return &config.Config{Server: config.ServerConfig{Port: "9090"}}, nil
	}

	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, load, func(cfg *config.Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// 等待 watcher 启动后再写入
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, dir, filepath.Clean(<-loaded))
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
