package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinytodo/backend/internal/infrastructure/config"
)

func writeConfig(t *testing.T, path, level string) {
	t.Helper()
	content := "log:\n  level: " + level + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFileWatcher_ReloadOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.yaml")
	writeConfig(t, path, "info")

	t.Setenv(config.EnvConfigFile, path)
	t.Setenv(config.EnvLogLevel, "")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, path, cfg.FilePath())

	fw, err := NewFileWatcher(WatchConfig{DebounceDelay: 10 * time.Millisecond}, cfg)
	require.NoError(t, err)
	defer fw.Stop()

	var level atomic.Value
	fw.OnReload(func(c *config.Config) {
		level.Store(c.Log.Level)
	})
	require.NoError(t, fw.Start())

	writeConfig(t, path, "debug")

	require.Eventually(t, func() bool {
		v, _ := level.Load().(string)
		return v == "debug"
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, "debug", fw.Current().Log.Level)
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.yaml")
	writeConfig(t, path, "info")

	t.Setenv(config.EnvConfigFile, path)
	t.Setenv(config.EnvLogLevel, "")

	cfg, err := config.Load()
	require.NoError(t, err)

	fw, err := NewFileWatcher(WatchConfig{DebounceDelay: 10 * time.Millisecond}, cfg)
	require.NoError(t, err)
	defer fw.Stop()

	var calls atomic.Int32
	fw.OnReload(func(*config.Config) { calls.Add(1) })
	require.NoError(t, fw.Start())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestFileWatcher_DisabledWithoutConfigFile(t *testing.T) {
	t.Setenv(config.EnvConfigFile, "")
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.FilePath())

	fw, err := NewFileWatcher(DefaultWatchConfig(), cfg)
	require.NoError(t, err)

	require.NoError(t, fw.Start())
	fw.Stop()
	fw.Stop() // 重复停止不应 panic
}
