// Package watcher 监听配置文件变更并触发热更新
package watcher

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tinytodo/backend/internal/infrastructure/config"
	"github.com/tinytodo/backend/internal/infrastructure/log"
)

// WatchConfig FileWatcher 配置
type WatchConfig struct {
	// DebounceDelay 防抖延迟，编辑器保存时往往连续产生多个事件
	DebounceDelay time.Duration
}

// DefaultWatchConfig 返回默认配置
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		DebounceDelay: 300 * time.Millisecond,
	}
}

// ReloadFunc 配置重新加载后的回调
type ReloadFunc func(cfg *config.Config)

// FileWatcher 配置文件监听器
// 监听配置文件所在目录（编辑器常以“写临时文件再重命名”的方式保存），
// 只处理目标文件的写入/创建事件
type FileWatcher struct {
	config  WatchConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu       sync.Mutex
	current  *config.Config
	onReload ReloadFunc

	// 防抖相关
	debounceTimer *time.Timer
	debounceMu    sync.Mutex

	// 控制
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewFileWatcher 创建配置文件监听器
func NewFileWatcher(watchConfig WatchConfig, cfg *config.Config) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		config:  watchConfig,
		watcher: watcher,
		logger:  log.NewModuleLogger("watcher", "config_watcher"),
		current: cfg,
		stopCh:  make(chan struct{}),
	}, nil
}

// OnReload 设置重新加载回调，需在 Start 之前调用
func (fw *FileWatcher) OnReload(fn ReloadFunc) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.onReload = fn
}

// Current 返回最近一次加载的配置
func (fw *FileWatcher) Current() *config.Config {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.current
}

// Start 启动监听；未使用配置文件时直接返回
func (fw *FileWatcher) Start() error {
	path := fw.current.FilePath()
	if path == "" {
		fw.logger.Info("No config file loaded, config watcher disabled")
		return nil
	}

	dir := filepath.Dir(path)
	if err := fw.watcher.Add(dir); err != nil {
		return err
	}

	fw.logger.Info("Starting config watcher", "file", path)

	fw.wg.Add(1)
	go fw.watchLoop(filepath.Clean(path))

	return nil
}

// Stop 停止监听
func (fw *FileWatcher) Stop() {
	fw.stopOnce.Do(func() {
		close(fw.stopCh)
		fw.watcher.Close()
		fw.wg.Wait()

		fw.debounceMu.Lock()
		if fw.debounceTimer != nil {
			fw.debounceTimer.Stop()
		}
		fw.debounceMu.Unlock()

		fw.logger.Info("Config watcher stopped")
	})
}

// watchLoop 事件监听循环
func (fw *FileWatcher) watchLoop(target string) {
	defer fw.wg.Done()

	for {
		select {
		case <-fw.stopCh:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.scheduleReload()
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("Watcher error", "error", err)
		}
	}
}

// scheduleReload 防抖后重新加载
func (fw *FileWatcher) scheduleReload() {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.debounceTimer = time.AfterFunc(fw.config.DebounceDelay, fw.reload)
}

// reload 重新读取配置文件并通知回调
func (fw *FileWatcher) reload() {
	select {
	case <-fw.stopCh:
		return
	default:
	}

	fw.mu.Lock()
	next, err := fw.current.Reload()
	if err != nil {
		fw.mu.Unlock()
		// 保留旧配置，等待下一次修改
		fw.logger.Warn("Failed to reload config", "error", err)
		return
	}
	fw.current = next
	callback := fw.onReload
	fw.mu.Unlock()

	fw.logger.Info("Config reloaded", "file", next.FilePath())
	if callback != nil {
		callback(next)
	}
}
