package watcher

import (
	"github.com/google/wire"
	"github.com/tinytodo/backend/internal/infrastructure/config"
)

// ProviderSet 配置监听 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideFileWatcher,
)

// ProvideFileWatcher 提供配置文件监听器实例
func ProvideFileWatcher(cfg *config.Config) (*FileWatcher, error) {
	return NewFileWatcher(DefaultWatchConfig(), cfg)
}
