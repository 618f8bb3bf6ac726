//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"
	"github.com/tinytodo/backend/internal/application"
	"github.com/tinytodo/backend/internal/infrastructure"
	"github.com/tinytodo/backend/internal/infrastructure/config"
	"github.com/tinytodo/backend/internal/interfaces"
)

// InitializeAll 初始化所有服务（HTTP + MCP）
// cfg 由 main 加载（单例检查需要在依赖图构建之前拿到端口）
func InitializeAll(cfg *config.Config) (*App, error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		application.ProviderSet,    // 应用层
		interfaces.ProviderSet,     // 接口层
		NewApp,                     // 组合所有服务的应用结构
	)
	return nil, nil
}
