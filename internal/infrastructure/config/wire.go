package config

import "github.com/google/wire"

// ProviderSet 配置 ProviderSet
// *Config 由注入器参数提供（main 在单例锁检查前已加载配置）
var ProviderSet = wire.NewSet(
	NewDatabaseConfig,
	NewServerConfig,
)
