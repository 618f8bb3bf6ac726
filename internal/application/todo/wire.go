package todo

import "github.com/google/wire"

// ProviderSet 待办事项应用服务 ProviderSet
var ProviderSet = wire.NewSet(
	NewService,
)
