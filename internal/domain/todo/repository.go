package todo

import "context"

// Repository 待办事项仓储接口
// 仓储不产生领域错误：查询不到返回 nil, nil，更新/删除影响 0 行不视为错误
type Repository interface {
	// FindAll 获取所有待办事项，按 ID 倒序
	FindAll(ctx context.Context) ([]*Todo, error)

	// FindByID 根据 ID 查找待办事项
	FindByID(ctx context.Context, id int64) (*Todo, error)

	// Insert 插入待办事项，返回新 ID
	Insert(ctx context.Context, text string) (int64, error)

	// Update 按 COALESCE 语义部分更新
	Update(ctx context.Context, id int64, patch Patch) error

	// Delete 删除待办事项
	Delete(ctx context.Context, id int64) error

	// DeleteCompleted 删除所有已完成的待办事项
	DeleteCompleted(ctx context.Context) (int64, error)
}
