package todo

import (
	"context"
	"log/slog"

	domainTodo "github.com/tinytodo/backend/internal/domain/todo"
	"github.com/tinytodo/backend/internal/infrastructure/log"
)

// Service 待办事项应用服务
// 负责内容规范化和字段校验，HTTP 与 MCP 两个入口共用同一套语义。
// 写入后的回查是独立的第二条语句，不在同一事务中：
// 并发删除发生在两者之间时回查返回 ErrNotFound
type Service struct {
	repo   domainTodo.Repository
	logger *slog.Logger
}

// NewService 创建待办事项应用服务
func NewService(repo domainTodo.Repository) *Service {
	return &Service{
		repo:   repo,
		logger: log.NewModuleLogger("todo", "service"),
	}
}

// List 获取全部待办，按 ID 倒序
func (s *Service) List(ctx context.Context) ([]*domainTodo.Todo, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domainTodo.Todo{}
	}
	return items, nil
}

// Get 获取单个待办
func (s *Service) Get(ctx context.Context, id int64) (*domainTodo.Todo, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domainTodo.ErrNotFound
	}
	return item, nil
}

// Create 创建待办
func (s *Service) Create(ctx context.Context, text string) (*domainTodo.Todo, error) {
	text = domainTodo.NormalizeText(text)
	if text == "" {
		return nil, domainTodo.ErrTextRequired
	}

	id, err := s.repo.Insert(ctx, text)
	if err != nil {
		return nil, err
	}

	log.FromContext(ctx, s.logger).Debug("Todo created", "id", id)
	return s.Get(ctx, id)
}

// Update 部分更新待办
func (s *Service) Update(ctx context.Context, id int64, patch domainTodo.Patch) (*domainTodo.Todo, error) {
	if patch.IsEmpty() {
		return nil, domainTodo.ErrNoFieldsToUpdate
	}

	patch = patch.Normalize()
	if patch.Text != nil && *patch.Text == "" {
		return nil, domainTodo.ErrTextRequired
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, err
	}

	log.FromContext(ctx, s.logger).Debug("Todo updated", "id", id)
	return s.Get(ctx, id)
}

// Delete 删除待办，不存在时同样视为成功
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.FromContext(ctx, s.logger).Debug("Todo deleted", "id", id)
	return nil
}

// ClearCompleted 清除所有已完成待办，返回删除数量
func (s *Service) ClearCompleted(ctx context.Context) (int64, error) {
	count, err := s.repo.DeleteCompleted(ctx)
	if err != nil {
		return 0, err
	}
	log.FromContext(ctx, s.logger).Info("Completed todos cleared", "count", count)
	return count, nil
}
