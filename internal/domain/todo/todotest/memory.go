// Package todotest 提供测试用的内存仓储实现
package todotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tinytodo/backend/internal/domain/todo"
)

// timeLayout 与 SQLite datetime('now') 输出格式一致
const timeLayout = "2006-01-02 15:04:05"

// MemoryRepository 内存版 todo.Repository
// 时钟每次取值前进一秒，便于断言 updated_at 严格递增
type MemoryRepository struct {
	mu     sync.Mutex
	items  map[int64]*todo.Todo
	nextID int64
	clock  time.Time

	// Err 非空时所有方法直接返回该错误，用于模拟存储故障
	Err error
}

// NewMemoryRepository 创建内存仓储
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items:  make(map[int64]*todo.Todo),
		nextID: 1,
		clock:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *MemoryRepository) now() string {
	m.clock = m.clock.Add(time.Second)
	return m.clock.Format(timeLayout)
}

// FindAll 获取所有待办事项
func (m *MemoryRepository) FindAll(ctx context.Context) ([]*todo.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	items := make([]*todo.Todo, 0, len(m.items))
	for _, item := range m.items {
		copied := *item
		items = append(items, &copied)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

// FindByID 根据 ID 查找待办事项
func (m *MemoryRepository) FindByID(ctx context.Context, id int64) (*todo.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

// Insert 插入待办事项
func (m *MemoryRepository) Insert(ctx context.Context, text string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}

	id := m.nextID
	m.nextID++
	ts := m.now()
	m.items[id] = &todo.Todo{
		ID:        id,
		Text:      text,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	return id, nil
}

// Update 部分更新待办事项
func (m *MemoryRepository) Update(ctx context.Context, id int64, patch todo.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	item, ok := m.items[id]
	if !ok {
		return nil
	}
	if patch.Text != nil {
		item.Text = *patch.Text
	}
	if patch.Completed != nil {
		item.Completed = *patch.Completed
	}
	item.UpdatedAt = m.now()
	return nil
}

// Delete 删除待办事项
func (m *MemoryRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	delete(m.items, id)
	return nil
}

// DeleteCompleted 删除所有已完成的待办事项
func (m *MemoryRepository) DeleteCompleted(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}

	var count int64
	for id, item := range m.items {
		if item.Completed {
			delete(m.items, id)
			count++
		}
	}
	return count, nil
}

var _ todo.Repository = (*MemoryRepository)(nil)
