package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tinytodo/backend/internal/domain/todo"
)

const selectColumns = `SELECT id, text, completed, created_at, updated_at FROM todos`

// todoRepository 待办事项 SQLite 仓储实现
type todoRepository struct {
	db *sql.DB
}

// NewTodoRepository 创建待办事项仓储实例
// 表结构由 ProvideDB / InitSchema 负责创建
func NewTodoRepository(db *sql.DB) todo.Repository {
	return &todoRepository{db: db}
}

// rowScanner *sql.Row 与 *sql.Rows 的公共扫描接口
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTodo 扫描一行并将 completed 从 0/1 投影为 bool
func scanTodo(s rowScanner) (*todo.Todo, error) {
	var item todo.Todo
	var completed int64

	if err := s.Scan(
		&item.ID,
		&item.Text,
		&completed,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	done, err := completedFromInt(completed)
	if err != nil {
		return nil, fmt.Errorf("todo %d: %w", item.ID, err)
	}
	item.Completed = done

	return &item, nil
}

// completedFromInt 0 -> false, 1 -> true，其他值视为数据损坏
func completedFromInt(v int64) (bool, error) {
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("invalid completed value %d", v)
	}
}

// completedToInt bool -> 0/1
func completedToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

// FindAll 获取所有待办事项
func (r *todoRepository) FindAll(ctx context.Context) ([]*todo.Todo, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	items := make([]*todo.Todo, 0)
	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return items, nil
}

// FindByID 根据 ID 查找待办事项
func (r *todoRepository) FindByID(ctx context.Context, id int64) (*todo.Todo, error) {
	item, err := scanTodo(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query todo: %w", err)
	}
	return item, nil
}

// Insert 插入待办事项
func (r *todoRepository) Insert(ctx context.Context, text string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO todos (text) VALUES (?)`, text)
	if err != nil {
		return 0, fmt.Errorf("failed to insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted todo id: %w", err)
	}
	return id, nil
}

// Update 部分更新待办事项
func (r *todoRepository) Update(ctx context.Context, id int64, patch todo.Patch) error {
	var text sql.NullString
	if patch.Text != nil {
		text = sql.NullString{String: *patch.Text, Valid: true}
	}

	var completed sql.NullInt64
	if patch.Completed != nil {
		completed = sql.NullInt64{Int64: completedToInt(*patch.Completed), Valid: true}
	}

	query := `
		UPDATE todos
		SET text = COALESCE(?, text),
		    completed = COALESCE(?, completed)
		WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, text, completed, id); err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	return nil
}

// Delete 删除待办事项
func (r *todoRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

// DeleteCompleted 删除所有已完成的待办事项
func (r *todoRepository) DeleteCompleted(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE completed = 1`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete completed todos: %w", err)
	}
	return result.RowsAffected()
}

// 编译时检查接口实现
var _ todo.Repository = (*todoRepository)(nil)
