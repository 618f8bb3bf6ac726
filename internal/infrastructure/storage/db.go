package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tinytodo/backend/internal/infrastructure/config"
	"github.com/tinytodo/backend/internal/infrastructure/log"
	_ "modernc.org/sqlite"
)

// schemaSQL todos 表及 updated_at 触发器
// 触发器在每次 UPDATE 后刷新 updated_at，即使写入的值没有变化
// SQLite 默认关闭 recursive_triggers，触发器内部的 UPDATE 不会再次触发自身
const schemaSQL = `
CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT (datetime('now')),
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TRIGGER IF NOT EXISTS todos_updated_at
AFTER UPDATE ON todos
BEGIN
	UPDATE todos SET updated_at = datetime('now') WHERE id = NEW.id;
END;`

// dsn 构造 modernc sqlite 连接串
// busy_timeout 让并发写入等待锁而不是立即失败，WAL 允许读写并发
func dsn(path string) string {
	return fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
}

// OpenDB 打开数据库连接
func OpenDB(path string) (*sql.DB, error) {
	// 确保目录存在
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// InitSchema 幂等创建表结构和触发器
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create todos schema: %w", err)
	}
	return nil
}

// ProvideDB 打开数据库并初始化表结构（供 Wire 使用）
// 连接在进程内共享，由 App.Stop 关闭
func ProvideDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	logger := log.NewModuleLogger("storage", "db")

	db, err := OpenDB(cfg.Path)
	if err != nil {
		return nil, err
	}

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database ready", "path", cfg.Path)
	return db, nil
}
