package wire

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tinytodo/backend/internal/infrastructure/config"
	applog "github.com/tinytodo/backend/internal/infrastructure/log"
	"github.com/tinytodo/backend/internal/infrastructure/watcher"
	"github.com/tinytodo/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer  *interfaces.HTTPServer
	MCPServer   *interfaces.MCPServer
	fileWatcher *watcher.FileWatcher
	db          *sql.DB
	logger      *slog.Logger

	// serveErr HTTP 服务异常退出时写入
	serveErr chan error
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	fileWatcher *watcher.FileWatcher,
	db *sql.DB,
) *App {
	return &App{
		HTTPServer:  httpServer,
		MCPServer:   mcpServer,
		fileWatcher: fileWatcher,
		db:          db,
		logger:      applog.NewModuleLogger("app", "main"),
		serveErr:    make(chan error, 1),
	}
}

// Start 启动所有服务
func (a *App) Start() error {
	a.logger.Info("Starting tinytodo backend application")

	// 配置文件中的日志级别优先于启动时的环境变量默认值
	if a.fileWatcher != nil {
		a.applyConfig(a.fileWatcher.Current())

		a.fileWatcher.OnReload(a.applyConfig)
		if err := a.fileWatcher.Start(); err != nil {
			a.logger.Error("Failed to start config watcher",
				"error", err,
			)
		}
	}

	if err := a.MCPServer.Start(); err != nil {
		return err
	}

	// 启动 HTTP 服务器（goroutine）
	go func() {
		if err := a.HTTPServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Failed to start HTTP server",
				"error", err,
			)
			a.serveErr <- err
		}
	}()

	a.logger.Info("tinytodo backend application started successfully",
		"addr", a.HTTPServer.Addr(),
	)
	return nil
}

// Errors HTTP 服务异常退出时可读
func (a *App) Errors() <-chan error {
	return a.serveErr
}

// applyConfig 应用可热更新的配置项
func (a *App) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	applog.SetLevel(cfg.Log.Level)
	a.logger.Debug("Config applied",
		"log_level", applog.Level().String(),
	)
}

// Stop 停止所有服务
func (a *App) Stop() error {
	a.logger.Info("Stopping tinytodo backend application")

	// 停止配置监听器
	if a.fileWatcher != nil {
		a.fileWatcher.Stop()
	}

	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		return err
	}
	if err := a.MCPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop MCP server",
			"error", err,
		)
		return err
	}

	// 关闭数据库连接
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database connection",
				"error", err,
			)
			return err
		}
	}

	a.logger.Info("tinytodo backend application stopped")
	return nil
}
