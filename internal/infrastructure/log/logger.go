package log

import (
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/tinytodo/backend/internal/infrastructure/log/handler"
)

// 全局 logger 实例
var (
	defaultLogger *slog.Logger
	levelVar      = new(slog.LevelVar)
)

// Init 初始化日志系统
func Init(cfg *Config) {
	if cfg == nil {
		cfg = NewConfigFromEnv()
	}

	levelVar.Set(parseLevel(cfg.Level))

	// 创建 handler options，级别可通过 SetLevel 动态调整
	opts := &slog.HandlerOptions{
		Level: levelVar,
	}

	// 在开发环境添加源文件信息
	if cfg.AddSource {
		opts.AddSource = true
	}

	// 根据格式选择处理器
	var logHandler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stdout, opts)
	case "text":
		logHandler = slog.NewTextHandler(os.Stdout, opts)
	default:
		// 仅在终端输出时着色
		logHandler = handler.NewConsoleHandler(os.Stdout, opts, isatty.IsTerminal(os.Stdout.Fd()))
	}

	// 添加服务标识
	defaultLogger = slog.New(logHandler.WithAttrs([]slog.Attr{
		slog.String("service", "tinytodo-backend"),
	}))

	slog.SetDefault(defaultLogger)
}

// GetLogger 获取默认 logger
func GetLogger() *slog.Logger {
	if defaultLogger == nil {
		// 未初始化，使用默认配置
		Init(nil)
	}
	return defaultLogger
}

// With 创建带有额外字段的 logger
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

// NewModuleLogger 为特定模块创建 logger
func NewModuleLogger(module, component string) *slog.Logger {
	return GetLogger().With(
		slog.String("module", module),
		slog.String("component", component),
	)
}

// SetLevel 运行时调整日志级别（配置热更新使用）
// 空字符串保持当前级别
func SetLevel(level string) {
	if level == "" {
		return
	}
	levelVar.Set(parseLevel(level))
}

// Level 返回当前日志级别
func Level() slog.Level {
	return levelVar.Level()
}

// IsDebugMode 检查是否为调试模式
func IsDebugMode() bool {
	return levelVar.Level() <= slog.LevelDebug
}

// parseLevel 解析日志级别
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
