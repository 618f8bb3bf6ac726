package log

import (
	"os"
	"strconv"
	"strings"
)

// 日志相关环境变量
const (
	EnvLevel     = "LOG_LEVEL"
	EnvFormat    = "LOG_FORMAT"
	EnvAddSource = "LOG_ADD_SOURCE"
	EnvMode      = "ENV"
)

// Config 日志配置
type Config struct {
	// Level 日志级别：debug, info, warn, error
	Level string

	// Format 日志格式：console, json, text
	Format string

	// AddSource 是否添加源文件信息（开发环境）
	AddSource bool
}

// NewConfigFromEnv 从环境变量创建配置
func NewConfigFromEnv() *Config {
	cfg := &Config{
		Level:     getEnvWithDefault(EnvLevel, "info"),
		Format:    getEnvWithDefault(EnvFormat, "console"),
		AddSource: getEnvBool(EnvAddSource, false),
	}

	// 在开发环境自动设置
	if isDevelopment() {
		cfg.Level = "debug"
		cfg.Format = "console"
		cfg.AddSource = true
	}

	return cfg
}

// isDevelopment 检查是否为开发环境
func isDevelopment() bool {
	env := getEnvWithDefault(EnvMode, "production")
	return strings.ToLower(env) == "development"
}

// getEnvWithDefault 获取环境变量，带默认值
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool 获取布尔型环境变量
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}
