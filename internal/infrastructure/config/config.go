package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// EnvPort 监听端口环境变量名
	EnvPort = "PORT"
	// EnvDBPath 数据库文件路径环境变量名
	EnvDBPath = "DB_PATH"
	// EnvConfigFile 配置文件路径环境变量名
	EnvConfigFile = "TODO_CONFIG"
	// EnvLogLevel 日志级别环境变量名（与 log 包一致）
	EnvLogLevel = "LOG_LEVEL"

	// DefaultPort 默认监听端口
	DefaultPort = "3000"
	// DefaultConfigFile 未设置 TODO_CONFIG 时尝试读取的配置文件
	DefaultConfigFile = "todo.yaml"
	// DefaultDBFileName 默认数据库文件名（位于数据目录下）
	DefaultDBFileName = "app.sqlite"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`

	// filePath 实际加载的配置文件，未使用配置文件时为空
	filePath string
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string `yaml:"http_port"` // 形如 ":3000"，同时用于单例锁
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig 日志配置（可热更新）
type LogConfig struct {
	Level string `yaml:"level"`
}

// NewConfig 创建配置（默认值 + 环境变量，不读取配置文件）
func NewConfig() *Config {
	cfg := defaults()
	applyEnv(cfg)
	return cfg
}

// Load 按优先级加载配置：默认值 -> 配置文件 -> 环境变量
func Load() (*Config, error) {
	cfg := defaults()

	path, explicit := configFilePath()
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		} else {
			cfg.filePath = path
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// Reload 重新读取配置文件，环境变量依然优先
func (c *Config) Reload() (*Config, error) {
	cfg := defaults()
	if c.filePath != "" {
		if err := loadFile(cfg, c.filePath); err != nil {
			return nil, fmt.Errorf("reloading config file %s: %w", c.filePath, err)
		}
		cfg.filePath = c.filePath
	}
	applyEnv(cfg)
	return cfg, nil
}

// FilePath 返回加载的配置文件路径
func (c *Config) FilePath() string {
	return c.filePath
}

// defaults 默认配置
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":" + DefaultPort,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(GetDataDir(), DefaultDBFileName),
		},
		Log: LogConfig{
			Level: "",
		},
	}
}

// configFilePath 返回配置文件路径以及是否由环境变量显式指定
func configFilePath() (string, bool) {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path, true
	}
	return DefaultConfigFile, false
}

// loadFile 读取 YAML 配置文件覆盖到 cfg 上
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}
	cfg.Server.HTTPPort = normalizePort(cfg.Server.HTTPPort)
	return nil
}

// applyEnv 环境变量覆盖
func applyEnv(cfg *Config) {
	if port := os.Getenv(EnvPort); port != "" {
		cfg.Server.HTTPPort = normalizePort(port)
	}
	if path := os.Getenv(EnvDBPath); path != "" {
		cfg.Database.Path = path
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = level
	}
}

// normalizePort "3000" -> ":3000"，已带主机或冒号的保持不变
func normalizePort(port string) string {
	if port == "" || strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}
