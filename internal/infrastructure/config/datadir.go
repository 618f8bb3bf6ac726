package config

import (
	"os"
	"sync"
)

const (
	// EnvDataDir 数据目录环境变量名
	EnvDataDir = "TODO_DATA_DIR"
	// DefaultDataDirName 默认数据目录（相对当前工作目录）
	DefaultDataDirName = "data"
)

var (
	dataDirOnce sync.Once
	dataDirPath string
)

// GetDataDir 获取数据根目录
// 优先读取 TODO_DATA_DIR 环境变量，默认 ./data
// 目录本身由 storage.OpenDB 按需创建
func GetDataDir() string {
	dataDirOnce.Do(func() {
		if dir := os.Getenv(EnvDataDir); dir != "" {
			dataDirPath = dir
		} else {
			dataDirPath = DefaultDataDirName
		}
	})
	return dataDirPath
}

// ResetDataDir 重置数据目录缓存（仅用于测试）
func ResetDataDir() {
	dataDirOnce = sync.Once{}
	dataDirPath = ""
}
