package todo

import "errors"

// 领域错误，错误信息直接作为 API 的 error 字段返回
var (
	// ErrTextRequired 内容为空
	ErrTextRequired = errors.New("text is required")
	// ErrNoFieldsToUpdate 更新请求中没有可用字段
	ErrNoFieldsToUpdate = errors.New("No fields to update")
	// ErrNotFound 待办不存在
	ErrNotFound = errors.New("Not found")
)
