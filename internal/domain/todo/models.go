package todo

import (
	"strings"
	"unicode"
)

// Todo 待办事项实体
// CreatedAt / UpdatedAt 为存储层 datetime('now') 生成的 UTC 字符串（YYYY-MM-DD HH:MM:SS），
// 应用层只透传，不做时区转换
type Todo struct {
	ID        int64  // 自增 ID，删除后不复用
	Text      string // 待办内容（已去除首尾空白）
	Completed bool   // 是否完成
	CreatedAt string // 创建时间
	UpdatedAt string // 最后更新时间（由触发器维护）
}

// Patch 部分更新
// nil 字段表示保持存储中的原值（COALESCE 语义）
type Patch struct {
	Text      *string
	Completed *bool
}

// IsEmpty 是否没有任何需要更新的字段
func (p Patch) IsEmpty() bool {
	return p.Text == nil && p.Completed == nil
}

// Normalize 去除 Text 首尾空白，返回新的 Patch
func (p Patch) Normalize() Patch {
	if p.Text != nil {
		trimmed := NormalizeText(*p.Text)
		p.Text = &trimmed
	}
	return p
}

// NormalizeText 规范化待办内容
// 首尾的 Unicode 空白和 BOM (U+FEFF) 均被去除，U+0085 保留
func NormalizeText(text string) string {
	return strings.TrimFunc(text, isTrimSpace)
}

func isTrimSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}
