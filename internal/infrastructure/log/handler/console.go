// Package handler 控制台日志输出
package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
)

// ANSI 颜色代码
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// ConsoleHandler 控制台日志处理器
// 单行输出：级别 时间 [module/component] 消息 key=value...
type ConsoleHandler struct {
	opts  slog.HandlerOptions
	color bool

	mu  *sync.Mutex
	out io.Writer

	module    string
	component string
	attrs     []slog.Attr
	group     string
}

// NewConsoleHandler 创建控制台处理器，color 为 false 时不输出 ANSI 颜色
func NewConsoleHandler(out io.Writer, opts *slog.HandlerOptions, color bool) *ConsoleHandler {
	h := &ConsoleHandler{
		out:   out,
		color: color,
		mu:    &sync.Mutex{},
	}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

// Enabled 检查日志级别是否启用
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle 处理日志记录
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	level := r.Level.String()
	if h.color {
		level = levelColor(r.Level) + level + colorReset
	}
	fmt.Fprintf(&buf, "%-5s %s", level, r.Time.Format(timeFormat))

	module, component := h.module, h.component
	var recordAttrs []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "module":
			module = a.Value.String()
		case "component":
			component = a.Value.String()
		default:
			recordAttrs = append(recordAttrs, a)
		}
		return true
	})

	switch {
	case module != "" && component != "":
		fmt.Fprintf(&buf, " [%s/%s]", module, component)
	case module != "":
		fmt.Fprintf(&buf, " [%s]", module)
	}

	buf.WriteString(" ")
	buf.WriteString(r.Message)

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			fmt.Fprintf(&buf, " source=%s:%d", frame.File, frame.Line)
		}
	}

	for _, a := range h.attrs {
		writeAttr(&buf, "", a)
	}
	for _, a := range recordAttrs {
		writeAttr(&buf, h.group, a)
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

// WithAttrs 返回带有额外属性的处理器，module/component 提升为前缀
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		switch {
		case a.Key == "module" && h.group == "":
			clone.module = a.Value.String()
		case a.Key == "component" && h.group == "":
			clone.component = a.Value.String()
		default:
			clone.attrs = append(clone.attrs, slog.Attr{Key: qualify(h.group, a.Key), Value: a.Value})
		}
	}
	return &clone
}

// WithGroup 返回带有分组的处理器，分组以 group.key 形式展开
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = qualify(h.group, name)
	return &clone
}

func writeAttr(buf *bytes.Buffer, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := qualify(group, a.Key)
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(buf, key, ga)
		}
		return
	}
	fmt.Fprintf(buf, " %s=%v", key, a.Value.Any())
}

func qualify(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

// levelColor 返回日志级别对应的颜色
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}
