// Package tui 终端待办视图
// 与浏览器页面相同，每次修改后都从服务端完整重新拉取列表，不维护本地缓存
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytodo/backend/internal/client"
)

// API TUI 依赖的待办接口，由 client.Client 实现
type API interface {
	List(ctx context.Context) ([]client.Todo, error)
	Create(ctx context.Context, text string) (*client.Todo, error)
	Update(ctx context.Context, id int64, req client.UpdateRequest) (*client.Todo, error)
	Delete(ctx context.Context, id int64) error
	ClearCompleted(ctx context.Context) (int64, error)
}

var errEmptyText = errors.New("text cannot be empty")

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

// todosMsg 重新拉取得到的完整列表
type todosMsg struct {
	items []client.Todo
}

type errMsg struct {
	err error
}

// listItem 适配 bubbles/list.Item
type listItem struct {
	todo client.Todo
}

func (i listItem) Title() string       { return i.todo.Text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Text }

// itemDelegate 单行渲染
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}

	box := mutedStyle.Render(boxUnchecked)
	text := it.todo.Text
	if it.todo.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

// Model bubbletea 模型
type Model struct {
	api     API
	timeout time.Duration

	list  list.Model
	input textinput.Model
	keys  keyMap

	mode   mode
	editID int64
	err    error
}

// New 创建模型
func New(api API) Model {
	keys := defaultKeyMap()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = titleStyle.Render("Todos")
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 500

	return Model{
		api:     api,
		timeout: client.DefaultTimeout,
		list:    l,
		input:   ti,
		keys:    keys,
	}
}

// Init 启动时拉取列表
func (m Model) Init() tea.Cmd {
	return m.refresh(nil)
}

// refresh 先执行修改（可为空），再完整拉取列表
func (m Model) refresh(op func(ctx context.Context) error) tea.Cmd {
	api := m.api
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if op != nil {
			if err := op(ctx); err != nil {
				return errMsg{err: err}
			}
		}
		items, err := api.List(ctx)
		if err != nil {
			return errMsg{err: err}
		}
		return todosMsg{items: items}
	}
}

// Update 实现 tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-6)
		m.input.Width = msg.Width - 8
		return m, nil
	case todosMsg:
		m.err = nil
		m.list.Title = header(msg.items)
		items := make([]list.Item, 0, len(msg.items))
		for _, t := range msg.items {
			items = append(items, listItem{todo: t})
		}
		return m, m.list.SetItems(items)
	case errMsg:
		m.err = msg.err
		return m, nil
	}

	if m.mode != modeBrowse {
		return m.updateInput(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Add):
			m.mode = modeAdd
			m.input.SetValue("")
			m.input.Placeholder = "What needs doing?"
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Edit):
			if it, ok := m.selected(); ok {
				m.mode = modeEdit
				m.editID = it.ID
				m.input.SetValue(it.Text)
				m.input.CursorEnd()
				return m, m.input.Focus()
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			if it, ok := m.selected(); ok {
				completed := !it.Completed
				return m, m.refresh(func(ctx context.Context) error {
					_, err := m.api.Update(ctx, it.ID, client.UpdateRequest{Completed: &completed})
					return err
				})
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if it, ok := m.selected(); ok {
				return m, m.refresh(func(ctx context.Context) error {
					return m.api.Delete(ctx, it.ID)
				})
			}
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			return m, m.refresh(func(ctx context.Context) error {
				_, err := m.api.ClearCompleted(ctx)
				return err
			})
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refresh(nil)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateInput 新增/编辑模式下的按键处理
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			m.closeInput()
			return m, nil
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				m.err = errEmptyText
				return m, nil
			}

			var op func(ctx context.Context) error
			if m.mode == modeAdd {
				op = func(ctx context.Context) error {
					_, err := m.api.Create(ctx, text)
					return err
				}
			} else {
				id := m.editID
				op = func(ctx context.Context) error {
					_, err := m.api.Update(ctx, id, client.UpdateRequest{Text: &text})
					return err
				}
			}
			m.closeInput()
			return m, m.refresh(op)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.editID = 0
	m.err = nil
	m.input.SetValue("")
	m.input.Blur()
}

func (m Model) selected() (client.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return client.Todo{}, false
	}
	return it.todo, true
}

// Todos 当前展示的列表
func (m Model) Todos() []client.Todo {
	out := make([]client.Todo, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if li, ok := it.(listItem); ok {
			out = append(out, li.todo)
		}
	}
	return out
}

// Err 最近一次错误
func (m Model) Err() error {
	return m.err
}

// View 实现 tea.Model
func (m Model) View() string {
	content := m.list.View()

	if m.mode != modeBrowse {
		title := "Add todo"
		if m.mode == modeEdit {
			title = "Edit todo"
		}
		content += "\n" + panelStyle.Render(title+"\n"+m.input.View())
	}
	if m.err != nil {
		content += "\n" + errorStyle.Render("✖ "+m.err.Error())
	}
	return panelStyle.Render(content)
}

// header 标题栏，附带完成/未完成计数
func header(items []client.Todo) string {
	done := 0
	for _, it := range items {
		if it.Completed {
			done++
		}
	}
	return fmt.Sprintf("%s   %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), len(items)-done,
	)
}
