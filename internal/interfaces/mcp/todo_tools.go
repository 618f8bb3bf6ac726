package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	domainTodo "github.com/tinytodo/backend/internal/domain/todo"
)

// TodoItem 待办事项
type TodoItem struct {
	ID        int64  `json:"id" jsonschema:"待办 ID"`
	Text      string `json:"text" jsonschema:"待办内容"`
	Completed bool   `json:"completed" jsonschema:"是否完成"`
	CreatedAt string `json:"created_at" jsonschema:"创建时间（UTC）"`
	UpdatedAt string `json:"updated_at" jsonschema:"最后更新时间（UTC）"`
}

// ListTodosInput 列表工具输入（空输入）
type ListTodosInput struct{}

// ListTodosOutput 列表工具输出
type ListTodosOutput struct {
	Todos []TodoItem `json:"todos" jsonschema:"待办列表，按 ID 倒序"`
	Total int        `json:"total" jsonschema:"待办总数"`
}

// TodoIDInput 按 ID 操作的工具输入
type TodoIDInput struct {
	ID int64 `json:"id" jsonschema:"待办 ID"`
}

// CreateTodoInput 创建工具输入
type CreateTodoInput struct {
	Text string `json:"text" jsonschema:"待办内容，去除首尾空白后不能为空"`
}

// UpdateTodoInput 更新工具输入
type UpdateTodoInput struct {
	ID        int64   `json:"id" jsonschema:"待办 ID"`
	Text      *string `json:"text,omitempty" jsonschema:"新的待办内容（可选）"`
	Completed *bool   `json:"completed,omitempty" jsonschema:"新的完成状态（可选）"`
}

// TodoOutput 单个待办输出
type TodoOutput struct {
	Todo TodoItem `json:"todo" jsonschema:"待办事项"`
}

// DeleteTodoOutput 删除工具输出
type DeleteTodoOutput struct {
	Success bool `json:"success" jsonschema:"是否成功"`
}

// ClearCompletedInput 清除已完成工具输入（空输入）
type ClearCompletedInput struct{}

// ClearCompletedOutput 清除已完成工具输出
type ClearCompletedOutput struct {
	Deleted int64 `json:"deleted" jsonschema:"删除的待办数量"`
}

// registerTodoTools 注册待办相关工具
func (s *MCPServer) registerTodoTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_todos",
		Description: "List all todos, newest first. No parameters required. Returns: todos array and total count.",
	}, s.listTodosTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_todo",
		Description: "Get a single todo by id. Parameters: id (int, required). Returns: the todo, or an error if it does not exist.",
	}, s.getTodoTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_todo",
		Description: "Create a todo. Parameters: text (string, required) - leading and trailing whitespace is trimmed and the result must not be empty. Returns: the created todo.",
	}, s.createTodoTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "update_todo",
		Description: `Partially update a todo. Omitted fields keep their stored value.
Parameters:
- id (int, required): Todo id
- text (string, optional): Replacement text, trimmed, must not be empty
- completed (bool, optional): New completion state

At least one of text or completed is required. Returns: the updated todo.`,
	}, s.updateTodoTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_todo",
		Description: "Delete a todo by id. Deleting a missing todo is not an error. Parameters: id (int, required).",
	}, s.deleteTodoTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear_completed_todos",
		Description: "Delete every completed todo. No parameters required. Returns: number of todos deleted.",
	}, s.clearCompletedTool)
}

func (s *MCPServer) listTodosTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListTodosInput,
) (*mcp.CallToolResult, ListTodosOutput, error) {
	items, err := s.todoService.List(ctx)
	if err != nil {
		return nil, ListTodosOutput{}, err
	}

	output := ListTodosOutput{
		Todos: make([]TodoItem, 0, len(items)),
		Total: len(items),
	}
	for _, item := range items {
		output.Todos = append(output.Todos, toTodoItem(item))
	}
	return nil, output, nil
}

func (s *MCPServer) getTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TodoIDInput,
) (*mcp.CallToolResult, TodoOutput, error) {
	item, err := s.todoService.Get(ctx, input.ID)
	if err != nil {
		return nil, TodoOutput{}, err
	}
	return nil, TodoOutput{Todo: toTodoItem(item)}, nil
}

func (s *MCPServer) createTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CreateTodoInput,
) (*mcp.CallToolResult, TodoOutput, error) {
	item, err := s.todoService.Create(ctx, input.Text)
	if err != nil {
		return nil, TodoOutput{}, err
	}
	return nil, TodoOutput{Todo: toTodoItem(item)}, nil
}

func (s *MCPServer) updateTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input UpdateTodoInput,
) (*mcp.CallToolResult, TodoOutput, error) {
	patch := domainTodo.Patch{Text: input.Text, Completed: input.Completed}
	item, err := s.todoService.Update(ctx, input.ID, patch)
	if err != nil {
		return nil, TodoOutput{}, err
	}
	return nil, TodoOutput{Todo: toTodoItem(item)}, nil
}

func (s *MCPServer) deleteTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TodoIDInput,
) (*mcp.CallToolResult, DeleteTodoOutput, error) {
	if err := s.todoService.Delete(ctx, input.ID); err != nil {
		return nil, DeleteTodoOutput{}, err
	}
	return nil, DeleteTodoOutput{Success: true}, nil
}

func (s *MCPServer) clearCompletedTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ClearCompletedInput,
) (*mcp.CallToolResult, ClearCompletedOutput, error) {
	count, err := s.todoService.ClearCompleted(ctx)
	if err != nil {
		return nil, ClearCompletedOutput{}, err
	}
	return nil, ClearCompletedOutput{Deleted: count}, nil
}

func toTodoItem(item *domainTodo.Todo) TodoItem {
	return TodoItem{
		ID:        item.ID,
		Text:      item.Text,
		Completed: item.Completed,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
