package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerStatusInput 服务状态工具输入（空输入）
type ServerStatusInput struct{}

// ServerStatusOutput 服务状态工具输出
type ServerStatusOutput struct {
	Status    string `json:"status" jsonschema:"运行状态"`
	Version   string `json:"version" jsonschema:"版本号"`
	DBPath    string `json:"db_path" jsonschema:"数据库路径"`
	TodoCount int    `json:"todo_count" jsonschema:"待办总数"`
	OpenCount int    `json:"open_count" jsonschema:"未完成待办数"`
}

// getServerStatusTool 获取服务状态工具
func (s *MCPServer) getServerStatusTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ServerStatusInput,
) (*mcp.CallToolResult, ServerStatusOutput, error) {
	output := ServerStatusOutput{
		Status:  "running",
		Version: ServerVersion,
	}
	if s.dbConfig != nil {
		output.DBPath = s.dbConfig.Path
	}

	// 统计失败不影响状态查询本身
	items, err := s.todoService.List(ctx)
	if err != nil {
		s.logger.Warn("Failed to count todos", "error", err)
		output.Status = "degraded"
		return nil, output, nil
	}

	output.TodoCount = len(items)
	for _, item := range items {
		if !item.Completed {
			output.OpenCount++
		}
	}
	return nil, output, nil
}
