package mcp

import (
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	appTodo "github.com/tinytodo/backend/internal/application/todo"
	"github.com/tinytodo/backend/internal/infrastructure/config"
	"github.com/tinytodo/backend/internal/infrastructure/log"
)

// 服务名与版本，同时用于 MCP 握手和状态工具
const (
	ServerName    = "tinytodo"
	ServerVersion = "0.1.0"
)

// MCPServer MCP 服务器
type MCPServer struct {
	server      *mcp.Server
	handler     http.Handler
	todoService *appTodo.Service
	dbConfig    *config.DatabaseConfig
	logger      *slog.Logger
}

// NewServer 创建 MCP 服务器
func NewServer(todoService *appTodo.Service, dbConfig *config.DatabaseConfig) *MCPServer {
	// 创建 MCP 服务器实例
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil, // 使用默认能力
	)

	// 创建服务器实例（用于闭包捕获依赖）
	mcpServer := &MCPServer{
		server:      server,
		todoService: todoService,
		dbConfig:    dbConfig,
		logger:      log.NewModuleLogger("mcp", "server"),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_server_status",
		Description: "Get the status of the todo server, including running status, version number and database path. No parameters required.",
	}, mcpServer.getServerStatusTool)

	mcpServer.registerTodoTools()

	// 创建 SSE Handler
	mcpServer.handler = mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			// 每个请求返回同一个服务器实例
			return server
		},
		nil, // SSEOptions，使用默认值
	)

	return mcpServer
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}

// Start 启动服务器（HTTP/SSE 模式）
// MCP 服务器通过 HTTP Handler 提供服务，由 HTTP 服务器统一管理生命周期
func (s *MCPServer) Start() error {
	s.logger.Info("MCP server ready", "transport", "sse", "path", "/mcp/sse")
	return nil
}

// Stop 停止服务器
func (s *MCPServer) Stop() error {
	return nil
}
