package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tinytodo/backend/internal/infrastructure/config"
	"github.com/tinytodo/backend/internal/infrastructure/log"
	"github.com/tinytodo/backend/internal/interfaces/http/handler"
	"github.com/tinytodo/backend/internal/interfaces/http/middleware"
	"github.com/tinytodo/backend/internal/interfaces/http/response"
	"github.com/tinytodo/backend/internal/interfaces/http/web"
	"github.com/tinytodo/backend/internal/interfaces/mcp"

	_ "github.com/tinytodo/backend/docs" // Swagger docs
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	serverCfg *config.ServerConfig,
	todoHandler *handler.TodoHandler,
	mcpServer *mcp.MCPServer,
) (*HTTPServer, error) {
	router := gin.New()
	// 末尾斜杠不做重定向，未注册的路径一律 404
	router.RedirectTrailingSlash = false

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Metrics(),
		middleware.EnsureUTF8Body(),
	)

	// 注册路由
	api := router.Group("/api")
	{
		todos := api.Group("/todos")
		todos.GET("", todoHandler.List)
		todos.POST("", todoHandler.Create)
		todos.DELETE("/completed", todoHandler.ClearCompleted)

		byID := todos.Group("/:id", middleware.NumericParam("id"))
		byID.GET("", todoHandler.Get)
		byID.PATCH("", todoHandler.Update)
		byID.PUT("", todoHandler.Update)
		byID.DELETE("", todoHandler.Delete)
	}

	// 健康检查
	router.GET("/healthz", handler.Healthz)
	router.HEAD("/healthz", handler.Healthz)

	// 浏览器页面与静态资源
	if err := web.Register(router); err != nil {
		return nil, err
	}

	// Prometheus 指标
	router.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// MCP SSE 端点
	if mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	router.NoRoute(response.RouteNotFound)

	return &HTTPServer{
		router:   router,
		httpPort: serverCfg.HTTPPort,
		logger:   log.NewModuleLogger("http", "server"),
	}, nil
}

// Handler 返回路由（用于测试和嵌入）
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Addr 监听地址
func (s *HTTPServer) Addr() string {
	return s.httpPort
}

// Start 启动服务器
func (s *HTTPServer) Start() error {
	s.server = &http.Server{
		Addr:              s.httpPort,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("HTTP server starting",
		"port", s.httpPort,
	)

	return s.server.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}
