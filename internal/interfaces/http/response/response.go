package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 固定的错误信息
const (
	MsgInvalidJSON    = "Invalid JSON"
	MsgInternalError  = "Internal Server Error"
	MsgRouteNotFound  = "Not Found"
	MsgHealthResponse = "ok"
)

// ErrorResponse 错误响应，所有 JSON 错误只有一个 error 字段
type ErrorResponse struct {
	Error string `json:"error" example:"Not found"`
}

// DeletedResponse 批量删除响应
type DeletedResponse struct {
	Deleted int64 `json:"deleted" example:"3"`
}

// JSON 以指定状态码返回 JSON
func JSON(c *gin.Context, httpCode int, data interface{}) {
	c.JSON(httpCode, data)
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, ErrorResponse{Error: message})
}

// NoContent 204 空响应
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RouteNotFound 未匹配路由的纯文本 404
func RouteNotFound(c *gin.Context) {
	c.String(http.StatusNotFound, MsgRouteNotFound)
}
