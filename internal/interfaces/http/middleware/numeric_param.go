package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/tinytodo/backend/internal/interfaces/http/response"
)

// NumericParam 要求路径参数只包含数字
// gin 不支持正则路由参数，非数字的路径段按未匹配路由处理（纯文本 404）
func NumericParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isDigits(c.Param(name)) {
			response.RouteNotFound(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// isDigits 非空且全部为 ASCII 数字
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
