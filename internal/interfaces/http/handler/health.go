package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tinytodo/backend/internal/interfaces/http/response"
)

// Healthz 健康检查，GET 与 HEAD 共用
func Healthz(c *gin.Context) {
	c.String(http.StatusOK, response.MsgHealthResponse)
}
