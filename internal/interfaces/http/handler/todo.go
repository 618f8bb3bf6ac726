package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	appTodo "github.com/tinytodo/backend/internal/application/todo"
	domainTodo "github.com/tinytodo/backend/internal/domain/todo"
	"github.com/tinytodo/backend/internal/infrastructure/log"
	"github.com/tinytodo/backend/internal/interfaces/http/response"
)

// TodoHandler 待办事项处理器
type TodoHandler struct {
	service *appTodo.Service
	logger  *slog.Logger
}

// NewTodoHandler 创建待办事项处理器
func NewTodoHandler(service *appTodo.Service) *TodoHandler {
	return &TodoHandler{
		service: service,
		logger:  log.NewModuleLogger("http", "todo"),
	}
}

// TodoDTO 待办事项 DTO
type TodoDTO struct {
	ID        int64  `json:"id" example:"1"`
	Text      string `json:"text" example:"buy milk"`
	Completed bool   `json:"completed" example:"false"`
	CreatedAt string `json:"created_at" example:"2026-10-19 08:00:00"`
	UpdatedAt string `json:"updated_at" example:"2026-10-19 08:00:00"`
}

// CreateTodoRequest 创建待办请求
// text 字段按原始 JSON 类型转成字符串：字符串原样，数字取字面量，布尔取 true/false，其余为空
type CreateTodoRequest struct {
	Text string `json:"text" example:"buy milk"`
}

// UnmarshalJSON 宽松解析创建请求
func (r *CreateTodoRequest) UnmarshalJSON(data []byte) error {
	r.Text = ""

	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		// 非对象请求体（数组、字符串等）视为没有 text
		return nil
	}
	r.Text = coerceText(body["text"])
	return nil
}

// UpdateTodoRequest 更新待办请求
// 类型不符的字段被静默丢弃：text 必须是字符串，completed 必须是布尔值
type UpdateTodoRequest struct {
	Text      *string `json:"text,omitempty" example:"buy oat milk"`
	Completed *bool   `json:"completed,omitempty" example:"true"`
}

// UnmarshalJSON 宽松解析更新请求
func (r *UpdateTodoRequest) UnmarshalJSON(data []byte) error {
	r.Text = nil
	r.Completed = nil

	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return nil
	}

	if raw, ok := body["text"]; ok && jsonKind(raw) == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			r.Text = &text
		}
	}

	if raw, ok := body["completed"]; ok {
		switch string(bytes.TrimSpace(raw)) {
		case "true":
			completed := true
			r.Completed = &completed
		case "false":
			completed := false
			r.Completed = &completed
		}
	}
	return nil
}

// Patch 转换为领域层的部分更新
func (r UpdateTodoRequest) Patch() domainTodo.Patch {
	return domainTodo.Patch{Text: r.Text, Completed: r.Completed}
}

// ClearCompletedResponse 清除已完成待办响应
type ClearCompletedResponse = response.DeletedResponse

// toDTO 将领域模型转换为 DTO
func toDTO(item *domainTodo.Todo) *TodoDTO {
	return &TodoDTO{
		ID:        item.ID,
		Text:      item.Text,
		Completed: item.Completed,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// List 获取待办列表
// @Summary 获取待办列表
// @Description 按 id 倒序返回全部待办
// @Tags 待办
// @Produce json
// @Success 200 {array} TodoDTO
// @Failure 500 {object} response.ErrorResponse
// @Router /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	dtos := make([]*TodoDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, toDTO(item))
	}

	response.JSON(c, http.StatusOK, dtos)
}

// Create 创建待办
// @Summary 创建待办
// @Tags 待办
// @Accept json
// @Produce json
// @Param body body CreateTodoRequest true "待办内容"
// @Success 201 {object} TodoDTO
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req CreateTodoRequest
	if !h.decodeBody(c, &req) {
		return
	}

	item, err := h.service.Create(c.Request.Context(), req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, toDTO(item))
}

// Get 获取单个待办
// @Summary 获取待办
// @Tags 待办
// @Produce json
// @Param id path int true "待办ID"
// @Success 200 {object} TodoDTO
// @Failure 404 {object} response.ErrorResponse
// @Router /todos/{id} [get]
func (h *TodoHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), parseID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, toDTO(item))
}

// Update 更新待办
// @Summary 更新待办
// @Description 部分更新，省略的字段保持不变；PUT 与 PATCH 行为一致
// @Tags 待办
// @Accept json
// @Produce json
// @Param id path int true "待办ID"
// @Param body body UpdateTodoRequest true "更新内容"
// @Success 200 {object} TodoDTO
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /todos/{id} [patch]
func (h *TodoHandler) Update(c *gin.Context) {
	var req UpdateTodoRequest
	if !h.decodeBody(c, &req) {
		return
	}

	item, err := h.service.Update(c.Request.Context(), parseID(c), req.Patch())
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, toDTO(item))
}

// Delete 删除待办
// @Summary 删除待办
// @Description 待办不存在时同样返回 204
// @Tags 待办
// @Param id path int true "待办ID"
// @Success 204
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), parseID(c)); err != nil {
		h.writeError(c, err)
		return
	}

	response.NoContent(c)
}

// ClearCompleted 清除所有已完成待办
// @Summary 清除已完成待办
// @Tags 待办
// @Produce json
// @Success 200 {object} response.DeletedResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/completed [delete]
func (h *TodoHandler) ClearCompleted(c *gin.Context) {
	count, err := h.service.ClearCompleted(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, ClearCompletedResponse{Deleted: count})
}

// decodeBody 读取并解析 JSON 请求体，非法 JSON 时直接写 400
func (h *TodoHandler) decodeBody(c *gin.Context, dst json.Unmarshaler) bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		response.Error(c, http.StatusBadRequest, response.MsgInvalidJSON)
		return false
	}
	if err := dst.UnmarshalJSON(body); err != nil {
		response.Error(c, http.StatusBadRequest, response.MsgInvalidJSON)
		return false
	}
	return true
}

// writeError 将错误映射为 HTTP 状态码
func (h *TodoHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainTodo.ErrTextRequired), errors.Is(err, domainTodo.ErrNoFieldsToUpdate):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domainTodo.ErrNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	default:
		log.FromContext(c.Request.Context(), h.logger).Error("Todo request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, response.MsgInternalError)
	}
}

// parseID 解析路径中的 id
// 路由层已保证全是数字；超出 int64 的值映射为 0，自增主键不会分配 0
func parseID(c *gin.Context) int64 {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// coerceText 把任意 JSON 值转成待办内容
func coerceText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	switch jsonKind(raw) {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case 't', 'f', '0':
		return string(raw)
	default:
		return ""
	}
}

// jsonKind 返回 JSON 值的类型标记：'"' 字符串，'t'/'f' 布尔，'0' 数字，
// 'n' null，'{' 对象，'[' 数组，0 表示空
func jsonKind(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	switch c := raw[0]; {
	case c == '-' || (c >= '0' && c <= '9'):
		return '0'
	default:
		return c
	}
}
