package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appTodo "github.com/tinytodo/backend/internal/application/todo"
	"github.com/tinytodo/backend/internal/domain/todo/todotest"
)

// setupRouter 使用内存仓储搭建只含待办路由的 gin 引擎
func setupRouter(t *testing.T) (*gin.Engine, *todotest.MemoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := todotest.NewMemoryRepository()
	h := NewTodoHandler(appTodo.NewService(repo))

	router := gin.New()
	router.GET("/api/todos", h.List)
	router.POST("/api/todos", h.Create)
	router.DELETE("/api/todos/completed", h.ClearCompleted)
	router.GET("/api/todos/:id", h.Get)
	router.PATCH("/api/todos/:id", h.Update)
	router.PUT("/api/todos/:id", h.Update)
	router.DELETE("/api/todos/:id", h.Delete)
	return router, repo
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeTodo(t *testing.T, w *httptest.ResponseRecorder) TodoDTO {
	t.Helper()
	var dto TodoDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto), "响应应该是有效的 JSON")
	return dto
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1, "错误响应只包含 error 字段")
	return body["error"].(string)
}

func TestTodoHandler_Create(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/api/todos", `{"text":"buy milk"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	dto := decodeTodo(t, w)
	assert.Equal(t, "buy milk", dto.Text)
	assert.False(t, dto.Completed)
	assert.Positive(t, dto.ID)
	assert.Equal(t, dto.CreatedAt, dto.UpdatedAt)
}

func TestTodoHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedText   string
		expectedError  string
	}{
		{name: "去除首尾空白", body: `{"text":"  hello  "}`, expectedStatus: http.StatusCreated, expectedText: "hello"},
		{name: "数字转为字符串", body: `{"text":42}`, expectedStatus: http.StatusCreated, expectedText: "42"},
		{name: "布尔转为字符串", body: `{"text":true}`, expectedStatus: http.StatusCreated, expectedText: "true"},
		{name: "空白内容", body: `{"text":"   "}`, expectedStatus: http.StatusBadRequest, expectedError: "text is required"},
		{name: "缺少 text", body: `{}`, expectedStatus: http.StatusBadRequest, expectedError: "text is required"},
		{name: "text 为 null", body: `{"text":null}`, expectedStatus: http.StatusBadRequest, expectedError: "text is required"},
		{name: "text 为对象", body: `{"text":{"a":1}}`, expectedStatus: http.StatusBadRequest, expectedError: "text is required"},
		{name: "请求体为数组", body: `[1,2]`, expectedStatus: http.StatusBadRequest, expectedError: "text is required"},
		{name: "非法 JSON", body: `{"text":`, expectedStatus: http.StatusBadRequest, expectedError: "Invalid JSON"},
		{name: "空请求体", body: ``, expectedStatus: http.StatusBadRequest, expectedError: "Invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupRouter(t)

			w := doRequest(router, http.MethodPost, "/api/todos", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, "HTTP 状态码应该正确")

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w))
				return
			}
			assert.Equal(t, tt.expectedText, decodeTodo(t, w).Text)
		})
	}
}

func TestTodoHandler_ListOrder(t *testing.T) {
	router, _ := setupRouter(t)

	for _, text := range []string{"A", "B", "C"} {
		require.Equal(t, http.StatusCreated, doRequest(router, http.MethodPost, "/api/todos", `{"text":"`+text+`"}`).Code)
	}

	w := doRequest(router, http.MethodGet, "/api/todos", "")
	require.Equal(t, http.StatusOK, w.Code)

	var items []TodoDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 3)
	assert.Equal(t, "C", items[0].Text)
	assert.Equal(t, "B", items[1].Text)
	assert.Equal(t, "A", items[2].Text)
}

func TestTodoHandler_ListEmptyIsArray(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/api/todos", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestTodoHandler_Get(t *testing.T) {
	router, _ := setupRouter(t)
	created := decodeTodo(t, doRequest(router, http.MethodPost, "/api/todos", `{"text":"x"}`))

	w := doRequest(router, http.MethodGet, "/api/todos/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decodeTodo(t, w))

	w = doRequest(router, http.MethodGet, "/api/todos/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", decodeError(t, w))

	// 超出 int64 的 id 按不存在处理
	w = doRequest(router, http.MethodGet, "/api/todos/99999999999999999999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTodoHandler_Update(t *testing.T) {
	router, _ := setupRouter(t)
	created := decodeTodo(t, doRequest(router, http.MethodPost, "/api/todos", `{"text":"x"}`))

	t.Run("只更新完成状态", func(t *testing.T) {
		w := doRequest(router, http.MethodPatch, "/api/todos/1", `{"completed":true}`)
		require.Equal(t, http.StatusOK, w.Code)

		dto := decodeTodo(t, w)
		assert.Equal(t, "x", dto.Text)
		assert.True(t, dto.Completed)
		assert.Equal(t, created.CreatedAt, dto.CreatedAt)
		assert.Greater(t, dto.UpdatedAt, dto.CreatedAt)
	})

	t.Run("PUT 与 PATCH 一致", func(t *testing.T) {
		w := doRequest(router, http.MethodPut, "/api/todos/1", `{"text":"  y  "}`)
		require.Equal(t, http.StatusOK, w.Code)

		dto := decodeTodo(t, w)
		assert.Equal(t, "y", dto.Text)
		assert.True(t, dto.Completed)
	})

	t.Run("类型不符的字段被丢弃", func(t *testing.T) {
		w := doRequest(router, http.MethodPatch, "/api/todos/1", `{"completed":"yes","text":"z"}`)
		require.Equal(t, http.StatusOK, w.Code)

		dto := decodeTodo(t, w)
		assert.Equal(t, "z", dto.Text)
		assert.True(t, dto.Completed)
	})
}

func TestTodoHandler_UpdateValidation(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{name: "空对象", path: "/api/todos/1", body: `{}`, expectedStatus: http.StatusBadRequest, expectedError: "No fields to update"},
		{name: "未知字段", path: "/api/todos/1", body: `{"foo":"bar"}`, expectedStatus: http.StatusBadRequest, expectedError: "No fields to update"},
		{name: "全部字段类型不符", path: "/api/todos/1", body: `{"text":1,"completed":"yes"}`, expectedStatus: http.StatusBadRequest, expectedError: "No fields to update"},
		{name: "非对象请求体", path: "/api/todos/1", body: `"text"`, expectedStatus: http.StatusBadRequest, expectedError: "No fields to update"},
		{name: "空白内容", path: "/api/todos/1", body: `{"text":"  "}`, expectedStatus: http.StatusBadRequest, expectedError: "text is required"},
		{name: "空白内容且更新完成状态", path: "/api/todos/1", body: `{"text":"  ","completed":true}`, expectedStatus: http.StatusBadRequest, expectedError: "text is required"},
		{name: "非法 JSON", path: "/api/todos/1", body: `{completed:true}`, expectedStatus: http.StatusBadRequest, expectedError: "Invalid JSON"},
		{name: "待办不存在", path: "/api/todos/999", body: `{"completed":true}`, expectedStatus: http.StatusNotFound, expectedError: "Not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupRouter(t)
			require.Equal(t, http.StatusCreated, doRequest(router, http.MethodPost, "/api/todos", `{"text":"x"}`).Code)

			w := doRequest(router, http.MethodPatch, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, "HTTP 状态码应该正确")
			assert.Equal(t, tt.expectedError, decodeError(t, w))

			// 校验失败时不写入任何字段
			stored := decodeTodo(t, doRequest(router, http.MethodGet, "/api/todos/1", ""))
			assert.Equal(t, "x", stored.Text)
			assert.False(t, stored.Completed)
		})
	}
}

func TestTodoHandler_Delete(t *testing.T) {
	router, _ := setupRouter(t)
	require.Equal(t, http.StatusCreated, doRequest(router, http.MethodPost, "/api/todos", `{"text":"x"}`).Code)

	w := doRequest(router, http.MethodDelete, "/api/todos/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	// 重复删除同样返回 204
	w = doRequest(router, http.MethodDelete, "/api/todos/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(router, http.MethodGet, "/api/todos/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTodoHandler_ClearCompleted(t *testing.T) {
	router, _ := setupRouter(t)
	for _, text := range []string{"a", "b", "c"} {
		require.Equal(t, http.StatusCreated, doRequest(router, http.MethodPost, "/api/todos", `{"text":"`+text+`"}`).Code)
	}
	require.Equal(t, http.StatusOK, doRequest(router, http.MethodPatch, "/api/todos/1", `{"completed":true}`).Code)
	require.Equal(t, http.StatusOK, doRequest(router, http.MethodPatch, "/api/todos/3", `{"completed":true}`).Code)

	w := doRequest(router, http.MethodDelete, "/api/todos/completed", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":2}`, w.Body.String())

	var items []TodoDTO
	require.NoError(t, json.Unmarshal(doRequest(router, http.MethodGet, "/api/todos", "").Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].Text)
}

func TestTodoHandler_StorageFailure(t *testing.T) {
	router, repo := setupRouter(t)
	repo.Err = errors.New("disk I/O error")

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/todos", ""},
		{http.MethodPost, "/api/todos", `{"text":"x"}`},
		{http.MethodGet, "/api/todos/1", ""},
		{http.MethodPatch, "/api/todos/1", `{"completed":true}`},
		{http.MethodDelete, "/api/todos/1", ""},
		{http.MethodDelete, "/api/todos/completed", ""},
	} {
		w := doRequest(router, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "Internal Server Error", decodeError(t, w))
	}
}

func TestUpdateTodoRequest_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantText      *string
		wantCompleted *bool
	}{
		{name: "两个字段", body: `{"text":"a","completed":false}`, wantText: strPtr("a"), wantCompleted: boolPtr(false)},
		{name: "completed 为数字", body: `{"completed":1}`},
		{name: "text 为 null", body: `{"text":null}`},
		{name: "请求体为 null", body: `null`},
		{name: "大小写敏感", body: `{"Text":"a"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateTodoRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.wantText, req.Text)
			assert.Equal(t, tt.wantCompleted, req.Completed)
		})
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
