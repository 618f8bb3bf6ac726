package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appTodo "github.com/tinytodo/backend/internal/application/todo"
	"github.com/tinytodo/backend/internal/infrastructure/config"
	"github.com/tinytodo/backend/internal/infrastructure/storage"
	"github.com/tinytodo/backend/internal/interfaces/http/handler"
	"github.com/tinytodo/backend/internal/interfaces/http/middleware"
	"github.com/tinytodo/backend/internal/interfaces/mcp"
)

// setupServer 使用临时 SQLite 数据库搭建完整的路由
func setupServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbCfg := &config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "app.sqlite")}
	db, err := storage.ProvideDB(dbCfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	service := appTodo.NewService(storage.NewTodoRepository(db))
	server, err := NewServer(
		&config.ServerConfig{HTTPPort: ":0"},
		handler.NewTodoHandler(service),
		mcp.NewServer(service, dbCfg),
	)
	require.NoError(t, err)
	return server.Handler()
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "响应应该是有效的 JSON: %s", w.Body.String())
	return v
}

func TestServer_CreationRoundTrip(t *testing.T) {
	h := setupServer(t)

	w := do(h, http.MethodPost, "/api/todos", `{"text":"buy milk"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	created := decode[handler.TodoDTO](t, w)
	assert.Equal(t, "buy milk", created.Text)
	assert.False(t, created.Completed)
	assert.Positive(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got := decode[handler.TodoDTO](t, do(h, http.MethodGet, fmt.Sprintf("/api/todos/%d", created.ID), ""))
	assert.Equal(t, created, got)
}

func TestServer_ListOrder(t *testing.T) {
	h := setupServer(t)
	for _, text := range []string{"A", "B", "C"} {
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/todos", `{"text":"`+text+`"}`).Code)
	}

	items := decode[[]handler.TodoDTO](t, do(h, http.MethodGet, "/api/todos", ""))
	require.Len(t, items, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{items[0].Text, items[1].Text, items[2].Text})
}

func TestServer_PartialUpdatePreservesFields(t *testing.T) {
	h := setupServer(t)
	created := decode[handler.TodoDTO](t, do(h, http.MethodPost, "/api/todos", `{"text":"x"}`))

	// datetime('now') 精度为秒
	time.Sleep(1100 * time.Millisecond)

	w := do(h, http.MethodPatch, fmt.Sprintf("/api/todos/%d", created.ID), `{"completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[handler.TodoDTO](t, do(h, http.MethodGet, fmt.Sprintf("/api/todos/%d", created.ID), ""))
	assert.Equal(t, "x", got.Text)
	assert.True(t, got.Completed)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.Greater(t, got.UpdatedAt, got.CreatedAt)
}

func TestServer_CompletedIsBoolean(t *testing.T) {
	h := setupServer(t)
	require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/todos", `{"text":"a"}`).Code)
	require.Equal(t, http.StatusOK, do(h, http.MethodPatch, "/api/todos/1", `{"completed":true}`).Code)
	require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/todos", `{"text":"b"}`).Code)

	items := decode[[]map[string]interface{}](t, do(h, http.MethodGet, "/api/todos", ""))
	require.Len(t, items, 2)
	for _, item := range items {
		_, ok := item["completed"].(bool)
		assert.True(t, ok, "completed 应该是 JSON 布尔值: %v", item["completed"])
	}
}

func TestServer_ErrorResponses(t *testing.T) {
	h := setupServer(t)
	require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/todos", `{"text":"x"}`).Code)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{name: "PATCH 空对象", method: http.MethodPatch, path: "/api/todos/1", body: `{}`, expectedStatus: http.StatusBadRequest, expectedError: "No fields to update"},
		{name: "PATCH 未知字段", method: http.MethodPatch, path: "/api/todos/1", body: `{"foo":"bar"}`, expectedStatus: http.StatusBadRequest, expectedError: "No fields to update"},
		{name: "GET 不存在", method: http.MethodGet, path: "/api/todos/999", expectedStatus: http.StatusNotFound, expectedError: "Not found"},
		{name: "PATCH 不存在", method: http.MethodPatch, path: "/api/todos/999", body: `{"completed":true}`, expectedStatus: http.StatusNotFound, expectedError: "Not found"},
		{name: "POST 空白内容", method: http.MethodPost, path: "/api/todos", body: `{"text":"   "}`, expectedStatus: http.StatusBadRequest, expectedError: "text is required"},
		{name: "POST 非法 JSON", method: http.MethodPost, path: "/api/todos", body: `not json`, expectedStatus: http.StatusBadRequest, expectedError: "Invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decode[map[string]string](t, w)
			assert.Equal(t, map[string]string{"error": tt.expectedError}, body)
		})
	}
}

func TestServer_DeleteAlwaysNoContent(t *testing.T) {
	h := setupServer(t)
	require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/todos", `{"text":"x"}`).Code)

	for _, path := range []string{"/api/todos/1", "/api/todos/1", "/api/todos/999"} {
		w := do(h, http.MethodDelete, path, "")
		assert.Equal(t, http.StatusNoContent, w.Code, path)
		assert.Empty(t, w.Body.String())
	}
}

func TestServer_ClearCompleted(t *testing.T) {
	h := setupServer(t)
	for _, text := range []string{"a", "b"} {
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/todos", `{"text":"`+text+`"}`).Code)
	}
	require.Equal(t, http.StatusOK, do(h, http.MethodPatch, "/api/todos/2", `{"completed":true}`).Code)

	w := do(h, http.MethodDelete, "/api/todos/completed", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":1}`, w.Body.String())

	items := decode[[]handler.TodoDTO](t, do(h, http.MethodGet, "/api/todos", ""))
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Text)
}

func TestServer_UnmatchedRoutes(t *testing.T) {
	h := setupServer(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "非数字 id", method: http.MethodGet, path: "/api/todos/abc"},
		{name: "非数字 id 更新", method: http.MethodPatch, path: "/api/todos/1a"},
		{name: "GET completed", method: http.MethodGet, path: "/api/todos/completed"},
		{name: "未知路径", method: http.MethodGet, path: "/nope"},
		{name: "不支持的方法", method: http.MethodPost, path: "/api/todos/1"},
		{name: "末尾斜杠", method: http.MethodGet, path: "/api/todos/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, tt.method, tt.path, "")
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
			assert.Equal(t, "Not Found", w.Body.String())
		})
	}
}

func TestServer_Healthz(t *testing.T) {
	h := setupServer(t)

	w := do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	w = do(h, http.MethodHead, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_PagesAndRedirect(t *testing.T) {
	h := setupServer(t)

	w := do(h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/todos", w.Header().Get("Location"))

	for _, path := range []string{"/todos", "/about", "/assets/todos.js", "/assets/styles.css"} {
		assert.Equal(t, http.StatusOK, do(h, http.MethodGet, path, "").Code, path)
	}
}

func TestServer_RequestIDAndMetrics(t *testing.T) {
	h := setupServer(t)

	w := do(h, http.MethodGet, "/api/todos", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	w = do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/api/todos",status="200"}`)
}
