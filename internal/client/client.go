// Package client 待办服务 HTTP API 的类型化客户端
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout 默认请求超时
const DefaultTimeout = 5 * time.Second

// Todo 待办事项
type Todo struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UpdateRequest 部分更新，nil 字段不发送
type UpdateRequest struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// APIError 非 2xx 响应
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("todo api: %d %s", e.StatusCode, e.Message)
}

// Client 待办 API 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 使用自定义 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New 创建客户端，baseURL 形如 http://localhost:3000
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List 获取全部待办
func (c *Client) List(ctx context.Context) ([]Todo, error) {
	var items []Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get 获取单个待办
func (c *Client) Get(ctx context.Context, id int64) (*Todo, error) {
	var item Todo
	if err := c.do(ctx, http.MethodGet, todoPath(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create 创建待办
func (c *Client) Create(ctx context.Context, text string) (*Todo, error) {
	var item Todo
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, "/api/todos", body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update 部分更新待办
func (c *Client) Update(ctx context.Context, id int64, req UpdateRequest) (*Todo, error) {
	var item Todo
	if err := c.do(ctx, http.MethodPatch, todoPath(id), req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete 删除待办
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, todoPath(id), nil, nil)
}

// ClearCompleted 清除已完成待办，返回删除数量
func (c *Client) ClearCompleted(ctx context.Context) (int64, error) {
	var out struct {
		Deleted int64 `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/todos/completed", nil, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

func todoPath(id int64) string {
	return fmt.Sprintf("/api/todos/%d", id)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError 优先取 JSON 中的 error 字段，否则使用原始响应体
func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
