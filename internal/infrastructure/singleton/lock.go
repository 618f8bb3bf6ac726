// Package singleton 基于端口占用的单实例检测
package singleton

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

const (
	// HealthPath 健康检查路径
	HealthPath = "/healthz"
	// HealthCheckTimeout 健康检查超时时间
	HealthCheckTimeout = 2 * time.Second
)

// ErrPortBusy 端口被其他程序占用（健康检查不通过）
var ErrPortBusy = errors.New("port is in use by another process")

// CheckAndLock 尝试占用监听地址
// 地址空闲时返回 listener；已有健康的实例在运行时返回 nil, nil（调用者应退出）；
// 地址被其他程序占用时返回 ErrPortBusy
func CheckAndLock(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err == nil {
		return listener, nil
	}

	if !isAddrInUse(err) {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	if isInstanceRunning(addr) {
		return nil, nil
	}
	return nil, fmt.Errorf("%s: %w", addr, ErrPortBusy)
}

// isAddrInUse 检查错误是否是地址已在使用
func isAddrInUse(err error) bool {
	if err == nil {
		return false
	}

	// Linux/Unix: EADDRINUSE；Windows: WSAEADDRINUSE (10048)
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EADDRINUSE || errno == 10048
	}

	msg := err.Error()
	return strings.Contains(msg, "address already in use") ||
		strings.Contains(msg, "Only one usage of each socket address")
}

// healthURL 由监听地址构造健康检查 URL，未指定主机时使用 localhost
func healthURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + HealthPath
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + HealthPath
}

// isInstanceRunning 已在运行的实例会对健康检查返回 200 "ok"
func isInstanceRunning(addr string) bool {
	client := &http.Client{
		Timeout: HealthCheckTimeout,
	}

	resp, err := client.Get(healthURL(addr))
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(body)) == "ok"
}
