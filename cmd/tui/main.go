package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytodo/backend/internal/client"
	"github.com/tinytodo/backend/internal/tui"
)

// envAPIURL 服务地址环境变量
const (
	envAPIURL     = "TODO_API_URL"
	defaultAPIURL = "http://localhost:3000"
)

func main() {
	baseURL := os.Getenv(envAPIURL)
	if baseURL == "" {
		baseURL = defaultAPIURL
	}

	p := tea.NewProgram(tui.New(client.New(baseURL)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		os.Exit(1)
	}
}
