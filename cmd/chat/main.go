package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"hr-rag-bot/internal/app"
	"hr-rag-bot/internal/config"
	"hr-rag-bot/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The terminal belongs to the TUI; logs go next to the database.
	logPath := filepath.Join(filepath.Dir(cfg.DBPath), "chat.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer func() {
		_ = logFile.Close()
	}()
	slog.SetDefault(app.NewLogger(cfg, logFile))

	ctx := context.Background()

	fmt.Println("Connecting...")
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		_ = a.Close()
	}()

	m := tui.New(ctx, a.ChatService)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		slog.Error("Chat exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "chat: %v\n", err)
	}
}
