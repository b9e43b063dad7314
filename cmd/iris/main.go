package main

import (
	"fmt"
	"os"
	"path/filepath"

	"iris/internal/chat"
	"iris/internal/config"
	"iris/internal/generate"
	"iris/internal/logger"
	"iris/internal/storage"
	"iris/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "iris:", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "iris: creating data directory:", err)
		os.Exit(1)
	}

	// The TUI owns stdout, so diagnostics go to a log file.
	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "iris.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "iris: opening log file:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := logger.New(logFile, cfg.LogLevel)

	// Storage trouble is not fatal: the app still works for the session,
	// it just won't remember anything.
	store, err := storage.Open(filepath.Join(cfg.DataDir, "iris.db"), log)
	if err != nil {
		log.Warn().Err(err).Msg("storage unavailable, running without persistence")
		store = storage.Detached(log)
	}
	defer store.Close()

	gen := generate.NewClient(cfg.APIKey, cfg.Model)
	manager := chat.NewManager(store, gen, log)
	model := ui.NewModel(store, manager, log)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("ui terminated")
		fmt.Fprintln(os.Stderr, "iris:", err)
		os.Exit(1)
	}
}
