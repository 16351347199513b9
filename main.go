package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/focusbits/internal/alert"
	"github.com/sadopc/focusbits/internal/config"
	"github.com/sadopc/focusbits/internal/coordinator"
	"github.com/sadopc/focusbits/internal/session"
	"github.com/sadopc/focusbits/internal/store"
	"github.com/sadopc/focusbits/internal/tui"
)

func main() {
	dataDir, err := store.DefaultDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfgPath, err := config.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath, dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating data dir: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	s, err := store.New(store.DBPath(cfg.DataDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if n, err := s.CloseDangling(); err != nil {
		logger.Warn("close dangling sessions failed", "err", err)
	} else if n > 0 {
		logger.Info("closed sessions left open by a previous run", "count", n)
	}

	var alerter alert.Alerter = alert.Nop{}
	if cfg.Alert.Bell {
		alerter = alert.Bell{W: os.Stderr}
	}

	journal := store.NewJournal(cfg.DataDir)
	coord, loadErr := coordinator.New(coordinator.Options{
		Journal:     journal,
		History:     s,
		Alerter:     alerter,
		Logger:      logger,
		Increment:   s.SettingDuration(store.SettingSessionIncrement, session.DefaultIncrement),
		BreakLength: s.SettingDuration(store.SettingBreakLength, session.DefaultIncrement),
	})
	if coord == nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", loadErr)
		os.Exit(1)
	}

	logger.Info("starting", "data_dir", cfg.DataDir, "day", coord.Key())

	app := tui.NewApp(coord, s, journal, s.SettingDuration(store.SettingNotesFlush, tui.DefaultNotesFlush))
	if loadErr != nil {
		app = app.WithStatus(fmt.Sprintf("Could not read saved data: %v", loadErr), true)
	}
	p := tea.NewProgram(app, tea.WithAltScreen())

	_, runErr := p.Run()
	if err := coord.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "error saving: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}
