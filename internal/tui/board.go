package tui

import (
	"context"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"cleansteps/internal/recovery"
)

// RunBoard opens the interactive board. When dbPath can be watched, the board
// reloads whenever another process writes to the database.
func RunBoard(ctx context.Context, svc *recovery.Service, dbPath, locale string, out io.Writer) error {
	var changes <-chan struct{}
	w, err := newDBWatcher(dbPath)
	if err != nil {
		slog.Warn("database watcher unavailable", "path", dbPath, "err", err)
	} else {
		defer w.Stop()
		changes = w.Changes
	}

	m := newBoardModel(ctx, svc, locale, changes)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
