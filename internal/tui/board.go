package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"questpet/internal/engine"
)

// RunBoard blocks until the user quits or ctx is cancelled. Scheduler events
// stream into the board's event log while it runs.
func RunBoard(ctx context.Context, svc *engine.Service, out io.Writer) error {
	events, unsubscribe := svc.Subscribe(0)
	defer unsubscribe()

	m := newBoardModel(ctx, svc, events)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if ctx.Err() != nil && err != nil {
		return nil
	}
	return err
}
