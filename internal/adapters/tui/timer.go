package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/breathe-cli/internal/domain"
	"github.com/xvierd/breathe-cli/internal/ports"
)

// runnerMsg carries a runner event into the Bubbletea loop.
type runnerMsg struct {
	ev ports.Event
}

// waitCmds turns pending waits into commands. A wait that returns nil was
// cancelled and produces no message.
func waitCmds(waits []ports.Wait) tea.Cmd {
	if len(waits) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(waits))
	for _, w := range waits {
		if w == nil {
			continue
		}
		w := w
		cmds = append(cmds, func() tea.Msg {
			ev := w()
			if ev == nil {
				return nil
			}
			return runnerMsg{ev: ev}
		})
	}
	return tea.Batch(cmds...)
}

// Run shows the app fullscreen and blocks until the user quits or ctx is
// cancelled. It returns the summary of the last finished session, if any.
func Run(ctx context.Context, app App) (*domain.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.ctx = ctx
	program := tea.NewProgram(app, tea.WithAltScreen())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		program.Quit()
	}()

	final, err := program.Run()
	cancel()
	wg.Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to run TUI: %w", err)
	}

	if m, ok := final.(App); ok {
		m.teardown()
		return m.LastSummary(), nil
	}
	return app.LastSummary(), nil
}
