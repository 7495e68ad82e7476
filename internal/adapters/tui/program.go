package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/pomo/internal/config"
	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// Options configures Run.
type Options struct {
	Theme  *config.ThemeConfig
	Inline bool
}

// Run starts the interactive timer and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, controller ports.SessionController, opts Options) error {
	model := NewModel(ctx, controller, opts.Theme, opts.Inline)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !opts.Inline {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(model, progOpts...)

	// Listeners fire on the goroutine that called Execute, which may be the
	// program's own update loop, so delivery must not block.
	controller.OnSessionFinished(func(finished domain.Session, next domain.TimerSnapshot) {
		go program.Send(sessionFinishedMsg{finished: finished, next: next})
	})
	controller.OnDailyGoalReached(func(snap domain.TimerSnapshot) {
		go program.Send(goalReachedMsg{snap: snap})
	})

	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
