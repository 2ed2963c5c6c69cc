package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/alchemist/internal/shared"
	"github.com/desertthunder/alchemist/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for library browsing and playback.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.flow == nil || r.cache == nil || r.controller == nil {
		return fmt.Errorf("%w: client not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering. The log
	// file is append-only, so each run gets a tag to keep entries separable.
	fileLogger, err := shared.NewFileLogger("./tmp/alchemist-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(shared.WithLogger(fileLogger, "run", shared.GenerateID()))

	model := ui.NewModel(ctx, r.flow, r.cache, r.controller)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
