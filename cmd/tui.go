package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive movie browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	path := r.config.Log.File
	if path == "" {
		path = "./tmp/reel-tui.log"
	}
	fileLogger, err := shared.NewFileLogger(shared.ExpandPath(path))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.session, r.fetch, r.notices)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
