package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/desertthunder/lineuplens/internal/tasks"
	"github.com/desertthunder/lineuplens/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive festival picker.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if len(r.config.Festivals) == 0 {
		return fmt.Errorf("%w: no festivals configured in %s", shared.ErrMissingConfig, r.configPath)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := r.fileLogger(cmd.String("log-file"))
	if err != nil {
		return err
	}
	r.SetLogger(fileLogger)

	if err := r.connect(ctx); err != nil {
		return err
	}

	model := ui.NewModel(ctx, r.engine, r.config.Festivals, tasks.GenerateOpts{})
	defer model.Close()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// fileLogger opens path for logging at the level the root flags selected.
func (r *Runner) fileLogger(path string) (*log.Logger, error) {
	logger, err := shared.NewFileLogger(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	logger.SetLevel(r.logger.GetLevel())
	return logger, nil
}
