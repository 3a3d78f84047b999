package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lineuplens/internal/formatter"
	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/desertthunder/lineuplens/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Match ranks a festival's artists and writes the result in the requested format.
func (r *Runner) Match(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("festival")
	if id == "" {
		return fmt.Errorf("%w: festival id", shared.ErrMissingArgument)
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	limit := int(cmd.Int("limit"))
	if limit < 0 {
		return fmt.Errorf("%w: --limit must not be negative", shared.ErrInvalidArgument)
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	opts := tasks.GenerateOpts{
		UseCachedCatalog: cmd.Bool("cached-catalog"),
		ForceRefresh:     cmd.Bool("refresh-library"),
	}

	updates, wait := r.progress()
	result, err := r.engine.Generate(ctx, id, opts, updates)
	wait()
	if err != nil {
		return err
	}

	if result.Report != nil && len(result.Report.Skipped) > 0 {
		r.logger.Warn("lineup rows skipped", "count", len(result.Report.Skipped), "hint", "run 'lineuplens festivals validate "+id+"'")
	}

	result = formatter.Limit(result, limit)
	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteFile(path, result, format); err != nil {
			return err
		}
		r.logger.Info("wrote results", "path", path, "format", format)
		return nil
	}
	return formatter.Write(r.output, result, format)
}
