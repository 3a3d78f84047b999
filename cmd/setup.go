package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the example config when none exists, then initializes the database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	if _, err := os.Stat(r.configPath); errors.Is(err, os.ErrNotExist) {
		r.logger.Info("config file not found, creating from template", "path", r.configPath)
		if err := shared.CreateConfigFile(r.configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		if err := r.loadConfig(); err != nil {
			return err
		}
		r.writePlain("✓ Wrote %s\n", r.configPath)
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	if err := r.connect(ctx); err != nil {
		return err
	}

	states, err := shared.MigrationStatus(ctx, r.db)
	if err != nil {
		return err
	}
	for _, state := range states {
		mark := "✗"
		if state.Applied {
			mark = "✓"
		}
		r.writePlain("%s %04d %s\n", mark, state.Version, state.Name)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	if err := r.config.RequireClientID(); err != nil {
		r.writePlain("\nNext: set spotify.client_id in %s (or SPOTIFY_CLIENT_ID), then run 'lineuplens auth login'\n", r.configPath)
		return nil
	}
	r.writePlain("\nNext: run 'lineuplens auth login'\n")
	return nil
}
