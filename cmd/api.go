package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct authenticated GET request and prints the response.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if err := r.connect(ctx); err != nil {
		return err
	}
	if _, ok := r.flow.GetValidToken(ctx); !ok {
		return fmt.Errorf("%w: run `lineuplens auth login` first", shared.ErrNotAuthenticated)
	}

	r.logger.Debug("GET request", "path", path)

	resp, err := r.spotify.Get(ctx, path)
	if errors.Is(err, shared.ErrUnauthenticated) {
		r.logger.Error("provider rejected credentials, signing out", "error", err)
		if logoutErr := r.flow.Logout(ctx); logoutErr != nil {
			return errors.Join(err, logoutErr)
		}
		return err
	}
	if err != nil {
		return err
	}

	if data, ok := resp.JSON(); ok {
		return r.writeJSON(data, cmd.Bool("pretty"))
	}

	if _, err := r.output.Write(resp.Body); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return r.writePlain("\n")
}
