package main

import (
	"context"
	"os"

	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := runner.app().Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:     "lineuplens",
		Usage:    "Rank festival lineups by the artists in your Spotify liked songs",
		Version:  "0.3.0",
		Flags:    rootFlags(),
		Before:   r.Before,
		After:    r.After,
		Commands: r.register(),
	}
}
