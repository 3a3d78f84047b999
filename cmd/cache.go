package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
)

// CacheStatus reports what the local cache holds.
func (r *Runner) CacheStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	stats, err := r.cache.Stats(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlainHeader("Cache")
	r.writePlain("Database:      %s\n", r.config.Database.Path)
	r.writePlain("Liked songs:   %d\n", stats.LibraryEntries)
	if stats.Sync != nil {
		r.writePlain("Last sync:     %s\n", stats.Sync.LastSyncTime.Local().Format(time.RFC1123))
	} else {
		r.writePlain("Last sync:     never\n")
	}
	r.writePlain("Lineups:       %d\n", len(stats.Catalogs))
	for _, c := range stats.Catalogs {
		r.writePlain("  %-14s %4d artists  %s\n", c.ID, c.Artists, c.LoadedAt.Local().Format(time.RFC1123))
	}
	return nil
}

// CacheClear drops library and lineup snapshots. Credentials survive.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}
	if err := r.cache.Clear(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Cache cleared\n")
}
