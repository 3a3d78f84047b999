package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
)

// LibrarySync refreshes the liked-songs snapshot.
func (r *Runner) LibrarySync(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	updates, wait := r.progress()
	result, err := r.engine.SyncLibrary(ctx, cmd.Bool("force"), updates)
	wait()
	if err != nil {
		return err
	}

	if result.FromCache {
		r.writePlain("✓ Library is fresh: %d liked songs (synced %s ago)\n",
			len(result.Entries), time.Since(result.Metadata.LastSyncTime).Round(time.Second))
		r.writePlain("  Use --force to fetch anyway.\n")
		return nil
	}
	return r.writePlain("✓ Synced %d liked songs over %d pages\n", len(result.Entries), result.Metadata.LastFetchedPage)
}

// LibraryStatus reports the stored sync metadata.
func (r *Runner) LibraryStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	meta, err := r.cache.GetSyncMetadata(ctx)
	if err != nil {
		return err
	}
	if meta == nil {
		return r.writePlain("Library has never been synced. Run 'lineuplens library sync'.\n")
	}

	freshness := "stale"
	if meta.Fresh(time.Now(), r.config.Cache.LibraryTTL) {
		freshness = "fresh"
	}
	r.writePlain("Liked songs: %d\n", meta.TotalSongs)
	r.writePlain("Pages:       %d\n", meta.LastFetchedPage)
	r.writePlain("Last sync:   %s (%s, ttl %s)\n", meta.LastSyncTime.Local().Format(time.RFC1123), freshness, r.config.Cache.LibraryTTL)
	return nil
}
