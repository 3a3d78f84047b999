package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/urfave/cli/v3"
)

// FestivalsList prints the configured festivals.
func (r *Runner) FestivalsList(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("json") {
		return r.writeJSON(r.config.Festivals, true)
	}
	if len(r.config.Festivals) == 0 {
		return r.writePlain("No festivals configured. Add [[festivals]] entries to %s.\n", r.configPath)
	}

	r.writePlainHeader(fmt.Sprintf("Festivals (%d)", len(r.config.Festivals)))
	for _, f := range r.config.Festivals {
		r.writePlain("%-14s %s\n", f.ID, f.Name)
		r.writePlain("%-14s %s\n", "", f.Source)
	}
	return nil
}

// FestivalsValidate loads one lineup and reports what normalization kept and skipped.
//
// Lineups are loaded with cache-busting unless --cached is given. Nothing is written to the local cache.
func (r *Runner) FestivalsValidate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: festival id", shared.ErrMissingArgument)
	}
	festival, err := r.config.Festival(id)
	if err != nil {
		return err
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	catalog, report, err := r.loader.LoadCatalog(ctx, festival.ID, festival.Source, !cmd.Bool("cached"))
	if report == nil {
		return err
	}

	artists := 0
	if catalog != nil {
		artists = catalog.Len()
	}

	r.writePlainHeader(festival.Name)
	r.writePlain("Rows:       %d\n", report.TotalRows)
	r.writePlain("Artists:    %d\n", artists)
	r.writePlain("Duplicates: %d\n", report.Duplicates)
	r.writePlain("Skipped:    %d\n", len(report.Skipped))
	for _, row := range report.Skipped {
		r.writePlain("  row %-5d %-24q %s\n", row.Row, row.ArtistID, row.Reason)
	}
	return err
}
