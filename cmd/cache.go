package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songmatch/internal/models"
	"github.com/desertthunder/songmatch/internal/repositories"
	"github.com/desertthunder/songmatch/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheStats prints the number of cached lookups per catalog and kind.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	counts, err := repositories.NewLookupRepository(db).Count(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if counts == nil {
			counts = []repositories.LookupCount{}
		}
		return r.writeJSON(counts, cmd.Bool("pretty"))
	}

	if len(counts) == 0 {
		return r.writePlain("Lookup cache is empty (%s)\n", r.config.Database.Path)
	}

	total := 0
	for _, c := range counts {
		total += c.Count
		r.writePlain("%-8s %-7s %d\n", c.Catalog, c.Kind, c.Count)
	}
	return r.writePlain("Total: %d\n", total)
}

// CacheClear removes cached lookups, optionally limited to one catalog.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	catalog := cmd.String("catalog")
	switch catalog {
	case "", models.CatalogSpotify.String(), models.CatalogYouTubeMusic.String():
	default:
		return fmt.Errorf("%w: unknown catalog %q", shared.ErrInvalidArgument, catalog)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	removed, err := repositories.NewLookupRepository(db).Clear(ctx, catalog)
	if err != nil {
		return err
	}

	r.logger.Info("cleared lookup cache", "catalog", catalog, "removed", removed)
	return r.writePlain("✓ Removed %d cached lookups\n", removed)
}

// cacheCommand inspects and clears the supplementary lookup cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the album and artist lookup cache",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show cached lookups per catalog",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CacheStats,
			},
			{
				Name:  "clear",
				Usage: "Remove cached lookups",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "catalog",
						Usage: "Only clear one catalog (spotify or ytmusic)",
					},
				},
				Action: r.CacheClear,
			},
		},
	}
}
