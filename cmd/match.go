package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/songmatch/internal/formatter"
	"github.com/desertthunder/songmatch/internal/shared"
	"github.com/desertthunder/songmatch/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Match finds the best YouTube Music candidate for every track of a Spotify playlist and prints the results.
//
// Progress goes to the logger so the selected output format stays machine-readable. An interrupted run
// still prints the tracks matched so far.
func (r *Runner) Match(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist")
	if playlistID == "" {
		return fmt.Errorf("%w: --playlist", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	source, target, closeCatalogs, err := r.catalogs(ctx, cmd.String("spotify-token"))
	if err != nil {
		return err
	}
	defer closeCatalogs()

	engine := tasks.NewMatchEngine(source, target, tasks.Options{
		QueryWithArtist: r.config.Matcher.QueryWithArtist,
		Concurrency:     r.config.Matcher.Concurrency,
		Logger:          r.logger,
	})

	progressCh := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progressCh {
			switch update.Phase {
			case tasks.AdaptSource:
				r.logger.Warn(update.Message)
			case tasks.SearchTracks:
				r.logger.Debug(update.Message)
			default:
				r.logger.Info(update.Message)
			}
		}
	}()

	result, runErr := engine.Run(ctx, playlistID, progressCh)
	close(progressCh)
	wg.Wait()

	if result == nil {
		return runErr
	}

	if err := formatter.Write(r.output, result, format, formatter.Options{
		Notes:  cmd.Bool("notes"),
		Styled: format == formatter.FormatText && !cmd.Bool("plain"),
	}); err != nil {
		return err
	}

	return runErr
}

func matchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "match",
		Usage: "Match a Spotify playlist against YouTube Music",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "playlist",
				Aliases:  []string{"p"},
				Usage:    "Spotify playlist ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, csv, markdown, json",
				Value:   string(formatter.FormatText),
			},
			&cli.BoolFlag{
				Name:  "notes",
				Usage: "Include comparison notes for each match",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Disable terminal styles in text output",
			},
			&cli.StringFlag{
				Name:    "spotify-token",
				Usage:   "Use a Spotify access token instead of the client credentials grant",
				Sources: cli.EnvVars("SPOTIFY_ACCESS_TOKEN"),
			},
		},
		Action: r.Match,
	}
}
