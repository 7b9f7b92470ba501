package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/songmatch/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a config file from the template when none exists, then initializes the lookup cache database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}

		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return err
		}
		r.config = config
		r.writePlain("✓ Config written to %s\n", configPath)
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.openDatabase()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)

	if cmd.Bool("check-proxy") {
		svc, err := r.youtubeService(ctx)
		if err != nil {
			return err
		}
		if err := svc.Health(ctx); err != nil {
			return fmt.Errorf("%w: YouTube Music proxy at %s: %v", shared.ErrServiceUnavailable, r.config.Credentials.YouTube.ProxyURL, err)
		}
		r.writePlain("✓ YouTube Music proxy reachable at %s\n", r.config.Credentials.YouTube.ProxyURL)
	}

	return nil
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize the lookup cache database",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "check-proxy",
				Usage: "Verify the YouTube Music proxy responds to /health",
			},
		},
		Action: r.Setup,
	}
}
