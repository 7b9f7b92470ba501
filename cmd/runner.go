package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songmatch/internal/repositories"
	"github.com/desertthunder/songmatch/internal/services"
	"github.com/desertthunder/songmatch/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	logger     *log.Logger
	output     io.Writer
	httpClient *http.Client
	source     services.SourceCatalog
	target     services.TargetCatalog
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Source and Target are normally built from the loaded config; tests inject fakes.
type RunnerOpts struct {
	Config     *shared.Config
	Logger     *log.Logger
	Output     io.Writer
	HTTPClient *http.Client
	Source     services.SourceCatalog
	Target     services.TargetCatalog
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		logger:     opts.Logger,
		output:     opts.Output,
		httpClient: opts.HTTPClient,
		source:     opts.Source,
		target:     opts.Target,
	}
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "songmatch",
		Usage:   "Find the best YouTube Music match for every track of a Spotify playlist",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, matchCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before loads the config file when it exists and applies the log level.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", configPath)
	}

	level := r.config.Log.Level
	if cmd.Bool("verbose") {
		level = "debug"
	}
	if level != "" {
		if err := shared.SetLogLevel(r.logger, level); err != nil {
			return ctx, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
		}
	}

	return ctx, nil
}

// catalogs returns the source and target catalogs, building and authenticating clients from the config
// unless they were injected. When lookup caching is enabled both are wrapped with the SQLite cache; the
// returned close func releases the database.
func (r *Runner) catalogs(ctx context.Context, spotifyToken string) (services.SourceCatalog, services.TargetCatalog, func(), error) {
	source, target := r.source, r.target

	if source == nil {
		svc, err := r.spotifyService(ctx, spotifyToken)
		if err != nil {
			return nil, nil, nil, err
		}
		source = svc
	}

	if target == nil {
		svc, err := r.youtubeService(ctx)
		if err != nil {
			return nil, nil, nil, err
		}
		target = svc
	}

	if !r.config.Database.CacheLookups {
		return source, target, func() {}, nil
	}

	db, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("lookup cache unavailable", "err", err)
		return source, target, func() {}, nil
	}

	repo := repositories.NewLookupRepository(db)
	closeFn := func() {
		if err := db.Close(); err != nil {
			r.logger.Warn("failed to close database", "err", err)
		}
	}
	return repositories.NewCachedSpotify(source, repo, r.logger), repositories.NewCachedYouTube(target, repo, r.logger), closeFn, nil
}

func (r *Runner) clientOptions(rateLimit float64) []services.Option {
	return []services.Option{
		services.WithHTTPClient(r.httpClient),
		services.WithRateLimit(rateLimit),
		services.WithRetry(r.config.Matcher.MaxRetries, r.config.Matcher.RetryBackoff()),
		services.WithLogger(r.logger),
	}
}

func (r *Runner) spotifyService(ctx context.Context, accessToken string) (*services.SpotifyService, error) {
	creds := r.config.Credentials.Spotify
	svc, err := services.NewSpotifyService(map[string]string{
		"client_id":     creds.ClientID,
		"client_secret": creds.ClientSecret,
	}, r.clientOptions(creds.RateLimit)...)
	if err != nil {
		return nil, err
	}

	if err := svc.Authenticate(ctx, map[string]string{"access_token": accessToken}); err != nil {
		return nil, fmt.Errorf("spotify authentication failed: %w", err)
	}
	return svc, nil
}

func (r *Runner) youtubeService(ctx context.Context) (*services.YouTubeService, error) {
	creds := r.config.Credentials.YouTube
	opts := append(r.clientOptions(creds.RateLimit), services.WithBaseURL(creds.ProxyURL))
	svc := services.NewYouTubeService(opts...)

	if creds.AuthFile == "" {
		r.logger.Warn("no YouTube Music auth file configured, searching anonymously")
		return svc, nil
	}
	if err := svc.Authenticate(ctx, map[string]string{"auth_file": creds.AuthFile}); err != nil {
		return nil, fmt.Errorf("youtube music authentication failed: %w", err)
	}
	return svc, nil
}

// openDatabase opens the configured database and applies pending migrations.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to run migrations: %w", err), db.Close())
	}
	return db, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
