// package services defines the catalog capabilities consumed by the matching engine
//
// Spotify (source), YouTube Music via proxy (target)
package services

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// SourceCatalog is the catalog holding the curated playlist.
type SourceCatalog interface {
	// PlaylistTracks returns every track of the playlist in playlist order. Pagination is handled here.
	PlaylistTracks(ctx context.Context, playlistID string) ([]SpotifyTrack, error)

	// FetchArtist resolves an artist referenced only by ID.
	FetchArtist(ctx context.Context, artistID string) (*SpotifyArtist, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// TargetCatalog is the catalog searched for candidates.
type TargetCatalog interface {
	// SearchTracks returns candidate songs in the order ranked by the catalog.
	SearchTracks(ctx context.Context, query string) ([]YouTubeTrack, error)

	// FetchAlbum resolves an album referenced only by ID.
	FetchAlbum(ctx context.Context, albumID string) (*YouTubeAlbum, error)

	// FetchArtist resolves an artist referenced only by ID.
	FetchArtist(ctx context.Context, artistID string) (*YouTubeArtistProfile, error)

	// Name returns the name of the service (e.g., "YouTube Music")
	Name() string
}

type clientOptions struct {
	baseURL     string
	httpClient  *http.Client
	rateLimit   float64
	maxRetries  int
	baseBackoff time.Duration
	logger      *log.Logger
}

// Option configures a catalog client.
type Option func(*clientOptions)

// WithBaseURL overrides the API root, mostly for tests.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) { o.baseURL = u }
}

// WithHTTPClient sets the underlying [http.Client]. For Spotify it is used as the base transport under
// the OAuth2 client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithRateLimit caps outgoing requests per second. Zero or less disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(o *clientOptions) { o.rateLimit = perSecond }
}

// WithRetry sets the retry budget and the first backoff delay.
func WithRetry(maxRetries int, baseBackoff time.Duration) Option {
	return func(o *clientOptions) {
		o.maxRetries = maxRetries
		o.baseBackoff = baseBackoff
	}
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(l *log.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

func buildOptions(defaultBaseURL string, opts []Option) clientOptions {
	o := clientOptions{
		baseURL:     defaultBaseURL,
		httpClient:  http.DefaultClient,
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBackoff,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	return o
}
