package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songmatch/internal/models"
	"github.com/desertthunder/songmatch/internal/services"
	"github.com/desertthunder/songmatch/internal/shared"
)

// readThrough returns the cached record for key when present, otherwise calls fetch and stores its result.
//
// The cache never fails a lookup: read, decode and write errors are logged and the catalog is asked instead.
func readThrough[T any](ctx context.Context, repo *LookupRepository, logger *log.Logger, catalog, kind, id string, fetch func(context.Context, string) (*T, error)) (*T, error) {
	cached, err := repo.Get(ctx, catalog, kind, id)
	switch {
	case err == nil:
		var v T
		if err := json.Unmarshal(cached.Payload, &v); err != nil {
			logger.Warn("discarding unreadable cached lookup", "catalog", catalog, "kind", kind, "id", id, "err", err)
			break
		}
		logger.Debug("cache hit", "catalog", catalog, "kind", kind, "id", id)
		return &v, nil
	case !errors.Is(err, shared.ErrResourceNotFound):
		logger.Warn("lookup cache read failed", "catalog", catalog, "kind", kind, "id", id, "err", err)
	}

	v, err := fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		logger.Warn("failed to encode lookup for cache", "catalog", catalog, "kind", kind, "id", id, "err", err)
		return v, nil
	}
	if err := repo.Put(ctx, catalog, kind, id, payload); err != nil {
		logger.Warn("lookup cache write failed", "catalog", catalog, "kind", kind, "id", id, "err", err)
	}
	return v, nil
}

// CachedSpotify wraps a [services.SourceCatalog] so artist lookups are served from the lookups table.
type CachedSpotify struct {
	services.SourceCatalog
	repo   *LookupRepository
	logger *log.Logger
}

// NewCachedSpotify decorates inner with a read-through artist cache.
func NewCachedSpotify(inner services.SourceCatalog, repo *LookupRepository, logger *log.Logger) *CachedSpotify {
	if logger == nil {
		logger = log.Default()
	}
	return &CachedSpotify{SourceCatalog: inner, repo: repo, logger: logger.WithPrefix("cache")}
}

// FetchArtist returns the cached artist or fetches and caches it.
func (c *CachedSpotify) FetchArtist(ctx context.Context, artistID string) (*services.SpotifyArtist, error) {
	return readThrough(ctx, c.repo, c.logger, models.CatalogSpotify.String(), KindArtist, artistID, c.SourceCatalog.FetchArtist)
}

// CachedYouTube wraps a [services.TargetCatalog] so album and artist lookups are served from the lookups
// table. Searches always reach the catalog.
type CachedYouTube struct {
	services.TargetCatalog
	repo   *LookupRepository
	logger *log.Logger
}

// NewCachedYouTube decorates inner with a read-through album and artist cache.
func NewCachedYouTube(inner services.TargetCatalog, repo *LookupRepository, logger *log.Logger) *CachedYouTube {
	if logger == nil {
		logger = log.Default()
	}
	return &CachedYouTube{TargetCatalog: inner, repo: repo, logger: logger.WithPrefix("cache")}
}

// FetchAlbum returns the cached album or fetches and caches it.
func (c *CachedYouTube) FetchAlbum(ctx context.Context, albumID string) (*services.YouTubeAlbum, error) {
	return readThrough(ctx, c.repo, c.logger, models.CatalogYouTubeMusic.String(), KindAlbum, albumID, c.TargetCatalog.FetchAlbum)
}

// FetchArtist returns the cached artist or fetches and caches it.
func (c *CachedYouTube) FetchArtist(ctx context.Context, artistID string) (*services.YouTubeArtistProfile, error) {
	return readThrough(ctx, c.repo, c.logger, models.CatalogYouTubeMusic.String(), KindArtist, artistID, c.TargetCatalog.FetchArtist)
}
