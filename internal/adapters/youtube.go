package adapters

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/desertthunder/songmatch/internal/models"
	"github.com/desertthunder/songmatch/internal/services"
)

// YouTubeAdapter converts [services.YouTubeTrack] search results.
//
// Search results only reference their album, so every adaptation performs an album lookup. Artists
// referenced only by channel ID are resolved as well.
type YouTubeAdapter struct {
	albums  AlbumFetcher[services.YouTubeAlbum]
	artists ArtistFetcher[services.YouTubeArtistProfile]
}

// NewYouTubeAdapter creates an adapter backed by the given lookups. albums is required.
func NewYouTubeAdapter(albums AlbumFetcher[services.YouTubeAlbum], artists ArtistFetcher[services.YouTubeArtistProfile]) *YouTubeAdapter {
	return &YouTubeAdapter{albums: albums, artists: artists}
}

// Adapt converts a YouTube Music search result into a [models.Song].
func (a *YouTubeAdapter) Adapt(ctx context.Context, track services.YouTubeTrack) (models.Song, error) {
	fail := func(field string, err error) (models.Song, error) {
		return models.Song{}, &AdaptationError{Catalog: models.CatalogYouTubeMusic, ID: track.VideoID, Field: field, Err: err}
	}

	if track.VideoID == "" {
		return fail("videoId", errors.New("missing video id"))
	}
	if track.Album == nil || track.Album.ID == "" {
		return fail("album", errors.New("no album reference"))
	}

	duration, err := youtubeDuration(track.DurationSec, track.Duration)
	if err != nil {
		return fail("duration", err)
	}

	album, err := a.albums.FetchAlbum(ctx, track.Album.ID)
	if err != nil {
		return models.Song{}, &LookupError{Catalog: models.CatalogYouTubeMusic, Kind: "album", ID: track.Album.ID, Err: err}
	}

	albumType, err := youtubeAlbumType(album.Type)
	if err != nil {
		return fail("album.type", err)
	}

	year, err := parseReleaseYear(album.Year)
	if err != nil {
		return fail("album.year", err)
	}

	albumName := album.Title
	if albumName == "" {
		albumName = track.Album.Name
	}

	albumArtists, err := a.adaptArtists(ctx, track.VideoID, album.Artists)
	if err != nil {
		return models.Song{}, err
	}

	artists, err := a.adaptArtists(ctx, track.VideoID, track.Artists)
	if err != nil {
		return models.Song{}, err
	}

	return models.Song{
		Name:   NormalizeName(track.Title),
		Source: models.Source{Catalog: models.CatalogYouTubeMusic, ID: track.VideoID},
		Album: models.Album{
			Name:        NormalizeName(albumName),
			Type:        albumType,
			ReleaseYear: year,
			Artists:     albumArtists,
		},
		Artists:  artists,
		Duration: duration,
	}, nil
}

func (a *YouTubeAdapter) adaptArtists(ctx context.Context, videoID string, in []services.YouTubeArtist) ([]models.Artist, error) {
	out := make([]models.Artist, 0, len(in))
	for _, artist := range in {
		name := artist.Name
		if name == "" {
			if artist.ID == "" || a.artists == nil {
				return nil, &AdaptationError{
					Catalog: models.CatalogYouTubeMusic,
					ID:      videoID,
					Field:   "artists",
					Err:     errors.New("artist has neither name nor resolvable id"),
				}
			}

			full, err := a.artists.FetchArtist(ctx, artist.ID)
			if err != nil {
				return nil, &LookupError{Catalog: models.CatalogYouTubeMusic, Kind: "artist", ID: artist.ID, Err: err}
			}
			name = NormalizeName(full.Name)
			if name == "" {
				return nil, &AdaptationError{
					Catalog: models.CatalogYouTubeMusic,
					ID:      videoID,
					Field:   "artists",
					Err:     fmt.Errorf("artist %s resolved without a name", artist.ID),
				}
			}
		}
		out = append(out, models.Artist{Name: NormalizeName(name)})
	}
	return out, nil
}

// youtubeAlbumType classifies the album endpoint's type. EP, Audiobook, Show and friends become Other.
func youtubeAlbumType(raw string) (models.AlbumType, error) {
	switch raw {
	case "":
		return models.AlbumType{}, errors.New("missing album type")
	case "Album":
		return models.AlbumTypeAlbum(), nil
	case "Single":
		return models.AlbumTypeSingle(), nil
	default:
		return models.AlbumTypeOther(raw), nil
	}
}

// youtubeDuration prefers duration_seconds and falls back to the "m:ss" or "h:mm:ss" display string.
func youtubeDuration(seconds *int, display string) (*uint32, error) {
	if seconds != nil {
		if *seconds < 0 {
			return nil, fmt.Errorf("negative duration %d", *seconds)
		}
		if uint64(*seconds) > math.MaxUint32 {
			return nil, fmt.Errorf("duration %ds out of range", *seconds)
		}
		return models.Ptr(uint32(*seconds)), nil
	}
	if display == "" {
		return nil, nil
	}

	parts := strings.Split(display, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("malformed duration %q", display)
	}

	var total uint64
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("malformed duration %q: %w", display, err)
		}
		if i > 0 && (n >= 60 || len(part) != 2) {
			return nil, fmt.Errorf("malformed duration %q", display)
		}
		total = total*60 + n
	}
	if total > math.MaxUint32 {
		return nil, fmt.Errorf("duration %q out of range", display)
	}

	return models.Ptr(uint32(total)), nil
}
