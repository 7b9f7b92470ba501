package adapters

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/desertthunder/songmatch/internal/models"
	"github.com/desertthunder/songmatch/internal/services"
)

// SpotifyAdapter converts [services.SpotifyTrack] records.
//
// Simplified artist objects normally carry a name; one that only carries an ID is resolved through the
// injected [ArtistFetcher].
type SpotifyAdapter struct {
	artists ArtistFetcher[services.SpotifyArtist]
}

// NewSpotifyAdapter creates an adapter. artists may be nil when no enrichment is possible; an artist
// without a name then fails adaptation.
func NewSpotifyAdapter(artists ArtistFetcher[services.SpotifyArtist]) *SpotifyAdapter {
	return &SpotifyAdapter{artists: artists}
}

// Adapt converts a Spotify track into a [models.Song].
func (a *SpotifyAdapter) Adapt(ctx context.Context, track services.SpotifyTrack) (models.Song, error) {
	fail := func(field string, err error) (models.Song, error) {
		return models.Song{}, &AdaptationError{Catalog: models.CatalogSpotify, ID: track.ID, Field: field, Err: err}
	}

	if track.ID == "" {
		return fail("id", errors.New("missing track id"))
	}

	duration, err := spotifyDuration(track.DurationMS)
	if err != nil {
		return fail("duration_ms", err)
	}

	albumType, err := spotifyAlbumType(track.Album.AlbumType)
	if err != nil {
		return fail("album.album_type", err)
	}

	year, err := parseReleaseYear(track.Album.ReleaseDate)
	if err != nil {
		return fail("album.release_date", err)
	}

	albumArtists, err := a.adaptArtists(ctx, track.ID, track.Album.Artists)
	if err != nil {
		return models.Song{}, err
	}

	artists, err := a.adaptArtists(ctx, track.ID, track.Artists)
	if err != nil {
		return models.Song{}, err
	}

	return models.Song{
		Name:   NormalizeName(track.Name),
		Source: models.Source{Catalog: models.CatalogSpotify, ID: track.ID},
		Album: models.Album{
			Name:        NormalizeName(track.Album.Name),
			Type:        albumType,
			ReleaseYear: year,
			Artists:     albumArtists,
		},
		Artists:  artists,
		Duration: duration,
	}, nil
}

func (a *SpotifyAdapter) adaptArtists(ctx context.Context, trackID string, in []services.SpotifyArtist) ([]models.Artist, error) {
	out := make([]models.Artist, 0, len(in))
	for _, artist := range in {
		name := artist.Name
		if name == "" {
			if artist.ID == "" || a.artists == nil {
				return nil, &AdaptationError{
					Catalog: models.CatalogSpotify,
					ID:      trackID,
					Field:   "artists",
					Err:     errors.New("artist has neither name nor resolvable id"),
				}
			}

			full, err := a.artists.FetchArtist(ctx, artist.ID)
			if err != nil {
				return nil, &LookupError{Catalog: models.CatalogSpotify, Kind: "artist", ID: artist.ID, Err: err}
			}
			name = NormalizeName(full.Name)
			if name == "" {
				return nil, &AdaptationError{
					Catalog: models.CatalogSpotify,
					ID:      trackID,
					Field:   "artists",
					Err:     fmt.Errorf("artist %s resolved without a name", artist.ID),
				}
			}
		}
		out = append(out, models.Artist{Name: NormalizeName(name)})
	}
	return out, nil
}

// spotifyAlbumType classifies album_type. Spotify always sends it, so an empty value is a contract
// violation rather than a default.
func spotifyAlbumType(raw string) (models.AlbumType, error) {
	switch raw {
	case "":
		return models.AlbumType{}, errors.New("missing album type")
	case "album":
		return models.AlbumTypeAlbum(), nil
	case "single":
		return models.AlbumTypeSingle(), nil
	default:
		return models.AlbumTypeOther(raw), nil
	}
}

// spotifyDuration rounds milliseconds to whole seconds.
func spotifyDuration(ms *int) (*uint32, error) {
	if ms == nil {
		return nil, nil
	}
	if *ms < 0 {
		return nil, fmt.Errorf("negative duration %d", *ms)
	}
	secs := uint64(*ms) / 1000
	if uint64(*ms)%1000 >= 500 {
		secs++
	}
	if secs > math.MaxUint32 {
		return nil, fmt.Errorf("duration %dms out of range", *ms)
	}
	return models.Ptr(uint32(secs)), nil
}
