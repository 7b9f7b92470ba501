// package adapters converts catalog-native records into the canonical model.
//
// Each catalog has exactly one adapter consuming its fixed record shape. Adapters are one-directional and
// receive their supplementary lookups as injected capabilities, so tests can hand them fakes that return
// canned records.
package adapters

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/songmatch/internal/models"
	"github.com/desertthunder/songmatch/internal/shared"
)

// AlbumFetcher resolves an album referenced only by ID.
type AlbumFetcher[T any] interface {
	FetchAlbum(ctx context.Context, albumID string) (*T, error)
}

// ArtistFetcher resolves an artist referenced only by ID.
type ArtistFetcher[T any] interface {
	FetchArtist(ctx context.Context, artistID string) (*T, error)
}

// AdaptationError reports a record that cannot be converted to canonical form.
type AdaptationError struct {
	Catalog models.Catalog
	ID      string // catalog-native record ID, may be empty
	Field   string
	Err     error
}

func (e *AdaptationError) Error() string {
	return fmt.Sprintf("%s: adapt %s record %q: field %s: %v", shared.ErrAdaptation, e.Catalog, e.ID, e.Field, e.Err)
}

func (e *AdaptationError) Unwrap() []error {
	return []error{shared.ErrAdaptation, e.Err}
}

// LookupError reports a failed supplementary lookup. Err is the collaborator's error, unchanged.
type LookupError struct {
	Catalog models.Catalog
	Kind    string // album or artist
	ID      string
	Err     error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %s %s %q: %v", shared.ErrLookup, e.Catalog, e.Kind, e.ID, e.Err)
}

func (e *LookupError) Unwrap() []error {
	return []error{shared.ErrLookup, e.Err}
}

// parseReleaseYear reads the year from the first four characters of a catalog date ("1981", "1981-12",
// "1981-12-01"). An empty date or the placeholder year 0000 yields nil; anything else that is not a
// four-digit year fails.
func parseReleaseYear(date string) (*uint16, error) {
	if date == "" {
		return nil, nil
	}
	if len(date) < 4 || (len(date) > 4 && date[4] != '-') {
		return nil, fmt.Errorf("malformed date %q", date)
	}

	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("malformed date %q", date)
		}
	}

	year, err := strconv.ParseUint(date[:4], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("malformed date %q: %w", date, err)
	}
	if year == 0 {
		return nil, nil
	}

	return models.Ptr(uint16(year)), nil
}
