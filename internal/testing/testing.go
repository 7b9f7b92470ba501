// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/songmatch/internal/services"
	"github.com/desertthunder/songmatch/internal/shared"
)

// FakeSpotify is a test double for [services.SourceCatalog] returning canned records.
type FakeSpotify struct {
	Playlists   map[string][]services.SpotifyTrack
	Artists     map[string]services.SpotifyArtist
	PlaylistErr error

	mu          sync.Mutex
	ArtistCalls []string
}

func (f *FakeSpotify) Name() string { return "Spotify" }

func (f *FakeSpotify) PlaylistTracks(ctx context.Context, playlistID string) ([]services.SpotifyTrack, error) {
	if f.PlaylistErr != nil {
		return nil, f.PlaylistErr
	}
	tracks, ok := f.Playlists[playlistID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	return tracks, nil
}

func (f *FakeSpotify) FetchArtist(ctx context.Context, artistID string) (*services.SpotifyArtist, error) {
	f.mu.Lock()
	f.ArtistCalls = append(f.ArtistCalls, artistID)
	f.mu.Unlock()

	artist, ok := f.Artists[artistID]
	if !ok {
		return nil, fmt.Errorf("%w: artist %s", shared.ErrResourceNotFound, artistID)
	}
	return &artist, nil
}

// FakeYouTube is a test double for [services.TargetCatalog] returning canned records.
//
// Searches are keyed by the exact query string. Unknown albums and artists fail with
// [shared.ErrResourceNotFound].
type FakeYouTube struct {
	Results   map[string][]services.YouTubeTrack
	Albums    map[string]services.YouTubeAlbum
	Artists   map[string]services.YouTubeArtistProfile
	SearchErr error

	mu          sync.Mutex
	Queries     []string
	AlbumCalls  []string
	ArtistCalls []string
}

func (f *FakeYouTube) Name() string { return "YouTube Music" }

func (f *FakeYouTube) SearchTracks(ctx context.Context, query string) ([]services.YouTubeTrack, error) {
	f.mu.Lock()
	f.Queries = append(f.Queries, query)
	f.mu.Unlock()

	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return f.Results[query], nil
}

func (f *FakeYouTube) FetchAlbum(ctx context.Context, albumID string) (*services.YouTubeAlbum, error) {
	f.mu.Lock()
	f.AlbumCalls = append(f.AlbumCalls, albumID)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	album, ok := f.Albums[albumID]
	if !ok {
		return nil, fmt.Errorf("%w: album %s", shared.ErrResourceNotFound, albumID)
	}
	return &album, nil
}

func (f *FakeYouTube) FetchArtist(ctx context.Context, artistID string) (*services.YouTubeArtistProfile, error) {
	f.mu.Lock()
	f.ArtistCalls = append(f.ArtistCalls, artistID)
	f.mu.Unlock()

	artist, ok := f.Artists[artistID]
	if !ok {
		return nil, fmt.Errorf("%w: artist %s", shared.ErrResourceNotFound, artistID)
	}
	return &artist, nil
}

// Int returns a pointer to n, for optional JSON number fields.
func Int(n int) *int {
	return &n
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}
