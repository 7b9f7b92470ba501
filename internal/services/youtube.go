// YouTube Music API [TargetCatalog] implementation
//
// Communicates with the FastAPI proxy server wrapping the ytmusicapi Python library.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/desertthunder/songmatch/internal/shared"
)

const defaultYTBaseURL string = "http://localhost:8080"

// YouTubeImage represents an image/thumbnail from YouTube Music.
type YouTubeImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// YouTubeArtist represents an artist reference in YouTube Music responses. Either field may be empty.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YouTubeAlbumRef is the album reference carried by search results.
type YouTubeAlbumRef struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YouTubeTrack represents a song in YouTube Music search results.
type YouTubeTrack struct {
	VideoID     string           `json:"videoId"`
	Title       string           `json:"title"`
	Artists     []YouTubeArtist  `json:"artists"`
	Album       *YouTubeAlbumRef `json:"album"`
	Duration    string           `json:"duration"`         // "3:25"
	DurationSec *int             `json:"duration_seconds"` // nil when not reported
	IsExplicit  bool             `json:"isExplicit"`
	VideoType   string           `json:"videoType"`
	Thumbnails  []YouTubeImage   `json:"thumbnails"`
}

// YouTubeAlbum is the full album record returned by the album endpoint.
type YouTubeAlbum struct {
	BrowseID        string          `json:"browseId"`
	Title           string          `json:"title"`
	Type            string          `json:"type"` // Album, Single, EP, ...
	Year            string          `json:"year"`
	Artists         []YouTubeArtist `json:"artists"`
	TrackCount      int             `json:"trackCount"`
	Duration        string          `json:"duration"`
	AudioPlaylistID string          `json:"audioPlaylistId"`
	Thumbnails      []YouTubeImage  `json:"thumbnails"`
}

// YouTubeArtistProfile is the full artist record returned by the artist endpoint.
type YouTubeArtistProfile struct {
	Name        string `json:"name"`
	ChannelID   string `json:"channelId"`
	Description string `json:"description"`
	Subscribers string `json:"subscribers"`
}

// YouTubeService implements [TargetCatalog] for YouTube Music via proxy.
type YouTubeService struct {
	baseURL  string
	authFile string
	req      *requester
}

// NewYouTubeService creates a new YouTube Music service instance.
func NewYouTubeService(opts ...Option) *YouTubeService {
	o := buildOptions(defaultYTBaseURL, opts)
	if o.baseURL == "" {
		o.baseURL = defaultYTBaseURL
	}

	return &YouTubeService{
		baseURL: o.baseURL,
		req:     newRequester("YouTube Music", o),
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube Music"
}

// Authenticate stores the authentication file path for subsequent requests.
//
// Expects credentials["auth_file"] to contain the path to browser.json or oauth.json.
func (y *YouTubeService) Authenticate(ctx context.Context, credentials map[string]string) error {
	authFile, ok := credentials["auth_file"]
	if !ok || authFile == "" {
		return fmt.Errorf("%w: missing auth_file", shared.ErrMissingCredentials)
	}

	y.authFile = authFile
	return nil
}

func (y *YouTubeService) get(ctx context.Context, endpoint string, result any) error {
	var headers map[string]string
	if y.authFile != "" {
		headers = map[string]string{"X-Auth-File": y.authFile}
	}
	return y.req.getJSON(ctx, y.baseURL+endpoint, headers, result)
}

// Health calls GET /health on the proxy.
func (y *YouTubeService) Health(ctx context.Context) error {
	return y.get(ctx, "/health", nil)
}

// SearchTracks searches songs by free text.
//
// Calls GET /api/search?q={query}&filter=songs on the proxy.
func (y *YouTubeService) SearchTracks(ctx context.Context, query string) ([]YouTubeTrack, error) {
	endpoint := fmt.Sprintf("/api/search?q=%s&filter=songs", url.QueryEscape(query))

	var results []YouTubeTrack
	if err := y.get(ctx, endpoint, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// FetchAlbum retrieves a full album by browse ID.
//
// Calls GET /api/albums/{id} on the proxy.
func (y *YouTubeService) FetchAlbum(ctx context.Context, albumID string) (*YouTubeAlbum, error) {
	var album YouTubeAlbum
	if err := y.get(ctx, "/api/albums/"+url.PathEscape(albumID), &album); err != nil {
		return nil, err
	}
	if album.BrowseID == "" {
		album.BrowseID = albumID
	}
	return &album, nil
}

// FetchArtist retrieves an artist by channel ID.
//
// Calls GET /api/artists/{id} on the proxy.
func (y *YouTubeService) FetchArtist(ctx context.Context, artistID string) (*YouTubeArtistProfile, error) {
	var artist YouTubeArtistProfile
	if err := y.get(ctx, "/api/artists/"+url.PathEscape(artistID), &artist); err != nil {
		return nil, err
	}
	if artist.ChannelID == "" {
		artist.ChannelID = artistID
	}
	return &artist, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrResourceNotFound)
}
