// package tasks implements the playlist matching run.
//
// The core abstraction is MatchEngine, which walks a source playlist and finds the best target catalog
// candidate for every track. Runs emit progress updates via channels for non-blocking status reporting to
// the CLI layer.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songmatch/internal/adapters"
	"github.com/desertthunder/songmatch/internal/matcher"
	"github.com/desertthunder/songmatch/internal/models"
	"github.com/desertthunder/songmatch/internal/services"
	"github.com/desertthunder/songmatch/internal/shared"
)

// TrackResult represents the result of matching a single source track.
type TrackResult struct {
	Position   int                   // Position in the source playlist, from 1
	Track      services.SpotifyTrack // Raw source record
	Source     *models.Song          // Canonical source song (nil if adaptation failed)
	Query      string                // Search query sent to the target catalog
	Candidates int                   // Number of search results
	Best       *matcher.Match        // Best candidate (nil if none adapted)
	Skipped    []matcher.Skip        // Candidates dropped during adaptation
	Err        error                 // Source adaptation or search failure
}

// RunResult contains all data from a matching run.
type RunResult struct {
	PlaylistID      string
	Tracks          []TrackResult
	Total           int     // Total tracks processed
	Matched         int     // Tracks with a best match
	Unmatched       int     // Tracks searched without a usable candidate
	Failed          int     // Tracks whose adaptation or search failed
	MatchPercentage float64 // Matched tracks as a percentage of Total
}

// Options configures a [MatchEngine].
type Options struct {
	// QueryWithArtist appends the first artist to the song name in search queries.
	QueryWithArtist bool
	// Concurrency is passed to the candidate [matcher.Matcher].
	Concurrency int
	Logger      *log.Logger
}

// MatchEngine matches a source catalog playlist against a target catalog.
type MatchEngine struct {
	source        services.SourceCatalog
	target        services.TargetCatalog
	sourceAdapter *adapters.SpotifyAdapter
	matcher       *matcher.Matcher[services.YouTubeTrack]
	opts          Options
	logger        *log.Logger
}

// NewMatchEngine creates a new MatchEngine with the provided catalogs.
//
// The catalogs double as the adapters' supplementary lookups, so wrapping them in a cache also caches
// enrichment.
func NewMatchEngine(source services.SourceCatalog, target services.TargetCatalog, opts Options) *MatchEngine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	e := &MatchEngine{
		source: source,
		target: target,
		opts:   opts,
		logger: logger.WithPrefix("tasks"),
	}
	if source != nil {
		e.sourceAdapter = adapters.NewSpotifyAdapter(source)
	}
	if target != nil {
		e.matcher = matcher.New[services.YouTubeTrack](
			adapters.NewYouTubeAdapter(target, target),
			matcher.Options{Concurrency: opts.Concurrency, Logger: logger},
		)
	}
	return e
}

// sendProgress sends a progress update through the channel without blocking.
func (e *MatchEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run matches every track of the playlist.
//
// Playlist fetch errors are returned as-is. A cancelled context stops the run and returns the tracks
// processed so far alongside the context error.
func (e *MatchEngine) Run(ctx context.Context, playlistID string, progress chan<- ProgressUpdate) (*RunResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: source catalog not initialized", shared.ErrServiceUnavailable)
	}
	if e.target == nil {
		return nil, fmt.Errorf("%w: target catalog not initialized", shared.ErrServiceUnavailable)
	}
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist ID", shared.ErrMissingArgument)
	}

	e.sendProgress(progress, fetchingSourceUpdate(e.source.Name(), playlistID))

	tracks, err := e.source.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	total := len(tracks)
	e.sendProgress(progress, foundPlaylistUpdate(total))
	e.logger.Info("matching playlist", "playlist", playlistID, "tracks", total)

	result := &RunResult{PlaylistID: playlistID, Total: total, Tracks: make([]TrackResult, 0, total)}

	for i, track := range tracks {
		tr, err := e.matchTrack(ctx, i+1, total, track, progress)
		if err != nil {
			result.finish()
			return result, err
		}
		result.Tracks = append(result.Tracks, tr)
	}

	result.finish()
	e.sendProgress(progress, completedUpdate(result))
	return result, nil
}

// matchTrack runs one source track end to end. Only context errors are returned.
func (e *MatchEngine) matchTrack(ctx context.Context, step, total int, track services.SpotifyTrack, progress chan<- ProgressUpdate) (TrackResult, error) {
	tr := TrackResult{Position: step, Track: track}

	if err := ctx.Err(); err != nil {
		return tr, err
	}

	source, err := e.sourceAdapter.Adapt(ctx, track)
	if err != nil {
		if isContextErr(err) {
			return tr, err
		}
		e.logger.Warn("skipping source track", "position", step, "id", track.ID, "err", err)
		e.sendProgress(progress, adaptFailedUpdate(step, total, track.Name, err))
		tr.Err = err
		return tr, nil
	}
	tr.Source = &source
	tr.Query = BuildQuery(source, e.opts.QueryWithArtist)

	e.sendProgress(progress, searchTracksUpdate(step, total, source, tr.Query))

	candidates, err := e.target.SearchTracks(ctx, tr.Query)
	if err != nil {
		if isContextErr(err) {
			return tr, err
		}
		e.logger.Warn("search failed", "position", step, "query", tr.Query, "err", err)
		tr.Err = fmt.Errorf("search %q: %w", tr.Query, err)
		return tr, nil
	}
	tr.Candidates = len(candidates)

	res, err := e.matcher.BestMatch(ctx, source, candidates)
	if err != nil {
		return tr, err
	}
	tr.Best = res.Best
	tr.Skipped = res.Skipped

	e.sendProgress(progress, matchedTrackUpdate(step, total, tr))
	return tr, nil
}

func (r *RunResult) finish() {
	r.Matched, r.Unmatched, r.Failed = 0, 0, 0
	for _, tr := range r.Tracks {
		switch {
		case tr.Err != nil:
			r.Failed++
		case tr.Best != nil:
			r.Matched++
		default:
			r.Unmatched++
		}
	}
	if r.Total > 0 {
		r.MatchPercentage = float64(r.Matched) / float64(r.Total) * 100
	}
}

// BuildQuery returns the search text for song: its name, followed by its first artist when withArtist is set.
func BuildQuery(song models.Song, withArtist bool) string {
	if !withArtist || len(song.Artists) == 0 {
		return song.Name
	}
	return strings.TrimSpace(song.Name + " " + song.Artists[0].Name)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
