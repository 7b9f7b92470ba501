package tasks

import (
	"fmt"

	"github.com/desertthunder/songmatch/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	AdaptSource
	SearchTracks
	MatchTracks
	Completed
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case AdaptSource:
		return "adapt_source"
	case SearchTracks:
		return "search_tracks"
	case MatchTracks:
		return "match_tracks"
	case Completed:
		return "completed"
	default:
		return ""
	}
}

func fetchingSourceUpdate(name, playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist %s from %s...", playlistID, name),
	}
}

func foundPlaylistUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist (%d tracks)", total),
	}
}

func adaptFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AdaptSource,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func searchTracksUpdate(step, total int, song models.Song, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching: %s", step, total, query),
		Data:    song,
	}
}

func matchedTrackUpdate(step, total int, tr TrackResult) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✗ %s: no match", step, total, tr.Source.Name)
	if tr.Best != nil {
		msg = fmt.Sprintf("[%d/%d] ✓ %s (score %d)", step, total, tr.Source.Name, tr.Best.Score)
	}
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    tr,
	}
}

func completedUpdate(result *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Completed,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Matched %d of %d tracks (%.1f%%)", result.Matched, result.Total, result.MatchPercentage),
		Data:    result,
	}
}
