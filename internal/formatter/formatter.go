// package formatter renders matching run results as plain text, CSV, Markdown or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/songmatch/internal/models"
	"github.com/desertthunder/songmatch/internal/shared"
	"github.com/desertthunder/songmatch/internal/tasks"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists every supported format, in help-text order.
var Formats = []Format{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// ParseFormat validates a user-supplied format name. "md" and "txt" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatCSV, FormatMarkdown, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "txt", "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Options controls rendering.
type Options struct {
	Notes  bool     // Include comparison notes for each match
	Styled bool     // Apply terminal styles to text output
	styles *Palette // nil renders unstyled
}

// Write renders result in format f to w.
func Write(w io.Writer, result *tasks.RunResult, f Format, opts Options) error {
	if opts.Styled {
		opts.styles = DefaultPalette()
	}

	var (
		data []byte
		err  error
	)
	switch f {
	case FormatText:
		data = ToText(result, opts)
	case FormatCSV:
		data, err = ToCSV(result)
	case FormatMarkdown:
		data = ToMarkdown(result, opts)
	case FormatJSON:
		data, err = ToJSON(result, opts)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// ToText renders one line per track: "name - score - url" for matches.
func ToText(result *tasks.RunResult, opts Options) []byte {
	var buf bytes.Buffer

	buf.WriteString(opts.styles.Title(fmt.Sprintf("Playlist %s: %d of %d matched", result.PlaylistID, result.Matched, result.Total)))
	buf.WriteString("\n")

	for _, tr := range result.Tracks {
		name := trackName(tr)
		switch {
		case tr.Err != nil:
			buf.WriteString(opts.styles.Err(fmt.Sprintf("%s - error: %v", name, tr.Err)))
		case tr.Best == nil:
			buf.WriteString(opts.styles.Warn(fmt.Sprintf("%s - no match", name)))
		default:
			buf.WriteString(fmt.Sprintf("%s - %d - %s", name, tr.Best.Score, tr.Best.Song.Source.URL()))
		}
		buf.WriteString("\n")

		if opts.Notes && tr.Best != nil {
			for _, n := range tr.Best.Notes {
				buf.WriteString(opts.styles.Help("    " + n.String()))
				buf.WriteString("\n")
			}
		}
	}

	return buf.Bytes()
}

var csvHeaders = []string{"Position", "Source ID", "Title", "Artist", "Status", "Score", "Match ID", "Match Title", "Match Artist", "URL", "Notes", "Error"}

// ToCSV renders one record per track.
func ToCSV(result *tasks.RunResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, tr := range result.Tracks {
		record := []string{
			strconv.Itoa(tr.Position),
			tr.Track.ID,
			trackName(tr),
			firstArtist(tr),
			status(tr),
			"", "", "", "", "", "", "",
		}
		if tr.Best != nil {
			record[5] = strconv.FormatUint(uint64(tr.Best.Score), 10)
			record[6] = tr.Best.Song.Source.ID
			record[7] = tr.Best.Song.Name
			record[8] = strings.Join(models.ArtistNames(tr.Best.Song.Artists), ", ")
			record[9] = tr.Best.Song.Source.URL()
			record[10] = strings.Join(noteStrings(tr.Best.Notes), "; ")
		}
		if tr.Err != nil {
			record[11] = tr.Err.Error()
		}

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown renders a summary and a numbered track list.
func ToMarkdown(result *tasks.RunResult, opts Options) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Playlist %s\n\n", result.PlaylistID))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", result.Total))
	buf.WriteString(fmt.Sprintf("**Matched**: %d (%.1f%%)\n", result.Matched, result.MatchPercentage))
	buf.WriteString(fmt.Sprintf("**Unmatched**: %d\n", result.Unmatched))
	buf.WriteString(fmt.Sprintf("**Failed**: %d\n\n", result.Failed))

	buf.WriteString("## Tracks\n\n")
	for _, tr := range result.Tracks {
		name := trackName(tr)
		switch {
		case tr.Err != nil:
			buf.WriteString(fmt.Sprintf("%d. %s: error (%v)\n", tr.Position, name, tr.Err))
		case tr.Best == nil:
			buf.WriteString(fmt.Sprintf("%d. %s: no match\n", tr.Position, name))
		default:
			buf.WriteString(fmt.Sprintf("%d. %s: [%s](%s) score %d\n", tr.Position, name, tr.Best.Song.Name, tr.Best.Song.Source.URL(), tr.Best.Score))
			if opts.Notes {
				for _, n := range tr.Best.Notes {
					buf.WriteString(fmt.Sprintf("   - %s\n", n))
				}
			}
		}
	}

	return buf.Bytes()
}

type jsonMatch struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artists []string `json:"artists"`
	Album   string   `json:"album"`
	URL     string   `json:"url"`
	Score   uint     `json:"score"`
	Notes   []string `json:"notes,omitempty"`
}

type jsonTrack struct {
	Position   int        `json:"position"`
	SourceID   string     `json:"source_id"`
	Name       string     `json:"name"`
	Artists    []string   `json:"artists"`
	Query      string     `json:"query,omitempty"`
	Candidates int        `json:"candidates"`
	Skipped    int        `json:"skipped"`
	Status     string     `json:"status"`
	Match      *jsonMatch `json:"match,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type jsonRun struct {
	PlaylistID      string      `json:"playlist_id"`
	Total           int         `json:"total"`
	Matched         int         `json:"matched"`
	Unmatched       int         `json:"unmatched"`
	Failed          int         `json:"failed"`
	MatchPercentage float64     `json:"match_percentage"`
	Tracks          []jsonTrack `json:"tracks"`
}

// ToJSON renders the run as an indented JSON document. Notes are included only when opts.Notes is set.
func ToJSON(result *tasks.RunResult, opts Options) ([]byte, error) {
	run := jsonRun{
		PlaylistID:      result.PlaylistID,
		Total:           result.Total,
		Matched:         result.Matched,
		Unmatched:       result.Unmatched,
		Failed:          result.Failed,
		MatchPercentage: result.MatchPercentage,
		Tracks:          make([]jsonTrack, 0, len(result.Tracks)),
	}

	for _, tr := range result.Tracks {
		jt := jsonTrack{
			Position:   tr.Position,
			SourceID:   tr.Track.ID,
			Name:       trackName(tr),
			Artists:    sourceArtists(tr),
			Query:      tr.Query,
			Candidates: tr.Candidates,
			Skipped:    len(tr.Skipped),
			Status:     status(tr),
		}
		if tr.Best != nil {
			jt.Match = &jsonMatch{
				ID:      tr.Best.Song.Source.ID,
				Name:    tr.Best.Song.Name,
				Artists: models.ArtistNames(tr.Best.Song.Artists),
				Album:   tr.Best.Song.Album.Name,
				URL:     tr.Best.Song.Source.URL(),
				Score:   tr.Best.Score,
			}
			if opts.Notes {
				jt.Match.Notes = noteStrings(tr.Best.Notes)
			}
		}
		if tr.Err != nil {
			jt.Error = tr.Err.Error()
		}
		run.Tracks = append(run.Tracks, jt)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func trackName(tr tasks.TrackResult) string {
	if tr.Source != nil {
		return tr.Source.Name
	}
	return tr.Track.Name
}

func sourceArtists(tr tasks.TrackResult) []string {
	if tr.Source != nil {
		return models.ArtistNames(tr.Source.Artists)
	}
	names := make([]string, 0, len(tr.Track.Artists))
	for _, a := range tr.Track.Artists {
		names = append(names, a.Name)
	}
	return names
}

func firstArtist(tr tasks.TrackResult) string {
	if names := sourceArtists(tr); len(names) > 0 {
		return names[0]
	}
	return ""
}

func status(tr tasks.TrackResult) string {
	switch {
	case tr.Err != nil:
		return "failed"
	case tr.Best == nil:
		return "unmatched"
	default:
		return "matched"
	}
}

func noteStrings(notes []models.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.String())
	}
	return out
}
