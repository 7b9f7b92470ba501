// package compare scores pairs of canonical entities and explains the score with notes.
//
// All functions are pure: no I/O, deterministic, and total over valid canonical entities. The numeric
// score is symmetric in argument order; only the side attribution inside notes depends on it.
package compare

import "github.com/desertthunder/songmatch/internal/models"

// Rule weights. No rule contributes a negative value.
const (
	WName                uint = 100
	WAlbumName           uint = 50
	WAlbumType           uint = 10
	WAlbumYear           uint = 10
	WArtists             uint = 50
	WArtistsOverlap      uint = 25
	WAlbumArtists        uint = 20
	WAlbumArtistsOverlap uint = 10
)

// LargeTimeDiffThreshold is the smallest duration gap, in seconds, that produces a [models.LargeTimeDiff].
const LargeTimeDiffThreshold uint32 = 10

// CompareSong scores b against a. Rules run in order: name, duration, album, artists.
//
// Duration differences only annotate; they never change the score.
func CompareSong(a, b models.Song) (uint, []models.Note) {
	var score uint
	var notes []models.Note

	if a.Name == b.Name {
		score += WName
	} else {
		notes = append(notes, models.NameDiff{First: a.Name, Second: b.Name})
	}

	notes = append(notes, compareDuration(a, b)...)

	albumScore, albumNotes := CompareAlbum(a.Album, b.Album)
	score += albumScore
	notes = append(notes, albumNotes...)

	artistScore, artistNotes := CompareArtists(models.ScopeSong, a.Artists, b.Artists)
	score += artistScore
	notes = append(notes, artistNotes...)

	return score, notes
}

// CompareAlbum scores album b against album a. Rules run in order: name, type, year, artists.
func CompareAlbum(a, b models.Album) (uint, []models.Note) {
	var score uint
	var notes []models.Note

	if a.Name == b.Name {
		score += WAlbumName
	} else {
		notes = append(notes, models.AlbumDifferentName{First: a.Name, Second: b.Name})
	}

	if a.Type == b.Type {
		score += WAlbumType
	} else {
		notes = append(notes, models.AlbumTypeDiff{First: a.Type, Second: b.Type})
	}

	if a.ReleaseYear != nil && b.ReleaseYear != nil {
		if *a.ReleaseYear == *b.ReleaseYear {
			score += WAlbumYear
		} else {
			notes = append(notes, models.AlbumYearDiff{First: *a.ReleaseYear, Second: *b.ReleaseYear})
		}
	}

	artistScore, artistNotes := CompareArtists(models.ScopeAlbum, a.Artists, b.Artists)
	score += artistScore
	notes = append(notes, artistNotes...)

	return score, notes
}

func compareDuration(a, b models.Song) []models.Note {
	switch {
	case a.Duration == nil && b.Duration == nil:
		return []models.Note{
			models.LacksDuration{Source: a.Source},
			models.LacksDuration{Source: b.Source},
		}
	case a.Duration == nil:
		return []models.Note{models.LacksDuration{Source: a.Source}}
	case b.Duration == nil:
		return []models.Note{models.LacksDuration{Source: b.Source}}
	}

	da, db := *a.Duration, *b.Duration
	diff, shorter, longer := db-da, da, b.Source
	if da > db {
		diff, shorter, longer = da-db, db, a.Source
	}
	if diff < LargeTimeDiffThreshold {
		return nil
	}

	return []models.Note{models.LargeTimeDiff{
		Diff:    diff,
		Percent: percentOf(diff, shorter),
		Longer:  longer,
	}}
}

// percentOf returns diff relative to base. A zero base yields 1 so the note stays finite.
func percentOf(diff, base uint32) float64 {
	if base == 0 {
		return 1
	}
	return float64(diff) / float64(base)
}
