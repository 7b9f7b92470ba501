package compare

import (
	"reflect"
	"testing"

	"github.com/desertthunder/songmatch/internal/models"
)

var (
	spotifySrc = models.Source{Catalog: models.CatalogSpotify, ID: "sp1"}
	ytSrc      = models.Source{Catalog: models.CatalogYouTubeMusic, ID: "yt1"}
)

func artists(names ...string) []models.Artist {
	out := make([]models.Artist, len(names))
	for i, n := range names {
		out[i] = models.Artist{Name: n}
	}
	return out
}

// sourceSong and candidateSong share only their name, so only the name rule can score.
func sourceSong(name string, duration *uint32) models.Song {
	return models.Song{
		Name:     name,
		Source:   spotifySrc,
		Album:    models.Album{Name: "Kind of Blue", Type: models.AlbumTypeAlbum(), Artists: artists("Miles Davis")},
		Artists:  artists("Miles Davis"),
		Duration: duration,
	}
}

func candidateSong(name string, duration *uint32) models.Song {
	return models.Song{
		Name:     name,
		Source:   ytSrc,
		Album:    models.Album{Name: "Blue Covers", Type: models.AlbumTypeSingle(), Artists: artists("Cover Band")},
		Artists:  artists("Cover Band"),
		Duration: duration,
	}
}

func hasNote[T models.Note](notes []models.Note) (T, bool) {
	for _, n := range notes {
		if v, ok := n.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestCompareSong(t *testing.T) {
	t.Run("small time difference adds no note", func(t *testing.T) {
		score, notes := CompareSong(sourceSong("Blue", models.Ptr(uint32(200))), candidateSong("Blue", models.Ptr(uint32(205))))
		if score != WName {
			t.Errorf("score = %d, want %d", score, WName)
		}
		if _, ok := hasNote[models.LargeTimeDiff](notes); ok {
			t.Error("did not expect LargeTimeDiff for a 5s difference")
		}
	})

	t.Run("large time difference is annotated but not penalized", func(t *testing.T) {
		score, notes := CompareSong(sourceSong("Blue", models.Ptr(uint32(200))), candidateSong("Blue", models.Ptr(uint32(230))))
		if score != WName {
			t.Errorf("score = %d, want %d", score, WName)
		}
		got, ok := hasNote[models.LargeTimeDiff](notes)
		if !ok {
			t.Fatal("expected LargeTimeDiff note")
		}
		want := models.LargeTimeDiff{Diff: 30, Percent: 0.15, Longer: ytSrc}
		if got != want {
			t.Errorf("note = %+v, want %+v", got, want)
		}
	})

	t.Run("longer track attribution follows the longer side", func(t *testing.T) {
		_, notes := CompareSong(sourceSong("Blue", models.Ptr(uint32(240))), candidateSong("Blue", models.Ptr(uint32(200))))
		got, ok := hasNote[models.LargeTimeDiff](notes)
		if !ok {
			t.Fatal("expected LargeTimeDiff note")
		}
		if got.Longer != spotifySrc || got.Diff != 40 || got.Percent != 0.2 {
			t.Errorf("note = %+v", got)
		}
	})

	t.Run("exactly ten seconds is large", func(t *testing.T) {
		_, notes := CompareSong(sourceSong("Blue", models.Ptr(uint32(200))), candidateSong("Blue", models.Ptr(uint32(210))))
		if _, ok := hasNote[models.LargeTimeDiff](notes); !ok {
			t.Error("expected LargeTimeDiff at the threshold")
		}
	})

	t.Run("missing duration on one side", func(t *testing.T) {
		_, notes := CompareSong(sourceSong("Blue", models.Ptr(uint32(200))), candidateSong("Blue", nil))
		got, ok := hasNote[models.LacksDuration](notes)
		if !ok {
			t.Fatal("expected LacksDuration note")
		}
		if got.Source != ytSrc {
			t.Errorf("LacksDuration source = %v, want %v", got.Source, ytSrc)
		}
	})

	t.Run("missing duration on both sides", func(t *testing.T) {
		_, notes := CompareSong(sourceSong("Blue", nil), candidateSong("Blue", nil))
		var sources []models.Source
		for _, n := range notes {
			if l, ok := n.(models.LacksDuration); ok {
				sources = append(sources, l.Source)
			}
		}
		if !reflect.DeepEqual(sources, []models.Source{spotifySrc, ytSrc}) {
			t.Errorf("LacksDuration sources = %v", sources)
		}
	})

	t.Run("different names", func(t *testing.T) {
		score, notes := CompareSong(sourceSong("Blue", nil), candidateSong("Blue (Live)", nil))
		if score != 0 {
			t.Errorf("score = %d, want 0", score)
		}
		if _, ok := hasNote[models.NameDiff](notes); !ok {
			t.Error("expected NameDiff note")
		}
	})

	t.Run("name comparison is case sensitive", func(t *testing.T) {
		score, _ := CompareSong(sourceSong("Blue", nil), candidateSong("blue", nil))
		if score != 0 {
			t.Errorf("score = %d, want 0", score)
		}
	})

	t.Run("identical songs earn every weight", func(t *testing.T) {
		a := models.Song{
			Name:     "So What",
			Source:   spotifySrc,
			Album:    models.Album{Name: "Kind of Blue", Type: models.AlbumTypeAlbum(), ReleaseYear: models.Ptr(uint16(1959)), Artists: artists("Miles Davis")},
			Artists:  artists("Miles Davis"),
			Duration: models.Ptr(uint32(562)),
		}
		b := a
		b.Source = ytSrc
		score, notes := CompareSong(a, b)
		want := WName + WAlbumName + WAlbumType + WAlbumYear + WAlbumArtists + WArtists
		if score != want {
			t.Errorf("score = %d, want %d", score, want)
		}
		if len(notes) != 0 {
			t.Errorf("notes = %v, want none", notes)
		}
	})

	t.Run("notes follow rule order", func(t *testing.T) {
		_, notes := CompareSong(sourceSong("Blue", models.Ptr(uint32(100))), candidateSong("Green", models.Ptr(uint32(200))))
		var kinds []string
		for _, n := range notes {
			kinds = append(kinds, reflect.TypeOf(n).Name())
		}
		want := []string{"NameDiff", "LargeTimeDiff", "AlbumDifferentName", "AlbumTypeDiff", "MismatchArtists", "MismatchArtists"}
		if !reflect.DeepEqual(kinds, want) {
			t.Errorf("note order = %v, want %v", kinds, want)
		}
	})
}

func TestCompareAlbum(t *testing.T) {
	base := models.Album{
		Name:        "Discovery",
		Type:        models.AlbumTypeAlbum(),
		ReleaseYear: models.Ptr(uint16(2001)),
		Artists:     artists("Daft Punk"),
	}

	tests := []struct {
		name      string
		other     func(models.Album) models.Album
		wantScore uint
		wantNote  models.Note
	}{
		{
			name:      "identical",
			other:     func(a models.Album) models.Album { return a },
			wantScore: WAlbumName + WAlbumType + WAlbumYear + WAlbumArtists,
		},
		{
			name:      "different name",
			other:     func(a models.Album) models.Album { a.Name = "Homework"; return a },
			wantScore: WAlbumType + WAlbumYear + WAlbumArtists,
			wantNote:  models.AlbumDifferentName{First: "Discovery", Second: "Homework"},
		},
		{
			name:      "different type",
			other:     func(a models.Album) models.Album { a.Type = models.AlbumTypeOther("EP"); return a },
			wantScore: WAlbumName + WAlbumYear + WAlbumArtists,
			wantNote:  models.AlbumTypeDiff{First: models.AlbumTypeAlbum(), Second: models.AlbumTypeOther("EP")},
		},
		{
			name:      "different year",
			other:     func(a models.Album) models.Album { a.ReleaseYear = models.Ptr(uint16(2021)); return a },
			wantScore: WAlbumName + WAlbumType + WAlbumArtists,
			wantNote:  models.AlbumYearDiff{First: 2001, Second: 2021},
		},
		{
			name:      "missing year is neither credited nor noted",
			other:     func(a models.Album) models.Album { a.ReleaseYear = nil; return a },
			wantScore: WAlbumName + WAlbumType + WAlbumArtists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, notes := CompareAlbum(base, tt.other(base))
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if tt.wantNote == nil {
				if len(notes) != 0 {
					t.Errorf("notes = %v, want none", notes)
				}
				return
			}
			if len(notes) != 1 || !reflect.DeepEqual(notes[0], tt.wantNote) {
				t.Errorf("notes = %v, want [%v]", notes, tt.wantNote)
			}
		})
	}
}

func TestCompareArtists(t *testing.T) {
	tests := []struct {
		name      string
		scope     models.Scope
		a, b      []models.Artist
		wantScore uint
		wantNote  models.Note
	}{
		{
			name:      "same roster in different order",
			scope:     models.ScopeSong,
			a:         artists("A", "B"),
			b:         artists("B", "A"),
			wantScore: WArtists,
		},
		{
			name:      "second side has a featured artist",
			scope:     models.ScopeSong,
			a:         artists("A"),
			b:         artists("A", "B"),
			wantScore: WArtistsOverlap,
			wantNote:  models.ExtraArtists{Scope: models.ScopeSong, Side: models.Second, Extra: artists("B")},
		},
		{
			name:      "first side has extras at album scope",
			scope:     models.ScopeAlbum,
			a:         artists("A", "B", "C"),
			b:         artists("C"),
			wantScore: WAlbumArtistsOverlap,
			wantNote:  models.ExtraArtists{Scope: models.ScopeAlbum, Side: models.First, Extra: artists("A", "B")},
		},
		{
			name:      "partial overlap",
			scope:     models.ScopeSong,
			a:         artists("A", "B"),
			b:         artists("B", "C"),
			wantScore: WArtistsOverlap,
			wantNote:  models.MismatchArtists{Scope: models.ScopeSong, First: artists("A", "B"), Second: artists("B", "C")},
		},
		{
			name:      "disjoint",
			scope:     models.ScopeAlbum,
			a:         artists("A"),
			b:         artists("B"),
			wantScore: 0,
			wantNote:  models.MismatchArtists{Scope: models.ScopeAlbum, First: artists("A"), Second: artists("B")},
		},
		{
			name:      "empty side is extra without overlap",
			scope:     models.ScopeSong,
			a:         artists("A"),
			b:         nil,
			wantScore: 0,
			wantNote:  models.ExtraArtists{Scope: models.ScopeSong, Side: models.First, Extra: artists("A")},
		},
		{
			name:      "duplicates collapse",
			scope:     models.ScopeSong,
			a:         artists("A", "A"),
			b:         artists("A"),
			wantScore: WArtists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, notes := CompareArtists(tt.scope, tt.a, tt.b)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if tt.wantNote == nil {
				if len(notes) != 0 {
					t.Errorf("notes = %v, want none", notes)
				}
				return
			}
			if len(notes) != 1 || !reflect.DeepEqual(notes[0], tt.wantNote) {
				t.Errorf("notes = %#v, want [%#v]", notes, tt.wantNote)
			}
		})
	}
}

func TestCompareSongProperties(t *testing.T) {
	songs := []models.Song{
		sourceSong("Blue", models.Ptr(uint32(200))),
		candidateSong("Blue", models.Ptr(uint32(230))),
		candidateSong("Green", nil),
		{
			Name:    "Blue",
			Source:  ytSrc,
			Album:   models.Album{Name: "Kind of Blue", Type: models.AlbumTypeOther("compilation"), ReleaseYear: models.Ptr(uint16(1997)), Artists: artists("Miles Davis", "John Coltrane")},
			Artists: artists("John Coltrane", "Miles Davis"),
		},
		{
			Name:     "Blue",
			Source:   spotifySrc,
			Album:    models.Album{Name: "Kind of Blue", Type: models.AlbumTypeAlbum(), ReleaseYear: models.Ptr(uint16(1959))},
			Artists:  artists("Miles Davis", "Bill Evans"),
			Duration: models.Ptr(uint32(0)),
		},
	}

	for i, a := range songs {
		for j, b := range songs {
			ab, notesAB := CompareSong(a, b)
			ba, _ := CompareSong(b, a)
			if ab != ba {
				t.Errorf("score(%d,%d) = %d but score(%d,%d) = %d", i, j, ab, j, i, ba)
			}

			again, notesAgain := CompareSong(a, b)
			if again != ab || !reflect.DeepEqual(notesAB, notesAgain) {
				t.Errorf("CompareSong(%d,%d) is not deterministic", i, j)
			}
		}
	}
}
