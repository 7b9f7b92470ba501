package compare

import "github.com/desertthunder/songmatch/internal/models"

// CompareArtists scores two artist rosters by name, ignoring order and duplicates.
//
// Equal rosters earn the full weight for scope, overlapping rosters the overlap weight. When one roster
// strictly contains the other the note is [models.ExtraArtists]; any other difference is
// [models.MismatchArtists].
func CompareArtists(scope models.Scope, a, b []models.Artist) (uint, []models.Note) {
	full, partial := WArtists, WArtistsOverlap
	if scope == models.ScopeAlbum {
		full, partial = WAlbumArtists, WAlbumArtistsOverlap
	}

	onlyA := missingFrom(a, b)
	onlyB := missingFrom(b, a)

	if len(onlyA) == 0 && len(onlyB) == 0 {
		return full, nil
	}

	var score uint
	if overlaps(a, b) {
		score = partial
	}

	switch {
	case len(onlyB) == 0:
		return score, []models.Note{models.ExtraArtists{Scope: scope, Side: models.First, Extra: onlyA}}
	case len(onlyA) == 0:
		return score, []models.Note{models.ExtraArtists{Scope: scope, Side: models.Second, Extra: onlyB}}
	}

	return score, []models.Note{models.MismatchArtists{
		Scope:  scope,
		First:  append([]models.Artist(nil), a...),
		Second: append([]models.Artist(nil), b...),
	}}
}

func overlaps(a, b []models.Artist) bool {
	for _, x := range a {
		for _, y := range b {
			if x.Name == y.Name {
				return true
			}
		}
	}
	return false
}

// missingFrom returns the artists of xs, in order and without duplicates, whose names are absent from ys.
func missingFrom(xs, ys []models.Artist) []models.Artist {
	present := make(map[string]struct{}, len(ys))
	for _, y := range ys {
		present[y.Name] = struct{}{}
	}

	var missing []models.Artist
	seen := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		if _, ok := present[x.Name]; ok {
			continue
		}
		if _, dup := seen[x.Name]; dup {
			continue
		}
		seen[x.Name] = struct{}{}
		missing = append(missing, x)
	}
	return missing
}
