package models

import (
	"fmt"
	"strings"
)

// Note is a diagnostic explaining why two entities scored as they did.
//
// The set of implementations is closed: only types in this package satisfy it.
type Note interface {
	fmt.Stringer
	note()
}

// Scope tells whether an artist note is about the song roster or the album roster.
type Scope int

const (
	ScopeSong Scope = iota
	ScopeAlbum
)

func (s Scope) String() string {
	if s == ScopeAlbum {
		return "album"
	}
	return "song"
}

// Side identifies an argument of a comparison: First is the left-hand entity (the source song when
// called from the matcher), Second the right-hand one.
type Side int

const (
	First Side = iota
	Second
)

func (s Side) String() string {
	if s == Second {
		return "second"
	}
	return "first"
}

// NameDiff records differing track names.
type NameDiff struct {
	First, Second string
}

// LargeTimeDiff records durations at least ten seconds apart.
type LargeTimeDiff struct {
	Diff    uint32  // seconds
	Percent float64 // Diff relative to the shorter duration, 0.15 means 15%
	Longer  Source  // the longer of the two tracks
}

// LacksDuration records a side that did not report a duration.
type LacksDuration struct {
	Source Source
}

// AlbumDifferentName records differing album names.
type AlbumDifferentName struct {
	First, Second string
}

// AlbumTypeDiff records differing album types.
type AlbumTypeDiff struct {
	First, Second AlbumType
}

// AlbumYearDiff records differing release years.
type AlbumYearDiff struct {
	First, Second uint16
}

// ExtraArtists records a roster that contains every artist of the other plus some more.
type ExtraArtists struct {
	Scope Scope
	Side  Side     // side carrying the extra artists
	Extra []Artist // artists missing from the other side
}

// MismatchArtists records rosters where neither contains the other.
type MismatchArtists struct {
	Scope         Scope
	First, Second []Artist
}

func (NameDiff) note()           {}
func (LargeTimeDiff) note()      {}
func (LacksDuration) note()      {}
func (AlbumDifferentName) note() {}
func (AlbumTypeDiff) note()      {}
func (AlbumYearDiff) note()      {}
func (ExtraArtists) note()       {}
func (MismatchArtists) note()    {}

func (n NameDiff) String() string {
	return fmt.Sprintf("different name: %q vs %q", n.First, n.Second)
}

func (n LargeTimeDiff) String() string {
	return fmt.Sprintf("large time difference: %ds (%.1f%%), longer is %s", n.Diff, n.Percent*100, n.Longer)
}

func (n LacksDuration) String() string {
	return fmt.Sprintf("no duration reported by %s", n.Source)
}

func (n AlbumDifferentName) String() string {
	return fmt.Sprintf("different album name: %q vs %q", n.First, n.Second)
}

func (n AlbumTypeDiff) String() string {
	return fmt.Sprintf("different album type: %s vs %s", n.First, n.Second)
}

func (n AlbumYearDiff) String() string {
	return fmt.Sprintf("different album year: %d vs %d", n.First, n.Second)
}

func (n ExtraArtists) String() string {
	return fmt.Sprintf("%s artists: %s side has extra [%s]", n.Scope, n.Side, joinArtists(n.Extra))
}

func (n MismatchArtists) String() string {
	return fmt.Sprintf("%s artists differ: [%s] vs [%s]", n.Scope, joinArtists(n.First), joinArtists(n.Second))
}

func joinArtists(artists []Artist) string {
	return strings.Join(ArtistNames(artists), ", ")
}
