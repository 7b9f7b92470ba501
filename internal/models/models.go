// package models defines the canonical data model for cross-catalog matching
package models

import "fmt"

// Catalog identifies an external music metadata provider.
type Catalog int

const (
	CatalogSpotify Catalog = iota
	CatalogYouTubeMusic
)

func (c Catalog) String() string {
	switch c {
	case CatalogSpotify:
		return "spotify"
	case CatalogYouTubeMusic:
		return "ytmusic"
	default:
		return "unknown"
	}
}

// Source tags an entity with its catalog of origin and the catalog-native track identifier.
//
// Spotify IDs are stable base62 track identifiers; YouTube Music IDs are opaque video IDs.
// A Source is provenance only and never takes part in equality comparisons.
type Source struct {
	Catalog Catalog
	ID      string
}

// URL returns the public link for the track.
func (s Source) URL() string {
	switch s.Catalog {
	case CatalogSpotify:
		return "https://open.spotify.com/track/" + s.ID
	case CatalogYouTubeMusic:
		return "https://music.youtube.com/watch?v=" + s.ID
	default:
		return ""
	}
}

func (s Source) String() string {
	return fmt.Sprintf("%s:%s", s.Catalog, s.ID)
}

// Artist is identified by name only.
type Artist struct {
	Name string
}

// AlbumKind enumerates the first-class album types.
type AlbumKind int

const (
	KindAlbum AlbumKind = iota
	KindSingle
	KindOther
)

// AlbumType is a closed tag: Album, Single, or Other with the catalog's own label (EP, compilation, ...).
//
// Label is only set for [KindOther]. Values are comparable with ==.
type AlbumType struct {
	Kind  AlbumKind
	Label string
}

func AlbumTypeAlbum() AlbumType  { return AlbumType{Kind: KindAlbum} }
func AlbumTypeSingle() AlbumType { return AlbumType{Kind: KindSingle} }

// AlbumTypeOther wraps a catalog-specific type that has no first-class equivalent.
func AlbumTypeOther(label string) AlbumType {
	return AlbumType{Kind: KindOther, Label: label}
}

func (t AlbumType) String() string {
	switch t.Kind {
	case KindAlbum:
		return "Album"
	case KindSingle:
		return "Single"
	default:
		return fmt.Sprintf("Other(%s)", t.Label)
	}
}

// Album is the canonical album record.
type Album struct {
	Name        string
	Type        AlbumType
	ReleaseYear *uint16 // nil when the catalog gave no usable date
	Artists     []Artist
}

// Song is the canonical track record.
type Song struct {
	Name     string
	Source   Source
	Album    Album
	Artists  []Artist
	Duration *uint32 // seconds, nil when not reported
}

// Ptr returns a pointer to v, for populating optional fields.
func Ptr[T any](v T) *T {
	return &v
}

// ArtistNames returns the names of artists in order.
func ArtistNames(artists []Artist) []string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return names
}
