// Package models defines the canonical music entities shared by every catalog.
//
// Catalog-specific records are converted into these types by the adapters package, after which any two
// entities of the same type can be compared without further normalization.
//
//   - [Song] : track name, provenance, album, artists and optional duration
//   - [Album] : album name, [AlbumType], optional release year and artist roster
//   - [Artist] : identified by name only
//   - [Source] : catalog origin plus the catalog-native identifier, used for diagnostics
//   - [Note] : closed set of diagnostics explaining a comparison score
//
// Entities are value objects. A [Song] owns its [Album] and [Artist] slice; nothing is shared by reference
// across songs. Optional fields are pointers and nil means the catalog did not report the value.
package models
