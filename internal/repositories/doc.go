// Package repositories implements SQLite persistence for supplementary catalog lookups.
//
// Adapters resolve albums and artists referenced only by ID. Those records rarely change, so the raw JSON
// returned by a catalog is kept in the lookups table and reused on later runs.
//
// Key Implementations:
//   - [LookupRepository] : raw record storage keyed by catalog, kind and catalog-native ID
//   - [CachedSpotify] : read-through cache around the Spotify artist lookup
//   - [CachedYouTube] : read-through cache around the YouTube Music album and artist lookups
//
// Match results themselves are never stored.
package repositories
