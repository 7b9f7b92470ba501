// Package tasks runs a playlist through the matching engine with real-time progress reporting.
//
// # Core Operation
//
// [MatchEngine.Run] processes one source song at a time, end to end:
//
//  1. Fetches every track of the source playlist from Spotify
//  2. Adapts each track to the canonical model
//  3. Searches YouTube Music with the song name (and first artist when enabled)
//  4. Picks the best candidate with [matcher.Matcher.BestMatch]
//
// Per-track failures (an unadaptable source track, a failed search) are recorded in the track's
// [TrackResult] and the run continues. A failed playlist fetch or a cancelled context ends the run.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI
// rendering. Updates use select with default to prevent blocking.
package tasks
