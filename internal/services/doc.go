// Package services implements the catalog clients the matching engine consumes as external collaborators.
//
// # Source Catalog
//
// [SpotifyService] reads playlist tracks with OAuth2 client credentials, paginating internally, and
// resolves artists by ID for enrichment. It satisfies [SourceCatalog].
//
// # Target Catalog
//
// [YouTubeService] talks to the FastAPI proxy wrapping ytmusicapi. It searches songs by free text and
// resolves albums and artists by ID. The auth_file path is sent via X-Auth-File header on each request.
// It satisfies [TargetCatalog].
//
// # Transport
//
// Both clients share a [requester] that rate limits outgoing calls with [rate.Limiter] and retries 429
// and 5xx responses with exponential backoff, honoring Retry-After. Retries live here and never in the
// engine.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called or rejected credentials
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrResourceNotFound] : the requested record does not exist
//   - [shared.ErrPlaylistNotFound] : playlist ID not found
package services
