// Package services implements the authenticated client for the provider's resource API.
//
// # Requests
//
// [SpotifyClient.Request] attaches a bearer token obtained from a [TokenProvider] to every call. Responses are classified:
//   - 429: the client waits for Retry-After (falling back to a configured default) and reissues the same request.
//     There is no retry cap; only context cancellation ends the loop.
//   - 401, 403, and 5xx map to [shared.ErrUnauthenticated], [shared.ErrForbidden], and [shared.ErrServerError].
//   - Any other non-2xx status maps to [shared.ErrAPIRequest] with the message extracted from the JSON error body.
//
// All failures are returned as [*APIError], which unwraps to the matching sentinel.
//
// # Pagination
//
// [SpotifyClient.FetchAllLibraryPages] walks the saved-tracks collection by following each page's next link. Pages are
// fetched one at a time; an error on any page discards what was accumulated.
//
// An optional [rate.Limiter] paces requests client-side. It is disabled unless api.requests_per_second is set.
package services
