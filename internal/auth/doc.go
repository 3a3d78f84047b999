// Package auth implements the PKCE authorization-code flow against the provider's accounts service.
//
// # Storage
//
// Token material lives in a scoped key-value store ([KV]). Two scopes are used:
//   - [ScopeSession] holds the code verifier and state of a login in progress and is cleared once the callback is handled.
//   - [ScopeCredentials] holds the access token, refresh token and expiry.
//
// [MemoryKV] backs tests and one-off runs; the repositories package provides a SQLite implementation that survives
// between CLI invocations.
//
// # Lifecycle
//
// [Flow.StartLogin] moves the user agent to the authorization endpoint, [Flow.CompleteLogin] exchanges the returned code,
// and [Flow.GetValidToken] hands out a token, refreshing it when it is within [ExpiryMargin] of expiring. A failed refresh
// logs the user out. Concurrent callers share a single in-flight refresh.
package auth
