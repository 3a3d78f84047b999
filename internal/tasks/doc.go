// Package tasks orchestrates lineup ranking with real-time progress reporting.
//
// # Core Operations
//
// [LineupEngine] exposes three operations:
//
//  1. [LineupEngine.Generate] : rank one festival's artists against the user's liked songs
//     - Resolves the festival from the configured registry
//     - Loads the lineup, bypassing HTTP caches unless a stored snapshot was requested
//     - Reuses the stored library while it is fresh, otherwise fetches every page
//     - Matches, ranks and records the results in the session
//
//  2. [LineupEngine.SyncLibrary] : refresh the stored library on its own
//
//  3. [LineupEngine.LoadUser] : fetch the profile shown in the UI
//
// # Progress Reporting
//
// All operations accept an optional channel of [ProgressUpdate] values. Sends never block; when the channel is full
// the update is dropped.
//
// # Authentication
//
// When the provider rejects the access token the engine signs the user out through [Authenticator.Logout] before
// returning the error.
package tasks
