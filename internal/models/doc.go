// Package models defines the domain entities shared across LineupLens.
//
// The package contains two categories of types:
//
// 1. Remote data: values sourced from the streaming provider or from lineup files
//   - [Credential] : OAuth access/refresh token pair with expiry
//   - [LibraryEntry] : One saved track with its ordered artist identifiers
//   - [CatalogEntry] : Display metadata for one lineup artist
//   - [Catalog] : The normalized artist set of a single festival lineup
//   - [UserProfile] : The authenticated account
//
// 2. Derived and bookkeeping values
//   - [MatchResult] : A lineup artist with at least one liked song
//   - [SyncMetadata] : Freshness of the cached library snapshot
//   - [CatalogReport] : Rows accepted and skipped while loading a lineup
//   - [Festival] : A configured lineup source
//
// Timestamps are kept in UTC at millisecond precision so that values survive a
// round trip through the local cache unchanged.
package models
