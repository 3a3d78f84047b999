// Package repositories implements SQLite persistence for the local cache.
//
// Key Implementations:
//   - [KVRepository] : scoped key-value pairs backing the auth token store
//   - [LibraryRepository] : the saved-track snapshot, replaced as a whole on every sync
//   - [SyncMetadataRepository] : a singleton row describing the last library sync
//   - [CatalogRepository] : normalized lineup catalogs keyed by festival id
//   - [Cache] : the facade the lineup engine reads and writes through
//
// Timestamps are stored as Unix milliseconds in UTC. List-valued columns hold JSON arrays.
package repositories
