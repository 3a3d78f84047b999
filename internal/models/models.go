package models

import (
	"time"
)

// UnknownArtist is the display name used when a lineup row carries no name.
const UnknownArtist = "Unknown Artist"

// Match types accepted in lineup files. [MatchUnknown] is assigned when the column is absent.
const (
	MatchExact   = "exact"
	MatchYes     = "yes"
	MatchC       = "c"
	MatchAdd     = "add"
	MatchUnknown = "unknown"
)

// Timestamp normalizes t to UTC with millisecond precision.
func Timestamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC().Truncate(time.Millisecond)
}

// Credential is the token material owned by the auth flow.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the credential should be refreshed at now.
//
// A zero ExpiresAt is always expired.
func (c Credential) Expired(now time.Time, margin time.Duration) bool {
	if c.ExpiresAt.IsZero() {
		return true
	}
	return !now.Before(c.ExpiresAt.Add(-margin))
}

// LibraryEntry is one saved track in the user's library.
type LibraryEntry struct {
	TrackID     string    `json:"track_id" yaml:"track_id"`
	TrackName   string    `json:"track_name" yaml:"track_name"`
	ArtistIDs   []string  `json:"artist_ids" yaml:"artist_ids"`
	ArtistNames []string  `json:"artist_names" yaml:"artist_names"`
	AlbumName   string    `json:"album_name" yaml:"album_name"`
	AddedAt     time.Time `json:"added_at" yaml:"added_at"`
	SyncedAt    time.Time `json:"synced_at" yaml:"synced_at"`
}

// CatalogEntry holds display metadata for a lineup artist.
type CatalogEntry struct {
	OriginalName string `json:"original_name" yaml:"original_name"`
	MatchedName  string `json:"matched_name" yaml:"matched_name"`
	MatchType    string `json:"match_type" yaml:"match_type"`
}

// Catalog is the normalized artist set for one lineup.
//
// ArtistIDs preserves first-seen order with duplicates removed; Details is keyed by artist ID.
type Catalog struct {
	ID        string                  `json:"id"`
	ArtistIDs []string                `json:"artist_ids"`
	Details   map[string]CatalogEntry `json:"details"`
	LoadedAt  time.Time               `json:"loaded_at"`
}

// Len returns the number of accepted artists.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ArtistIDs)
}

// Clone returns a deep copy so callers cannot mutate cached state.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return nil
	}
	out := &Catalog{
		ID:        c.ID,
		ArtistIDs: append([]string(nil), c.ArtistIDs...),
		Details:   make(map[string]CatalogEntry, len(c.Details)),
		LoadedAt:  c.LoadedAt,
	}
	for id, entry := range c.Details {
		out.Details[id] = entry
	}
	return out
}

// MatchResult is a lineup artist found in the user's library.
type MatchResult struct {
	ArtistID       string `json:"artist_id" yaml:"artist_id"`
	OriginalName   string `json:"original_name" yaml:"original_name"`
	MatchedName    string `json:"matched_name" yaml:"matched_name"`
	LikedSongCount int    `json:"liked_song_count" yaml:"liked_song_count"`
}

// SyncMetadata tracks freshness of the cached library snapshot.
type SyncMetadata struct {
	LastSyncTime    time.Time `json:"last_sync_time"`
	TotalSongs      int       `json:"total_songs"`
	LastFetchedPage int       `json:"last_fetched_page"`
}

// Fresh reports whether a snapshot synced at LastSyncTime is still usable at now.
func (m *SyncMetadata) Fresh(now time.Time, ttl time.Duration) bool {
	if m == nil || m.LastSyncTime.IsZero() {
		return false
	}
	return now.Sub(m.LastSyncTime) < ttl
}

// Festival is a configured lineup source.
type Festival struct {
	ID     string `toml:"id" json:"id" yaml:"id"`
	Name   string `toml:"name" json:"name" yaml:"name"`
	Source string `toml:"source" json:"source" yaml:"source"`
	Image  string `toml:"image" json:"image,omitempty" yaml:"image,omitempty"`
}

// UserProfile is the subset of the provider account we display.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	Product     string `json:"product"`
}

// Name returns the display name, or the account ID when none is set.
func (u *UserProfile) Name() string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.ID
}

// SkippedRow records a lineup row that normalization rejected.
type SkippedRow struct {
	Row      int    `json:"row"`
	ArtistID string `json:"artist_id"`
	Reason   string `json:"reason"`
}

// CatalogReport summarizes a lineup load.
type CatalogReport struct {
	TotalRows  int          `json:"total_rows"`
	Accepted   int          `json:"accepted"`
	Duplicates int          `json:"duplicates"`
	Skipped    []SkippedRow `json:"skipped,omitempty"`
}
