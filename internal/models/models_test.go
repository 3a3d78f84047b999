package models

import (
	"testing"
	"time"
)

func TestCredentialExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	margin := 5 * time.Minute

	tc := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{name: "zero expiry", expires: time.Time{}, want: true},
		{name: "already past", expires: now.Add(-time.Second), want: true},
		{name: "one ms inside margin", expires: now.Add(margin - time.Millisecond), want: true},
		{name: "at margin", expires: now.Add(margin), want: true},
		{name: "one ms outside margin", expires: now.Add(margin + time.Millisecond), want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Credential{AccessToken: "a", ExpiresAt: tt.expires}.Expired(now, margin)
			if got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSyncMetadataFresh(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	var nilMeta *SyncMetadata
	if nilMeta.Fresh(now, time.Hour) {
		t.Error("nil metadata should never be fresh")
	}

	meta := &SyncMetadata{LastSyncTime: now.Add(-59 * time.Minute)}
	if !meta.Fresh(now, time.Hour) {
		t.Error("59 minute old snapshot should be fresh")
	}

	meta.LastSyncTime = now.Add(-time.Hour)
	if meta.Fresh(now, time.Hour) {
		t.Error("snapshot exactly one hour old should be stale")
	}
}

func TestCatalogClone(t *testing.T) {
	orig := &Catalog{
		ID:        "fest",
		ArtistIDs: []string{"a"},
		Details:   map[string]CatalogEntry{"a": {OriginalName: "A"}},
	}

	clone := orig.Clone()
	clone.ArtistIDs[0] = "b"
	clone.Details["a"] = CatalogEntry{OriginalName: "changed"}

	if orig.ArtistIDs[0] != "a" || orig.Details["a"].OriginalName != "A" {
		t.Error("mutating the clone changed the original")
	}
	if (*Catalog)(nil).Clone() != nil {
		t.Error("nil clone should be nil")
	}
}

func TestTimestamp(t *testing.T) {
	in := time.Date(2026, 3, 4, 5, 6, 7, 891_234_567, time.FixedZone("X", 3600))
	got := Timestamp(in)
	if got.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", got.Location())
	}
	if got.Nanosecond() != 891_000_000 {
		t.Errorf("expected ms precision, got %d", got.Nanosecond())
	}
	if !Timestamp(time.Time{}).IsZero() {
		t.Error("zero time should stay zero")
	}
}
