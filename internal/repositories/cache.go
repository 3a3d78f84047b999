package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/jmoiron/sqlx"
)

// Stats summarizes what the cache currently holds.
type Stats struct {
	LibraryEntries int                  `json:"library_entries"`
	Sync           *models.SyncMetadata `json:"sync,omitempty"`
	Catalogs       []CatalogSummary     `json:"catalogs"`
}

// Cache is the durable store for library and catalog snapshots.
//
// Library snapshots are replaced whole. Freshness decisions belong to the caller; the cache only records when the
// last sync happened.
type Cache struct {
	db       *sqlx.DB
	library  *LibraryRepository
	metadata *SyncMetadataRepository
	catalogs *CatalogRepository
	now      func() time.Time
}

// NewCache creates a cache over db. The schema must already be migrated.
func NewCache(db *sqlx.DB) *Cache {
	return &Cache{
		db:       db,
		library:  NewLibraryRepository(db),
		metadata: NewSyncMetadataRepository(db),
		catalogs: NewCatalogRepository(db),
		now:      time.Now,
	}
}

// WithClock overrides the clock used to stamp sync metadata.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// GetLibrarySnapshot returns the stored library. It fails with [shared.ErrCacheMiss] if no sync has completed.
func (c *Cache) GetLibrarySnapshot(ctx context.Context) ([]models.LibraryEntry, error) {
	meta, err := c.metadata.Get(ctx)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, fmt.Errorf("%w: library has not been synced", shared.ErrCacheMiss)
	}
	return c.library.List(ctx)
}

// SaveLibrarySnapshot replaces the stored library and records the sync in one transaction.
func (c *Cache) SaveLibrarySnapshot(ctx context.Context, entries []models.LibraryEntry, pages int) (*models.SyncMetadata, error) {
	meta := models.SyncMetadata{
		LastSyncTime:    models.Timestamp(c.now()),
		TotalSongs:      len(entries),
		LastFetchedPage: pages,
	}

	err := withTx(ctx, c.db, func(tx *sqlx.Tx) error {
		if err := c.library.Replace(ctx, tx, entries); err != nil {
			return err
		}
		return c.metadata.Put(ctx, tx, meta)
	})
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// GetSyncMetadata returns nil without error when the library has never been synced.
func (c *Cache) GetSyncMetadata(ctx context.Context) (*models.SyncMetadata, error) {
	return c.metadata.Get(ctx)
}

// GetCatalogSnapshot returns [shared.ErrCacheMiss] when id has no snapshot.
func (c *Cache) GetCatalogSnapshot(ctx context.Context, id string) (*models.Catalog, error) {
	return c.catalogs.Get(ctx, id)
}

func (c *Cache) SaveCatalogSnapshot(ctx context.Context, id string, catalog *models.Catalog) error {
	return c.catalogs.Put(ctx, id, catalog)
}

// Clear drops the library, its sync metadata and every catalog snapshot. Credentials are untouched.
func (c *Cache) Clear(ctx context.Context) error {
	return withTx(ctx, c.db, func(tx *sqlx.Tx) error {
		for _, table := range []string{"library_entries", "sync_metadata", "catalog_snapshots"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// Stats reports entry counts for display.
func (c *Cache) Stats(ctx context.Context) (*Stats, error) {
	n, err := c.library.Count(ctx)
	if err != nil {
		return nil, err
	}
	meta, err := c.metadata.Get(ctx)
	if err != nil {
		return nil, err
	}
	catalogs, err := c.catalogs.List(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{LibraryEntries: n, Sync: meta, Catalogs: catalogs}, nil
}
