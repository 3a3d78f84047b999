package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/jmoiron/sqlx"
)

type catalogRow struct {
	CatalogID string `db:"catalog_id"`
	ArtistIDs string `db:"artist_ids"`
	Details   string `db:"details"`
	LoadedAt  int64  `db:"loaded_at"`
}

func (row catalogRow) catalog() (*models.Catalog, error) {
	c := &models.Catalog{ID: row.CatalogID, LoadedAt: fromMillis(row.LoadedAt)}
	if err := decodeJSON(row.ArtistIDs, &c.ArtistIDs); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", row.CatalogID, err)
	}
	if err := decodeJSON(row.Details, &c.Details); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", row.CatalogID, err)
	}
	return c, nil
}

// CatalogSummary describes a stored catalog without its details.
type CatalogSummary struct {
	ID       string    `json:"id"`
	Artists  int       `json:"artists"`
	LoadedAt time.Time `json:"loaded_at"`
}

// CatalogRepository persists normalized catalogs keyed by festival id.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new CatalogRepository with the given database connection
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Get returns [shared.ErrCacheMiss] when no snapshot exists for id.
func (r *CatalogRepository) Get(ctx context.Context, id string) (*models.Catalog, error) {
	var row catalogRow
	query := `SELECT catalog_id, artist_ids, details, loaded_at FROM catalog_snapshots WHERE catalog_id = ?`
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: catalog %s", shared.ErrCacheMiss, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", id, err)
	}
	return row.catalog()
}

// Put stores catalog under id, replacing any previous snapshot.
func (r *CatalogRepository) Put(ctx context.Context, id string, catalog *models.Catalog) error {
	if catalog == nil {
		return fmt.Errorf("%w: nil catalog", shared.ErrInvalidInput)
	}

	ids, err := encodeJSON(catalog.ArtistIDs)
	if err != nil {
		return err
	}
	details, err := encodeJSON(catalog.Details)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO catalog_snapshots (catalog_id, artist_ids, details, loaded_at)
		VALUES (:catalog_id, :artist_ids, :details, :loaded_at)
		ON CONFLICT (catalog_id) DO UPDATE SET
			artist_ids = excluded.artist_ids,
			details = excluded.details,
			loaded_at = excluded.loaded_at
	`
	row := catalogRow{CatalogID: id, ArtistIDs: ids, Details: details, LoadedAt: toMillis(catalog.LoadedAt)}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to write catalog %s: %w", id, err)
	}
	return nil
}

// List summarizes every stored catalog ordered by id.
func (r *CatalogRepository) List(ctx context.Context) ([]CatalogSummary, error) {
	var rows []catalogRow
	query := `SELECT catalog_id, artist_ids, details, loaded_at FROM catalog_snapshots ORDER BY catalog_id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list catalogs: %w", err)
	}

	out := make([]CatalogSummary, 0, len(rows))
	for _, row := range rows {
		var ids []string
		if err := decodeJSON(row.ArtistIDs, &ids); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", row.CatalogID, err)
		}
		out = append(out, CatalogSummary{
			ID:       row.CatalogID,
			Artists:  len(ids),
			LoadedAt: fromMillis(row.LoadedAt),
		})
	}
	return out, nil
}
