package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/jmoiron/sqlx"
)

type libraryRow struct {
	Position    int    `db:"position"`
	TrackID     string `db:"track_id"`
	TrackName   string `db:"track_name"`
	ArtistIDs   string `db:"artist_ids"`
	ArtistNames string `db:"artist_names"`
	AlbumName   string `db:"album_name"`
	AddedAt     int64  `db:"added_at"`
	SyncedAt    int64  `db:"synced_at"`
}

func (row libraryRow) entry() (models.LibraryEntry, error) {
	e := models.LibraryEntry{
		TrackID:   row.TrackID,
		TrackName: row.TrackName,
		AlbumName: row.AlbumName,
		AddedAt:   fromMillis(row.AddedAt),
		SyncedAt:  fromMillis(row.SyncedAt),
	}
	if err := decodeJSON(row.ArtistIDs, &e.ArtistIDs); err != nil {
		return e, fmt.Errorf("track %s: %w", row.TrackID, err)
	}
	if err := decodeJSON(row.ArtistNames, &e.ArtistNames); err != nil {
		return e, fmt.Errorf("track %s: %w", row.TrackID, err)
	}
	return e, nil
}

// LibraryRepository persists the saved-track snapshot in library order.
type LibraryRepository struct {
	db *sqlx.DB
}

// NewLibraryRepository creates a new LibraryRepository with the given database connection
func NewLibraryRepository(db *sqlx.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// List returns every entry ordered by position.
func (r *LibraryRepository) List(ctx context.Context) ([]models.LibraryEntry, error) {
	var rows []libraryRow
	query := `
		SELECT position, track_id, track_name, artist_ids, artist_names, album_name, added_at, synced_at
		FROM library_entries
		ORDER BY position
	`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list library: %w", err)
	}

	entries := make([]models.LibraryEntry, 0, len(rows))
	for _, row := range rows {
		e, err := row.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (r *LibraryRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM library_entries`); err != nil {
		return 0, fmt.Errorf("failed to count library: %w", err)
	}
	return n, nil
}

// Replace deletes every stored entry and inserts entries within tx.
func (r *LibraryRepository) Replace(ctx context.Context, tx *sqlx.Tx, entries []models.LibraryEntry) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM library_entries`); err != nil {
		return fmt.Errorf("failed to clear library: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO library_entries (position, track_id, track_name, artist_ids, artist_names, album_name, added_at, synced_at)
		VALUES (:position, :track_id, :track_name, :artist_ids, :artist_names, :album_name, :added_at, :synced_at)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare library insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		ids, err := encodeJSON(e.ArtistIDs)
		if err != nil {
			return err
		}
		names, err := encodeJSON(e.ArtistNames)
		if err != nil {
			return err
		}

		row := libraryRow{
			Position:    i,
			TrackID:     e.TrackID,
			TrackName:   e.TrackName,
			ArtistIDs:   ids,
			ArtistNames: names,
			AlbumName:   e.AlbumName,
			AddedAt:     toMillis(e.AddedAt),
			SyncedAt:    toMillis(e.SyncedAt),
		}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return fmt.Errorf("failed to insert track %s: %w", e.TrackID, err)
		}
	}
	return nil
}

type syncMetadataRow struct {
	LastSyncTime    int64 `db:"last_sync_time"`
	TotalSongs      int   `db:"total_songs"`
	LastFetchedPage int   `db:"last_fetched_page"`
}

// SyncMetadataRepository reads and writes the singleton sync_metadata row.
type SyncMetadataRepository struct {
	db *sqlx.DB
}

// NewSyncMetadataRepository creates a new SyncMetadataRepository with the given database connection
func NewSyncMetadataRepository(db *sqlx.DB) *SyncMetadataRepository {
	return &SyncMetadataRepository{db: db}
}

// Get returns nil without error when the library has never been synced.
func (r *SyncMetadataRepository) Get(ctx context.Context) (*models.SyncMetadata, error) {
	var row syncMetadataRow
	err := r.db.GetContext(ctx, &row, `SELECT last_sync_time, total_songs, last_fetched_page FROM sync_metadata WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sync metadata: %w", err)
	}

	return &models.SyncMetadata{
		LastSyncTime:    fromMillis(row.LastSyncTime),
		TotalSongs:      row.TotalSongs,
		LastFetchedPage: row.LastFetchedPage,
	}, nil
}

// Put upserts the metadata row within tx.
func (r *SyncMetadataRepository) Put(ctx context.Context, tx *sqlx.Tx, m models.SyncMetadata) error {
	query := `
		INSERT INTO sync_metadata (id, last_sync_time, total_songs, last_fetched_page)
		VALUES (1, :last_sync_time, :total_songs, :last_fetched_page)
		ON CONFLICT (id) DO UPDATE SET
			last_sync_time = excluded.last_sync_time,
			total_songs = excluded.total_songs,
			last_fetched_page = excluded.last_fetched_page
	`
	row := syncMetadataRow{
		LastSyncTime:    toMillis(m.LastSyncTime),
		TotalSongs:      m.TotalSongs,
		LastFetchedPage: m.LastFetchedPage,
	}
	if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to write sync metadata: %w", err)
	}
	return nil
}
