package tasks

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/services"
)

// Authenticator supplies access tokens and can force the user back to the signed-out state.
type Authenticator interface {
	GetValidToken(ctx context.Context) (string, bool)
	Logout(ctx context.Context) error
}

// LibraryClient reads the signed-in user's account.
type LibraryClient interface {
	FetchAllLibraryPages(ctx context.Context, onProgress services.ProgressFunc) (*services.LibraryPage, error)
	UserProfile(ctx context.Context) (*models.UserProfile, error)
}

// CatalogSource loads and normalizes a lineup.
type CatalogSource interface {
	LoadCatalog(ctx context.Context, id, source string, bypassCache bool) (*models.Catalog, *models.CatalogReport, error)
}

// SnapshotStore persists library and catalog snapshots between runs.
type SnapshotStore interface {
	GetLibrarySnapshot(ctx context.Context) ([]models.LibraryEntry, error)
	SaveLibrarySnapshot(ctx context.Context, entries []models.LibraryEntry, pages int) (*models.SyncMetadata, error)
	GetSyncMetadata(ctx context.Context) (*models.SyncMetadata, error)
	GetCatalogSnapshot(ctx context.Context, id string) (*models.Catalog, error)
	SaveCatalogSnapshot(ctx context.Context, id string, catalog *models.Catalog) error
}

// FestivalRegistry resolves configured festivals by id.
type FestivalRegistry interface {
	Festival(id string) (models.Festival, error)
}
