package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineuplens/internal/matcher"
	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/services"
	"github.com/desertthunder/lineuplens/internal/session"
	"github.com/desertthunder/lineuplens/internal/shared"
)

// DefaultLibraryTTL is how long a synced library is reused without fetching.
const DefaultLibraryTTL = time.Hour

// GenerateOpts controls where [LineupEngine.Generate] reads its inputs from.
type GenerateOpts struct {
	// UseCachedCatalog reuses a stored catalog snapshot when one exists. Otherwise the lineup is reloaded with
	// cache-busting.
	UseCachedCatalog bool
	// ForceRefresh fetches the library even when the stored snapshot is fresh.
	ForceRefresh bool
}

// LibraryResult is the outcome of a library sync.
type LibraryResult struct {
	Entries   []models.LibraryEntry
	Metadata  *models.SyncMetadata
	FromCache bool
}

// LineupResult contains all data from one ranking run.
type LineupResult struct {
	Festival         models.Festival       `json:"festival" yaml:"festival"`
	Results          []models.MatchResult  `json:"results" yaml:"results"`
	Summary          matcher.Summary       `json:"summary" yaml:"summary"`
	Report           *models.CatalogReport `json:"-" yaml:"-"`
	LibraryFromCache bool                  `json:"library_from_cache" yaml:"library_from_cache"`
	CatalogFromCache bool                  `json:"catalog_from_cache" yaml:"catalog_from_cache"`
	SyncedAt         time.Time             `json:"synced_at" yaml:"synced_at"`
	GeneratedAt      time.Time             `json:"generated_at" yaml:"generated_at"`
}

// EngineOpts wires a [LineupEngine].
type EngineOpts struct {
	Auth       Authenticator
	Client     LibraryClient
	Catalogs   CatalogSource
	Cache      SnapshotStore
	Festivals  FestivalRegistry
	Session    *session.Session
	LibraryTTL time.Duration
	Logger     *log.Logger
	Clock      func() time.Time
}

// LineupEngine ranks a festival's artists by how often they appear in the user's liked songs.
//
// Each operation is scoped: a failure leaves the session's previous results in place.
type LineupEngine struct {
	auth      Authenticator
	client    LibraryClient
	catalogs  CatalogSource
	cache     SnapshotStore
	festivals FestivalRegistry
	session   *session.Session
	ttl       time.Duration
	logger    *log.Logger
	now       func() time.Time
}

// NewLineupEngine creates an engine. A nil session gets a fresh one.
func NewLineupEngine(opts EngineOpts) *LineupEngine {
	ttl := opts.LibraryTTL
	if ttl <= 0 {
		ttl = DefaultLibraryTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	sess := opts.Session
	if sess == nil {
		sess = session.New()
	}

	return &LineupEngine{
		auth:      opts.Auth,
		client:    opts.Client,
		catalogs:  opts.Catalogs,
		cache:     opts.Cache,
		festivals: opts.Festivals,
		session:   sess,
		ttl:       ttl,
		logger:    shared.WithLogger(logger, "component", "engine"),
		now:       now,
	}
}

// Session returns the session the engine records results in.
func (e *LineupEngine) Session() *session.Session {
	return e.session
}

// sendProgress sends a progress update through the channel without blocking.
func (e *LineupEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *LineupEngine) ready() error {
	switch {
	case e.auth == nil:
		return fmt.Errorf("%w: authenticator not initialized", shared.ErrServiceUnavailable)
	case e.client == nil:
		return fmt.Errorf("%w: Spotify client not initialized", shared.ErrServiceUnavailable)
	case e.catalogs == nil:
		return fmt.Errorf("%w: catalog loader not initialized", shared.ErrServiceUnavailable)
	case e.cache == nil:
		return fmt.Errorf("%w: cache not initialized", shared.ErrServiceUnavailable)
	case e.festivals == nil:
		return fmt.Errorf("%w: festival registry not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

// Generate loads the festival's lineup and the user's library, then matches and ranks them.
func (e *LineupEngine) Generate(ctx context.Context, festivalID string, opts GenerateOpts, progress chan<- ProgressUpdate) (*LineupResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	festival, err := e.festivals.Festival(festivalID)
	if err != nil {
		return nil, err
	}

	if _, ok := e.auth.GetValidToken(ctx); !ok {
		return nil, fmt.Errorf("%w: run `lineuplens auth login` first", shared.ErrNotAuthenticated)
	}

	e.sendProgress(progress, loadCatalogUpdate(festival))
	catalog, report, catalogCached, err := e.loadCatalog(ctx, festival, opts.UseCachedCatalog)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, catalogLoadedUpdate(catalog, catalogCached))

	library, err := e.loadLibrary(ctx, opts.ForceRefresh, progress)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, matchArtistsUpdate(catalog.Len(), len(library.Entries)))
	results := matcher.MatchAndRank(library.Entries, catalog)

	result := &LineupResult{
		Festival:         festival,
		Results:          results,
		Summary:          matcher.Summarize(results, catalog.Len(), len(library.Entries)),
		Report:           report,
		LibraryFromCache: library.FromCache,
		CatalogFromCache: catalogCached,
		GeneratedAt:      models.Timestamp(e.now()),
	}
	if library.Metadata != nil {
		result.SyncedAt = library.Metadata.LastSyncTime
	}

	e.session.SetResults(festival, results)
	e.logger.Info("generated lineup",
		"festival", festival.ID,
		"matched", len(results),
		"catalog", catalog.Len(),
		"library", len(library.Entries),
	)
	e.sendProgress(progress, completeUpdate(result))
	return result, nil
}

// SyncLibrary refreshes the stored library unless it is still fresh and force is false.
func (e *LineupEngine) SyncLibrary(ctx context.Context, force bool, progress chan<- ProgressUpdate) (*LibraryResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if _, ok := e.auth.GetValidToken(ctx); !ok {
		return nil, fmt.Errorf("%w: run `lineuplens auth login` first", shared.ErrNotAuthenticated)
	}
	return e.loadLibrary(ctx, force, progress)
}

// LoadUser fetches the signed-in profile and stores it in the session.
func (e *LineupEngine) LoadUser(ctx context.Context, progress chan<- ProgressUpdate) (*models.UserProfile, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if _, ok := e.auth.GetValidToken(ctx); !ok {
		return nil, fmt.Errorf("%w: run `lineuplens auth login` first", shared.ErrNotAuthenticated)
	}

	e.sendProgress(progress, fetchProfileUpdate())
	user, err := e.client.UserProfile(ctx)
	if err != nil {
		return nil, e.authFailure(ctx, fmt.Errorf("failed to fetch profile: %w", err))
	}

	e.session.SetUser(user)
	return user, nil
}

func (e *LineupEngine) loadCatalog(ctx context.Context, festival models.Festival, useCached bool) (*models.Catalog, *models.CatalogReport, bool, error) {
	if useCached {
		catalog, err := e.cache.GetCatalogSnapshot(ctx, festival.ID)
		switch {
		case err == nil:
			e.logger.Debug("using cached catalog", "festival", festival.ID, "artists", catalog.Len())
			return catalog, nil, true, nil
		case errors.Is(err, shared.ErrCacheMiss):
			e.logger.Debug("no cached catalog", "festival", festival.ID)
		default:
			e.logger.Warn("failed to read cached catalog", "festival", festival.ID, "error", err)
		}
	}

	catalog, report, err := e.catalogs.LoadCatalog(ctx, festival.ID, festival.Source, !useCached)
	if err != nil {
		return nil, report, false, fmt.Errorf("failed to load %s lineup: %w", festival.Name, err)
	}

	if err := e.cache.SaveCatalogSnapshot(ctx, festival.ID, catalog); err != nil {
		e.logger.Warn("failed to cache catalog", "festival", festival.ID, "error", err)
	}
	return catalog, report, false, nil
}

func (e *LineupEngine) loadLibrary(ctx context.Context, force bool, progress chan<- ProgressUpdate) (*LibraryResult, error) {
	now := e.now()

	if !force {
		meta, err := e.cache.GetSyncMetadata(ctx)
		if err != nil {
			e.logger.Warn("failed to read sync metadata", "error", err)
		}
		if meta.Fresh(now, e.ttl) {
			entries, err := e.cache.GetLibrarySnapshot(ctx)
			if err == nil {
				e.sendProgress(progress, cachedLibraryUpdate(meta))
				return &LibraryResult{Entries: entries, Metadata: meta, FromCache: true}, nil
			}
			e.logger.Warn("cached library unavailable, fetching", "error", err)
		}
	}

	e.sendProgress(progress, fetchLibraryUpdate(0, 0))
	page, err := e.client.FetchAllLibraryPages(ctx, func(fetched, total int) {
		e.sendProgress(progress, fetchLibraryUpdate(fetched, total))
	})
	if err != nil {
		return nil, e.authFailure(ctx, fmt.Errorf("failed to fetch library: %w", err))
	}

	entries := services.ToLibraryEntries(page.Items, now)
	meta, err := e.cache.SaveLibrarySnapshot(ctx, entries, page.Pages)
	if err != nil {
		e.logger.Warn("failed to cache library", "error", err)
		meta = &models.SyncMetadata{
			LastSyncTime:    models.Timestamp(now),
			TotalSongs:      len(entries),
			LastFetchedPage: page.Pages,
		}
	}

	e.logger.Info("synced library", "songs", len(entries), "pages", page.Pages)
	return &LibraryResult{Entries: entries, Metadata: meta}, nil
}

// authFailure signs the user out when err shows the provider rejected the token.
func (e *LineupEngine) authFailure(ctx context.Context, err error) error {
	if !errors.Is(err, shared.ErrUnauthenticated) {
		return err
	}

	e.logger.Error("provider rejected credentials, signing out", "error", err)
	if logoutErr := e.auth.Logout(ctx); logoutErr != nil {
		return errors.Join(err, logoutErr)
	}
	return err
}
