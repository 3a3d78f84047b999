package tasks

import (
	"fmt"

	"github.com/desertthunder/lineuplens/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadCatalog Phase = iota
	FetchLibrary
	UseCachedLibrary
	FetchProfile
	MatchArtists
	Complete
)

func (p Phase) String() string {
	switch p {
	case LoadCatalog:
		return "load_catalog"
	case FetchLibrary:
		return "fetch_library"
	case UseCachedLibrary:
		return "use_cached_library"
	case FetchProfile:
		return "fetch_profile"
	case MatchArtists:
		return "match_artists"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func loadCatalogUpdate(festival models.Festival) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadCatalog,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Loading %s lineup...", festival.Name),
	}
}

func catalogLoadedUpdate(catalog *models.Catalog, cached bool) ProgressUpdate {
	source := "source"
	if cached {
		source = "cache"
	}
	return ProgressUpdate{
		Phase:   LoadCatalog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d artists from %s", catalog.Len(), source),
		Data:    catalog,
	}
}

func fetchLibraryUpdate(fetched, total int) ProgressUpdate {
	msg := "Fetching liked songs..."
	if total > 0 {
		msg = fmt.Sprintf("Fetching liked songs (%d/%d)...", fetched, total)
	}
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    fetched,
		Total:   total,
		Message: msg,
	}
}

func cachedLibraryUpdate(meta *models.SyncMetadata) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UseCachedLibrary,
		Step:    meta.TotalSongs,
		Total:   meta.TotalSongs,
		Message: fmt.Sprintf("Using %d cached liked songs from %s", meta.TotalSongs, meta.LastSyncTime.Local().Format("15:04")),
		Data:    meta,
	}
}

func fetchProfileUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchProfile, Step: 0, Total: 1, Message: "Fetching profile..."}
}

func matchArtistsUpdate(artists, songs int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchArtists,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Matching %d artists against %d songs...", artists, songs),
	}
}

func completeUpdate(result *LineupResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d artists you know at %s", len(result.Results), result.Festival.Name),
		Data:    result,
	}
}
