// Package matcher intersects a user's library with a lineup catalog and ranks the artists found.
package matcher

import (
	"sort"
	"strings"

	"github.com/desertthunder/lineuplens/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Counts returns, for each catalog artist present in library, how many times an entry credits them.
func Counts(library []models.LibraryEntry, catalog *models.Catalog) map[string]int {
	counts := make(map[string]int)
	if catalog.Len() == 0 {
		return counts
	}

	members := make(map[string]struct{}, len(catalog.ArtistIDs))
	for _, id := range catalog.ArtistIDs {
		members[id] = struct{}{}
	}

	for _, entry := range library {
		for _, id := range entry.ArtistIDs {
			if _, ok := members[id]; ok {
				counts[id]++
			}
		}
	}
	return counts
}

// Match produces one result per catalog artist with at least one liked song, in catalog order.
func Match(library []models.LibraryEntry, catalog *models.Catalog) []models.MatchResult {
	counts := Counts(library, catalog)
	if len(counts) == 0 {
		return []models.MatchResult{}
	}

	results := make([]models.MatchResult, 0, len(counts))
	for _, id := range catalog.ArtistIDs {
		n := counts[id]
		if n == 0 {
			continue
		}

		result := models.MatchResult{
			ArtistID:       id,
			OriginalName:   models.UnknownArtist,
			MatchedName:    models.UnknownArtist,
			LikedSongCount: n,
		}
		if detail, ok := catalog.Details[id]; ok {
			if detail.OriginalName != "" {
				result.OriginalName = detail.OriginalName
			}
			if detail.MatchedName != "" {
				result.MatchedName = detail.MatchedName
			}
		}
		results = append(results, result)
	}
	return results
}

// Rank sorts results in place by liked song count, highest first.
//
// Equal counts are ordered by original name using a case-insensitive collation, then by raw name and artist ID so
// the output does not depend on input order.
func Rank(results []models.MatchResult) []models.MatchResult {
	col := collate.New(language.Und, collate.IgnoreCase)

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.LikedSongCount != b.LikedSongCount {
			return a.LikedSongCount > b.LikedSongCount
		}
		if c := col.CompareString(a.OriginalName, b.OriginalName); c != 0 {
			return c < 0
		}
		if c := strings.Compare(a.OriginalName, b.OriginalName); c != 0 {
			return c < 0
		}
		return a.ArtistID < b.ArtistID
	})
	return results
}

// MatchAndRank is [Match] followed by [Rank].
func MatchAndRank(library []models.LibraryEntry, catalog *models.Catalog) []models.MatchResult {
	return Rank(Match(library, catalog))
}

// Summary describes a ranked result set. Songs counts artist credits, so a collaboration counts once per artist.
type Summary struct {
	Artists  int `json:"artists" yaml:"artists"`
	Songs    int `json:"songs" yaml:"songs"`
	TopCount int `json:"top_count" yaml:"top_count"`
	Catalog  int `json:"catalog" yaml:"catalog"`
	Library  int `json:"library" yaml:"library"`
}

// Summarize totals results against the sizes of the inputs they came from.
func Summarize(results []models.MatchResult, catalogSize, librarySize int) Summary {
	s := Summary{Artists: len(results), Catalog: catalogSize, Library: librarySize}
	for _, r := range results {
		s.Songs += r.LikedSongCount
		s.TopCount = max(s.TopCount, r.LikedSongCount)
	}
	return s
}
