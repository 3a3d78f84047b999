package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/shared"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9]{22}$`)

var acceptedMatchTypes = map[string]bool{
	models.MatchExact: true,
	models.MatchYes:   true,
	models.MatchC:     true,
	models.MatchAdd:   true,
}

// Skip reasons recorded in [models.CatalogReport].
const (
	ReasonMissingID = "missing identifier"
	ReasonMatchType = "unsupported match type"
	ReasonMalformed = "malformed identifier"
)

// ValidIdentifier reports whether id is exactly 22 ASCII letters or digits.
func ValidIdentifier(id string) bool {
	return identifierPattern.MatchString(id)
}

// Normalize converts rows into a catalog. Rejected rows are logged and recorded in the report.
//
// The identifier list keeps first-seen order without duplicates; details for a repeated identifier come from its
// last row. Returns [shared.ErrEmptyCatalog] when nothing survives.
func Normalize(id string, rows []Row, logger *log.Logger) (*models.Catalog, *models.CatalogReport, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	catalog := &models.Catalog{ID: id, Details: make(map[string]models.CatalogEntry)}
	report := &models.CatalogReport{TotalRows: len(rows)}

	skip := func(n int, artistID, reason string) {
		report.Skipped = append(report.Skipped, models.SkippedRow{Row: n, ArtistID: artistID, Reason: reason})
	}

	for i, row := range rows {
		n := i + 1
		artistID := strings.TrimSpace(row[ColumnSpotifyID])
		original := strings.TrimSpace(row[ColumnOriginalName])
		matched := strings.TrimSpace(row[ColumnMatchedName])
		matchType := strings.ToLower(strings.TrimSpace(row[ColumnMatchType]))

		if artistID == "" || artistID == "null" {
			logger.Debug("skipping row without identifier", "row", n, "artist", original)
			skip(n, artistID, ReasonMissingID)
			continue
		}

		if matchType != "" && !acceptedMatchTypes[matchType] {
			logger.Info("skipping row with unsupported match type", "row", n, "artist", original, "match_type", matchType)
			skip(n, artistID, fmt.Sprintf("%s %q", ReasonMatchType, matchType))
			continue
		}

		if !ValidIdentifier(artistID) {
			logger.Warn(shared.ErrMalformedIdentifier.Error(), "row", n, "id", artistID, "artist", original)
			skip(n, artistID, ReasonMalformed)
			continue
		}

		if _, seen := catalog.Details[artistID]; seen {
			report.Duplicates++
		} else {
			catalog.ArtistIDs = append(catalog.ArtistIDs, artistID)
		}

		catalog.Details[artistID] = models.CatalogEntry{
			OriginalName: firstNonEmpty(original, matched, models.UnknownArtist),
			MatchedName:  firstNonEmpty(matched, original, models.UnknownArtist),
			MatchType:    firstNonEmpty(matchType, models.MatchUnknown),
		}
	}

	report.Accepted = len(catalog.ArtistIDs)
	if report.Accepted == 0 {
		return nil, report, fmt.Errorf("%w in lineup %q (%d rows read)", shared.ErrEmptyCatalog, id, len(rows))
	}

	catalog.LoadedAt = models.Timestamp(time.Now())
	return catalog, report, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
