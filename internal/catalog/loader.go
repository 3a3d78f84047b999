package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/gregjones/httpcache"
)

// LoaderOpts configures a [Loader].
type LoaderOpts struct {
	// HTTPClient is used for remote sources. When nil a client is built from Timeout and HTTPCache.
	HTTPClient *http.Client
	Timeout    time.Duration
	// HTTPCache wraps the default transport with an in-memory RFC 7234 cache.
	HTTPCache bool
	// BaseDir resolves relative file sources.
	BaseDir string
	Logger  *log.Logger
	Clock   func() time.Time
}

// Loader reads lineup files from disk or over HTTP.
type Loader struct {
	httpClient *http.Client
	baseDir    string
	logger     *log.Logger
	now        func() time.Time
}

// NewLoader creates a loader.
func NewLoader(opts LoaderOpts) *Loader {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
		if opts.HTTPCache {
			client.Transport = httpcache.NewMemoryCacheTransport()
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	return &Loader{
		httpClient: client,
		baseDir:    opts.BaseDir,
		logger:     shared.WithLogger(logger, "component", "catalog"),
		now:        now,
	}
}

// Load reads and parses the lineup at source, validating that the required columns are present.
//
// With bypassCache, remote requests carry a timestamp query parameter and no-cache headers.
func (l *Loader) Load(ctx context.Context, source string, bypassCache bool) (*Table, error) {
	data, err := l.read(ctx, source, bypassCache)
	if err != nil {
		return nil, err
	}

	table, err := ParseRows(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := ValidateColumns(table.Headers); err != nil {
		return nil, fmt.Errorf("lineup %s: %w", source, err)
	}

	l.logger.Debug("parsed lineup", "source", source, "rows", len(table.Rows))
	return table, nil
}

// LoadCatalog loads source and normalizes it into the catalog identified by id.
func (l *Loader) LoadCatalog(ctx context.Context, id, source string, bypassCache bool) (*models.Catalog, *models.CatalogReport, error) {
	table, err := l.Load(ctx, source, bypassCache)
	if err != nil {
		return nil, nil, err
	}

	catalog, report, err := Normalize(id, table.Rows, l.logger)
	if err != nil {
		return nil, report, err
	}
	catalog.LoadedAt = models.Timestamp(l.now())

	l.logger.Info("loaded lineup",
		"festival", id,
		"artists", report.Accepted,
		"skipped", len(report.Skipped),
		"duplicates", report.Duplicates,
	)
	return catalog, report, nil
}

func (l *Loader) read(ctx context.Context, source string, bypassCache bool) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: lineup source", shared.ErrMissingArgument)
	}

	u, err := url.Parse(source)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return l.fetch(ctx, u, bypassCache)
		case "file":
			return l.readFile(u.Path)
		}
	}
	return l.readFile(source)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	if !filepath.IsAbs(path) && l.baseDir != "" {
		path = filepath.Join(l.baseDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lineup %s: %w", path, err)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, u *url.URL, bypassCache bool) ([]byte, error) {
	target := *u
	if bypassCache {
		q := target.Query()
		q.Set("t", strconv.FormatInt(l.now().UnixMilli(), 10))
		target.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")
	if bypassCache {
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Pragma", "no-cache")
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lineup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: failed to fetch lineup: %s", shared.ErrAPIRequest, resp.Status)
	}

	if resp.Header.Get(httpcache.XFromCache) != "" {
		l.logger.Debug("lineup served from cache", "url", u.String())
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lineup body: %w", err)
	}
	return data, nil
}
