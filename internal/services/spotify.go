// Spotify Web API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "https://api.spotify.com/v1"
	defaultPageSize   = 50
	defaultRetryAfter = 3 * time.Second
)

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	Album   SpotifyAlbum    `json:"album"`
	URI     string          `json:"uri"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a simplified Spotify album.
type SpotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}

// SpotifyPaginatedTracks represents a paginated response of saved tracks.
type SpotifyPaginatedTracks struct {
	Items    []SpotifySavedTrack `json:"items"`
	Total    int                 `json:"total"`
	Limit    int                 `json:"limit"`
	Offset   int                 `json:"offset"`
	Next     *string             `json:"next"`
	Previous *string             `json:"previous"`
}

// SpotifySavedTrack represents a track saved in the user's library.
//
// Track is nil for entries the provider can no longer resolve.
type SpotifySavedTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// ProgressFunc receives the running item count and the collection total after each page.
type ProgressFunc func(fetched, total int)

// LibraryPage summarizes a completed library fetch.
type LibraryPage struct {
	Items []SpotifySavedTrack
	Total int
	Pages int
}

// ClientOpts configures a [SpotifyClient].
type ClientOpts struct {
	BaseURL           string
	Tokens            TokenProvider
	HTTPClient        *http.Client
	Logger            *log.Logger
	PageSize          int
	RequestsPerSecond float64
	DefaultRetryAfter time.Duration
	// Sleep waits for d or until ctx is done. Defaults to a timer-based wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// SpotifyClient issues authenticated requests against the resource API.
type SpotifyClient struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
	logger     *log.Logger
	limiter    *rate.Limiter
	pageSize   int
	retryAfter time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewSpotifyClient creates a client. Tokens is required.
func NewSpotifyClient(opts ClientOpts) *SpotifyClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.PageSize <= 0 || opts.PageSize > defaultPageSize {
		opts.PageSize = defaultPageSize
	}
	if opts.DefaultRetryAfter <= 0 {
		opts.DefaultRetryAfter = defaultRetryAfter
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &SpotifyClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		tokens:     opts.Tokens,
		httpClient: opts.HTTPClient,
		logger:     shared.WithLogger(opts.Logger, "component", "api"),
		limiter:    rate.NewLimiter(limit, 1),
		pageSize:   opts.PageSize,
		retryAfter: opts.DefaultRetryAfter,
		sleep:      opts.Sleep,
	}
}

// Request performs an authenticated request. endpoint is either an absolute URL or a path relative to the API base.
//
// A 429 response suspends for Retry-After and reissues the identical request, with no cap on attempts.
func (c *SpotifyClient) Request(ctx context.Context, method, endpoint string, body []byte) (*APIResponse, error) {
	target := c.resolve(endpoint)

	for attempt := 1; ; attempt++ {
		token, ok := c.tokens.GetValidToken(ctx)
		if !ok {
			return nil, &APIError{Kind: shared.ErrUnauthenticated, Message: "no valid access token"}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}

		req, err := http.NewRequestWithContext(ctx, method, target, bodyReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := c.parseRetryAfter(resp.Header.Get("Retry-After"))
			c.logger.Warn("rate limited, backing off", "wait", wait, "attempt", attempt, "url", target)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, &APIError{Kind: shared.ErrRateLimited, Status: resp.StatusCode, Message: err.Error()}
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, newAPIError(resp.StatusCode, resp.Status, data)
		}

		return &APIResponse{StatusCode: resp.StatusCode, Headers: resp.Header, Body: data}, nil
	}
}

// Get performs an authenticated GET.
func (c *SpotifyClient) Get(ctx context.Context, endpoint string) (*APIResponse, error) {
	return c.Request(ctx, http.MethodGet, endpoint, nil)
}

func (c *SpotifyClient) getJSON(ctx context.Context, endpoint string, out any) error {
	resp, err := c.Get(ctx, endpoint)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

// UserProfile fetches the current user's profile.
func (c *SpotifyClient) UserProfile(ctx context.Context) (*models.UserProfile, error) {
	var user SpotifyUser
	if err := c.getJSON(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &models.UserProfile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Country:     user.Country,
		Product:     user.Product,
	}, nil
}

// FetchAllLibraryPages follows next links from the first saved-tracks page until none remain.
//
// onProgress, if set, runs after every page. Any request error aborts the walk and nothing is returned.
func (c *SpotifyClient) FetchAllLibraryPages(ctx context.Context, onProgress ProgressFunc) (*LibraryPage, error) {
	result := &LibraryPage{}
	next := fmt.Sprintf("/me/tracks?limit=%d", c.pageSize)

	for next != "" {
		var page SpotifyPaginatedTracks
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("library page %d: %w", result.Pages+1, err)
		}

		result.Items = append(result.Items, page.Items...)
		result.Total = page.Total
		result.Pages++

		if onProgress != nil {
			onProgress(len(result.Items), page.Total)
		}

		next = ""
		if page.Next != nil {
			next = *page.Next
		}
	}

	c.logger.Debug("library fetched", "items", len(result.Items), "pages", result.Pages)
	return result, nil
}

// ToLibraryEntries converts saved tracks to [models.LibraryEntry] values stamped with syncedAt.
//
// Items without a resolvable track are dropped; artist order is preserved.
func ToLibraryEntries(items []SpotifySavedTrack, syncedAt time.Time) []models.LibraryEntry {
	syncedAt = models.Timestamp(syncedAt)
	entries := make([]models.LibraryEntry, 0, len(items))

	for _, item := range items {
		if item.Track == nil || item.Track.ID == "" {
			continue
		}

		ids := make([]string, 0, len(item.Track.Artists))
		names := make([]string, 0, len(item.Track.Artists))
		for _, a := range item.Track.Artists {
			if a.ID == "" {
				continue
			}
			ids = append(ids, a.ID)
			names = append(names, a.Name)
		}

		var added time.Time
		if item.AddedAt != "" {
			if t, err := time.Parse(time.RFC3339, item.AddedAt); err == nil {
				added = models.Timestamp(t)
			}
		}

		entries = append(entries, models.LibraryEntry{
			TrackID:     item.Track.ID,
			TrackName:   item.Track.Name,
			ArtistIDs:   ids,
			ArtistNames: names,
			AlbumName:   item.Track.Album.Name,
			AddedAt:     added,
			SyncedAt:    syncedAt,
		})
	}
	return entries
}

func (c *SpotifyClient) resolve(endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil && u.IsAbs() {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + endpoint
}

// parseRetryAfter reads delta-seconds. Absent, malformed, or negative values use the default.
func (c *SpotifyClient) parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return c.retryAfter
	}
	return time.Duration(secs) * time.Second
}

func bodyReader(body []byte) io.Reader {
	if body == nil {
		return nil
	}
	return bytes.NewReader(body)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
