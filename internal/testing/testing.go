// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/lineuplens/internal/models"
)

// ArtistID returns a well-formed 22 character identifier made of c.
func ArtistID(c byte) string {
	return strings.Repeat(string(c), 22)
}

// Track builds a library entry crediting artistIDs.
func Track(id string, artistIDs ...string) models.LibraryEntry {
	names := make([]string, len(artistIDs))
	for i, a := range artistIDs {
		names[i] = a[:1]
	}
	return models.LibraryEntry{TrackID: id, TrackName: id, ArtistIDs: artistIDs, ArtistNames: names}
}

// Catalog builds a catalog from alternating id, name pairs, preserving their order.
func Catalog(id string, pairs ...string) *models.Catalog {
	c := &models.Catalog{ID: id, Details: make(map[string]models.CatalogEntry)}
	for i := 0; i+1 < len(pairs); i += 2 {
		c.ArtistIDs = append(c.ArtistIDs, pairs[i])
		c.Details[pairs[i]] = models.CatalogEntry{OriginalName: pairs[i+1], MatchedName: pairs[i+1], MatchType: models.MatchExact}
	}
	return c
}

// Results builds ranked results from alternating name, count pairs.
func Results(pairs ...any) []models.MatchResult {
	var out []models.MatchResult
	for i := 0; i+1 < len(pairs); i += 2 {
		name := pairs[i].(string)
		out = append(out, models.MatchResult{
			ArtistID:       ArtistID(strings.ToLower(name)[0]),
			OriginalName:   name,
			MatchedName:    name,
			LikedSongCount: pairs[i+1].(int),
		})
	}
	return out
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

// SyncBuffer is a [bytes.Buffer] safe for concurrent writers, such as loggers derived with With.
type SyncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SyncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *SyncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// RoundTripFunc adapts a function to [http.RoundTripper].
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// StaticResponse returns a transport that answers every request with status and body.
func StaticResponse(status int, body string) RoundTripFunc {
	return func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    r,
		}, nil
	}
}

// WriteFile writes content under dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
