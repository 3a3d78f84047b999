package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineuplens/internal/auth"
	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/repositories"
	"github.com/desertthunder/lineuplens/internal/shared"
	tu "github.com/desertthunder/lineuplens/internal/testing"
	"github.com/jmoiron/sqlx"
)

var (
	artistA = tu.ArtistID('a')
	artistB = tu.ArtistID('b')
	artistC = tu.ArtistID('c')
)

var testLineup = "Original Name,Matched Name,Spotify ID,Match Type\n" +
	"Alpha,Alpha," + artistA + ",exact\n" +
	"Bravo,Bravo," + artistB + ",yes\n" +
	"Charlie,Charlie," + artistC + ",add\n" +
	"Broken,Broken,not-an-id,exact\n"

// fakeSpotify serves the resource API and token endpoint.
func fakeSpotify(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"id":"pat","display_name":"Pat","country":"US","product":"premium"}`)
	})
	mux.HandleFunc("GET /me/tracks", func(w http.ResponseWriter, r *http.Request) {
		track := func(id string, artists ...string) map[string]any {
			list := make([]map[string]string, len(artists))
			for i, a := range artists {
				list[i] = map[string]string{"id": a, "name": a[:1]}
			}
			return map[string]any{"added_at": "2025-01-01T00:00:00Z", "track": map[string]any{"id": id, "name": id, "artists": list}}
		}

		page := map[string]any{"total": 3, "next": nil}
		if r.URL.Query().Get("offset") == "" {
			next := "http://" + r.Host + "/me/tracks?offset=2"
			page["items"] = []any{track("t1", artistB), track("t2", artistA, artistB)}
			page["next"] = next
		} else {
			page["items"] = []any{track("t3", artistB, tu.ArtistID('z'))}
		}
		json.NewEncoder(w).Encode(page)
	})
	mux.HandleFunc("POST /api/token", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("code_verifier") == "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"access-token","refresh_token":"refresh-token","token_type":"Bearer","expires_in":3600}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

type testEnv struct {
	runner *Runner
	output *bytes.Buffer
	logs   *tu.SyncBuffer
	db     *sqlx.DB
	dir    string
	config *shared.Config
}

func newTestEnv(t *testing.T, apiURL string) *testEnv {
	t.Helper()

	dir := t.TempDir()
	tu.WriteFile(t, dir, "lineup.csv", testLineup)

	config := shared.DefaultConfig()
	config.Spotify.ClientID = "client-id"
	config.Spotify.APIBaseURL = apiURL
	config.Spotify.TokenURL = apiURL + "/api/token"
	config.Festivals = []models.Festival{{ID: "fest", Name: "Test Fest", Source: "lineup.csv"}}

	output := &bytes.Buffer{}
	logs := &tu.SyncBuffer{}
	db := setupTestDB(t)
	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: filepath.Join(dir, "config.toml"),
		Logger:     shared.NewLogger(logs),
		Output:     output,
		DB:         db,
		Navigate:   func(string) error { return nil },
	})
	return &testEnv{runner: runner, output: output, logs: logs, db: db, dir: dir, config: config}
}

func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	e.output.Reset()
	return e.runner.app().Run(context.Background(), append([]string{"lineuplens"}, args...))
}

func (e *testEnv) signIn(t *testing.T) {
	t.Helper()
	store := auth.NewTokenStore(repositories.NewKVRepository(e.db))
	cred := models.Credential{AccessToken: "access-token", RefreshToken: "refresh-token", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save(context.Background(), cred); err != nil {
		t.Fatalf("failed to seed credential: %v", err)
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.configDir() != "/test/path" {
				t.Errorf("expected config dir /test/path, got %s", runner.configDir())
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
			if runner.navigate == nil {
				t.Error("expected a default navigator")
			}
			if runner.engine != nil {
				t.Error("expected engine to be built lazily")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.NewLimitedWriter(1, &bytes.Buffer{})})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes formatted text", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("Hello, %s!", "World"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "Hello, World!" {
				t.Errorf("expected %q, got %q", "Hello, World!", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writePlain("test"); err == nil {
				t.Fatal("expected error from failing writer")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "auth", "library", "festivals", "match", "cache", "api", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}

func TestRootFlags(t *testing.T) {
	t.Run("verbose lowers the log level", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		if err := env.run(t, "--verbose", "festivals", "list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if env.runner.logger.GetLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", env.runner.logger.GetLevel())
		}
	})

	t.Run("quiet raises the log level", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		if err := env.run(t, "--quiet", "festivals", "list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if env.runner.logger.GetLevel() != log.ErrorLevel {
			t.Errorf("expected error level, got %v", env.runner.logger.GetLevel())
		}
	})

	t.Run("config flag loads the file", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		path := tu.WriteFile(t, env.dir, "custom.toml", `
[[festivals]]
id = "custom"
name = "Custom Fest"
source = "custom.csv"
`)
		if err := env.run(t, "--config", path, "festivals", "list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(env.output.String(), "Custom Fest") {
			t.Errorf("expected festivals from custom config, got %q", env.output.String())
		}
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		path := tu.WriteFile(t, env.dir, "bad.toml", "[[festivals]]\nid = \"x\"\n")

		err := env.run(t, "--config", path, "festivals", "list")
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestFestivals(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		if err := env.run(t, "festivals", "list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(env.output.String(), "Test Fest") {
			t.Errorf("expected festival in output, got %q", env.output.String())
		}
	})

	t.Run("list as JSON", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		if err := env.run(t, "festivals", "list", "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var festivals []models.Festival
		if err := json.Unmarshal(env.output.Bytes(), &festivals); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(festivals) != 1 || festivals[0].ID != "fest" {
			t.Errorf("unexpected festivals: %+v", festivals)
		}
	})

	t.Run("validate reports skipped rows", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		if err := env.run(t, "festivals", "validate", "fest"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := env.output.String()
		for _, want := range []string{"Artists:    3", "Skipped:    1", "not-an-id"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output, got %q", want, out)
			}
		}
	})

	t.Run("validate lists skipped rows of an empty lineup", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		tu.WriteFile(t, env.dir, "empty.csv", "Original Name,Matched Name,Spotify ID,Match Type\n"+
			"Ghost,Ghost,null,exact\n"+
			"Typo,Typo,short-id,exact\n")
		env.config.Festivals = append(env.config.Festivals, models.Festival{ID: "empty", Name: "Empty Fest", Source: "empty.csv"})

		if err := env.run(t, "festivals", "validate", "empty"); !errors.Is(err, shared.ErrEmptyCatalog) {
			t.Fatalf("expected ErrEmptyCatalog, got %v", err)
		}

		out := env.output.String()
		for _, want := range []string{"Artists:    0", "Skipped:    2", "missing identifier", "short-id", "malformed identifier"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output, got %q", want, out)
			}
		}
	})

	t.Run("validate unknown festival", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		if err := env.run(t, "festivals", "validate", "nope"); !errors.Is(err, shared.ErrFestivalNotFound) {
			t.Errorf("expected ErrFestivalNotFound, got %v", err)
		}
	})

	t.Run("validate requires an id", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		if err := env.run(t, "festivals", "validate"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestMatch(t *testing.T) {
	t.Run("ranks the lineup against the library", func(t *testing.T) {
		api := fakeSpotify(t)
		env := newTestEnv(t, api.URL)
		env.signIn(t)

		if err := env.run(t, "match", "--format", "csv", "fest"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(env.output.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 rows, got %q", env.output.String())
		}
		if lines[0] != "Rank,Artist,Matched Name,Spotify ID,Liked Songs" {
			t.Errorf("unexpected header %q", lines[0])
		}
		if lines[1] != "1,Bravo,Bravo,"+artistB+",3" {
			t.Errorf("unexpected first row %q", lines[1])
		}
		if lines[2] != "2,Alpha,Alpha,"+artistA+",1" {
			t.Errorf("unexpected second row %q", lines[2])
		}
		if strings.Contains(env.output.String(), artistC) {
			t.Error("artists without liked songs must not be listed")
		}
	})

	t.Run("limit and output file", func(t *testing.T) {
		api := fakeSpotify(t)
		env := newTestEnv(t, api.URL)
		env.signIn(t)
		path := filepath.Join(env.dir, "out.json")

		if err := env.run(t, "match", "--format", "json", "--limit", "1", "--output", path, "fest"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var result struct {
			Results []models.MatchResult `json:"results"`
		}
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, path)), &result); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(result.Results) != 1 || result.Results[0].OriginalName != "Bravo" {
			t.Errorf("expected only Bravo, got %+v", result.Results)
		}
	})

	t.Run("second run reuses the library snapshot", func(t *testing.T) {
		api := fakeSpotify(t)
		env := newTestEnv(t, api.URL)
		env.signIn(t)

		if err := env.run(t, "match", "fest"); err != nil {
			t.Fatalf("first run: %v", err)
		}
		api.Close()

		if err := env.run(t, "match", "--format", "json", "fest"); err != nil {
			t.Fatalf("second run should not touch the API: %v", err)
		}
		if !strings.Contains(env.output.String(), `"library_from_cache": true`) {
			t.Errorf("expected cached library, got %q", env.output.String())
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		if err := env.run(t, "match", "fest"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		if err := env.run(t, "match", "--format", "xml", "fest"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("unknown festival", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		env.signIn(t)
		if err := env.run(t, "match", "nope"); !errors.Is(err, shared.ErrFestivalNotFound) {
			t.Errorf("expected ErrFestivalNotFound, got %v", err)
		}
	})
}

func TestLibraryAndCache(t *testing.T) {
	api := fakeSpotify(t)
	env := newTestEnv(t, api.URL)
	env.signIn(t)

	if err := env.run(t, "library", "status"); err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(env.output.String(), "never been synced") {
		t.Errorf("expected never-synced message, got %q", env.output.String())
	}

	if err := env.run(t, "library", "sync"); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !strings.Contains(env.output.String(), "Synced 3 liked songs over 2 pages") {
		t.Errorf("unexpected sync output %q", env.output.String())
	}

	if err := env.run(t, "library", "sync"); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if !strings.Contains(env.output.String(), "Library is fresh") {
		t.Errorf("expected fresh snapshot, got %q", env.output.String())
	}

	if err := env.run(t, "cache", "status", "--json"); err != nil {
		t.Fatalf("cache status: %v", err)
	}
	var stats repositories.Stats
	if err := json.Unmarshal(env.output.Bytes(), &stats); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if stats.LibraryEntries != 3 || stats.Sync == nil {
		t.Errorf("unexpected stats %+v", stats)
	}

	if err := env.run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if err := env.run(t, "cache", "status"); err != nil {
		t.Fatalf("cache status: %v", err)
	}
	if !strings.Contains(env.output.String(), "Last sync:     never") {
		t.Errorf("expected cleared cache, got %q", env.output.String())
	}

	if err := env.run(t, "auth", "status"); err != nil {
		t.Fatalf("auth status: %v", err)
	}
	if !strings.Contains(env.output.String(), "✓ Authenticated") {
		t.Error("clearing the cache must keep credentials")
	}
}

func TestAuth(t *testing.T) {
	t.Run("status when signed out", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		if err := env.run(t, "auth", "status"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(env.output.String(), "Not authenticated") {
			t.Errorf("unexpected output %q", env.output.String())
		}
	})

	t.Run("logout clears credentials", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		env.signIn(t)

		if err := env.run(t, "auth", "logout"); err != nil {
			t.Fatalf("logout: %v", err)
		}
		if err := env.run(t, "auth", "status", "--json"); err != nil {
			t.Fatalf("status: %v", err)
		}

		var status auth.Status
		if err := json.Unmarshal(env.output.Bytes(), &status); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if status.Authenticated {
			t.Error("expected signed out")
		}
	})

	t.Run("login requires a client id", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		env.config.Spotify.ClientID = ""
		if err := env.run(t, "auth", "login"); !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("login completes through the loopback callback", func(t *testing.T) {
		api := fakeSpotify(t)
		env := newTestEnv(t, api.URL)

		port := freePort(t)
		env.config.Server.Port = port
		env.config.Spotify.RedirectURI = fmt.Sprintf("http://127.0.0.1:%d/callback", port)

		callbackErrs := make(chan error, 1)
		env.runner.navigate = func(authURL string) error {
			u, err := url.Parse(authURL)
			if err != nil {
				return err
			}
			q := u.Query()
			go func() {
				resp, err := http.Get(q.Get("redirect_uri") + "?code=the-code&state=" + url.QueryEscape(q.Get("state")))
				if err == nil {
					resp.Body.Close()
				}
				callbackErrs <- err
			}()
			return nil
		}

		if err := env.run(t, "auth", "login", "--timeout", "10s"); err != nil {
			t.Fatalf("login: %v", err)
		}
		if err := <-callbackErrs; err != nil {
			t.Fatalf("callback request: %v", err)
		}
		if !strings.Contains(env.output.String(), "✓ Signed in") {
			t.Errorf("unexpected output %q", env.output.String())
		}
		if !strings.Contains(env.output.String(), "Account: Pat") {
			t.Errorf("expected profile name, got %q", env.output.String())
		}

		cred, err := auth.NewTokenStore(repositories.NewKVRepository(env.db)).Load(context.Background())
		if err != nil || cred == nil || cred.AccessToken != "access-token" {
			t.Errorf("expected stored credential, got %+v (%v)", cred, err)
		}
	})

	t.Run("login times out without a callback", func(t *testing.T) {
		env := newTestEnv(t, "http://unused")
		port := freePort(t)
		env.config.Server.Port = port
		env.config.Spotify.RedirectURI = fmt.Sprintf("http://127.0.0.1:%d/callback", port)

		err := env.run(t, "auth", "login", "--no-browser", "--timeout", "50ms")
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
		if !strings.Contains(env.output.String(), "accounts.spotify.com/authorize") {
			t.Errorf("expected authorization URL, got %q", env.output.String())
		}
	})
}

func TestAPIGet(t *testing.T) {
	api := fakeSpotify(t)
	env := newTestEnv(t, api.URL)

	if err := env.run(t, "api", "get", "/me"); !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated before login, got %v", err)
	}

	env.signIn(t)
	if err := env.run(t, "api", "get", "--pretty=false", "/me"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(env.output.String(), `"display_name":"Pat"`) {
		t.Errorf("unexpected output %q", env.output.String())
	}

	t.Run("rejected token signs out", func(t *testing.T) {
		env := newTestEnv(t, api.URL)
		store := auth.NewTokenStore(repositories.NewKVRepository(env.db))
		stale := models.Credential{AccessToken: "revoked", RefreshToken: "refresh-token", ExpiresAt: time.Now().Add(time.Hour)}
		if err := store.Save(context.Background(), stale); err != nil {
			t.Fatalf("failed to seed credential: %v", err)
		}

		if err := env.run(t, "api", "get", "/me"); !errors.Is(err, shared.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}

		cred, err := store.Load(context.Background())
		if err != nil {
			t.Fatalf("failed to load credential: %v", err)
		}
		if cred != nil {
			t.Errorf("expected credentials to be cleared, got %+v", cred)
		}
		if !strings.Contains(env.logs.String(), "session reset") {
			t.Errorf("expected session reset in logs, got %q", env.logs.String())
		}
	})
}

func TestSetup(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	output := &bytes.Buffer{}

	runner := NewRunner(RunnerOpts{
		ConfigPath: configPath,
		Logger:     shared.NewLogger(&tu.SyncBuffer{}),
		Output:     output,
		DB:         setupTestDB(t),
	})

	if err := runner.app().Run(context.Background(), []string{"lineuplens", "setup"}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tu.AssertFileExists(t, configPath)
	out := output.String()
	if !strings.Contains(out, "✓ Wrote "+configPath) {
		t.Errorf("expected config write notice, got %q", out)
	}
	if !strings.Contains(out, "✓ 0000") {
		t.Errorf("expected migration status, got %q", out)
	}
	if len(runner.config.Festivals) == 0 {
		t.Error("expected festivals from the example config")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find a free port: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestTUIFileLogger(t *testing.T) {
	for _, level := range []log.Level{log.DebugLevel, log.InfoLevel, log.ErrorLevel} {
		t.Run(level.String(), func(t *testing.T) {
			logger := shared.NewLogger(&tu.SyncBuffer{})
			logger.SetLevel(level)
			runner := NewRunner(RunnerOpts{Logger: logger})

			path := filepath.Join(t.TempDir(), "logs", "tui.log")
			fileLogger, err := runner.fileLogger(path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := fileLogger.GetLevel(); got != level {
				t.Errorf("expected level %v, got %v", level, got)
			}
			tu.AssertFileExists(t, path)
		})
	}
}
