package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/lineuplens/internal/models"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./lineuplens.db" {
			t.Errorf("expected database path ./lineuplens.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}
		if config.API.PageSize != 50 {
			t.Errorf("expected page size 50, got %d", config.API.PageSize)
		}
		if config.API.DefaultRetryAfter != 3*time.Second {
			t.Errorf("expected default retry-after 3s, got %v", config.API.DefaultRetryAfter)
		}
		if config.Cache.LibraryTTL != time.Hour {
			t.Errorf("expected library ttl 1h, got %v", config.Cache.LibraryTTL)
		}
		if len(config.Festivals) != 11 {
			t.Errorf("expected 11 festivals, got %d", len(config.Festivals))
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig expands environment", func(t *testing.T) {
		t.Setenv("LINEUPLENS_TEST_CLIENT", "abc123")
		configPath := filepath.Join(t.TempDir(), "config.toml")
		content := `
[spotify]
client_id = "${LINEUPLENS_TEST_CLIENT}"

[[festivals]]
id = "local"
name = "Local Fest"
source = "lineup.csv"
`
		if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.Spotify.ClientID != "abc123" {
			t.Errorf("expected expanded client id, got %q", config.Spotify.ClientID)
		}
		if err := config.RequireClientID(); err != nil {
			t.Errorf("expected client id to be accepted: %v", err)
		}
		if config.API.PageSize != 50 {
			t.Errorf("expected defaults to fill page size, got %d", config.API.PageSize)
		}
		if len(config.Spotify.Scopes) != len(DefaultScopes) {
			t.Errorf("expected default scopes, got %v", config.Spotify.Scopes)
		}
	})

	t.Run("LoadConfig keeps bare dollar signs", func(t *testing.T) {
		t.Setenv("LINEUPLENS_TEST_CLIENT", "abc123")
		configPath := filepath.Join(t.TempDir(), "config.toml")
		content := `
[spotify]
client_id = "${LINEUPLENS_TEST_CLIENT}"

[database]
path = "/tmp/$HOME/cache.db"

[[festivals]]
id = "remote"
name = "Remote Fest"
source = "https://example.com/lineup.csv?sig=$abc&v=${LINEUPLENS_TEST_UNSET}"
`
		if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.Spotify.ClientID != "abc123" {
			t.Errorf("expected expanded client id, got %q", config.Spotify.ClientID)
		}
		if config.Database.Path != "/tmp/$HOME/cache.db" {
			t.Errorf("database path was rewritten: %q", config.Database.Path)
		}
		if got := config.Festivals[0].Source; got != "https://example.com/lineup.csv?sig=$abc&v=" {
			t.Errorf("festival source was rewritten: %q", got)
		}
	})

	t.Run("LoadConfig with invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[spotify\nclient_id ="), 0o644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected read error")
		}
	})

	t.Run("RequireClientID", func(t *testing.T) {
		config := &Config{}
		if err := config.RequireClientID(); !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
			ok     bool
		}{
			{name: "defaults", mutate: func(*Config) {}, ok: true},
			{name: "page size too large", mutate: func(c *Config) { c.API.PageSize = 51 }},
			{name: "negative rate", mutate: func(c *Config) { c.API.RequestsPerSecond = -1 }},
			{name: "festival without source", mutate: func(c *Config) {
				c.Festivals = []models.Festival{{ID: "x"}}
			}},
			{name: "duplicate festival", mutate: func(c *Config) {
				c.Festivals = []models.Festival{{ID: "x", Source: "a"}, {ID: "x", Source: "b"}}
			}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				err := config.Validate()
				if tt.ok && err != nil {
					t.Errorf("expected valid config, got %v", err)
				}
				if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("Festival lookup", func(t *testing.T) {
		config := DefaultConfig()

		f, err := config.Festival("coachella")
		if err != nil {
			t.Fatalf("expected coachella: %v", err)
		}
		if f.Source != "data/festivals/coachella_spotify_matches.csv" {
			t.Errorf("unexpected source %s", f.Source)
		}

		if _, err := config.Festival("nope"); !errors.Is(err, ErrFestivalNotFound) {
			t.Errorf("expected ErrFestivalNotFound, got %v", err)
		}
	})

	t.Run("ServerConfig Addr", func(t *testing.T) {
		if got := (ServerConfig{Host: "127.0.0.1", Port: 8080}).Addr(); got != "127.0.0.1:8080" {
			t.Errorf("unexpected addr %s", got)
		}
	})
}
