package shared

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// DefaultScopes are the provider scopes requested at login.
var DefaultScopes = []string{"user-library-read", "user-read-email", "user-read-private"}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Spotify   SpotifyConfig     `toml:"spotify"`
	API       APIConfig         `toml:"api"`
	Cache     CacheConfig       `toml:"cache"`
	Database  DatabaseConfig    `toml:"database"`
	Server    ServerConfig      `toml:"server"`
	Festivals []models.Festival `toml:"festivals"`
}

// SpotifyConfig contains the public client registration and provider endpoints.
//
// PKCE clients carry no secret.
type SpotifyConfig struct {
	ClientID    string   `toml:"client_id"`
	RedirectURI string   `toml:"redirect_uri"`
	Scopes      []string `toml:"scopes"`
	AuthURL     string   `toml:"auth_url"`
	TokenURL    string   `toml:"token_url"`
	APIBaseURL  string   `toml:"api_base_url"`
}

// APIConfig controls the resource API client.
type APIConfig struct {
	Timeout           time.Duration `toml:"timeout"`
	PageSize          int           `toml:"page_size"`
	RequestsPerSecond float64       `toml:"requests_per_second"`
	DefaultRetryAfter time.Duration `toml:"default_retry_after"`
}

// CacheConfig controls freshness of cached data.
type CacheConfig struct {
	LibraryTTL       time.Duration `toml:"library_ttl"`
	CatalogHTTPCache bool          `toml:"catalog_http_cache"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains the loopback callback server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port for [http.Server].
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// A .env file in the working directory is loaded first and ${VAR} references are expanded before decoding. Other $
// text is kept as written.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return parseConfig(data)
}

// envReference matches ${VAR}. Bare $ text such as query strings in festival sources is left alone.
var envReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnv(text string) string {
	return envReference.ReplaceAllStringFunc(text, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

func parseConfig(data []byte) (*Config, error) {
	expanded := expandEnv(string(data))

	var config Config
	if err := toml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.setDefaults()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	config, err := parseConfig(exampleConf)
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidArgument, path)
	}

	if err := os.WriteFile(path, exampleConf, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.Spotify.RedirectURI == "" {
		c.Spotify.RedirectURI = "http://127.0.0.1:3000/callback"
	}
	if len(c.Spotify.Scopes) == 0 {
		c.Spotify.Scopes = append([]string(nil), DefaultScopes...)
	}
	if c.Spotify.AuthURL == "" {
		c.Spotify.AuthURL = "https://accounts.spotify.com/authorize"
	}
	if c.Spotify.TokenURL == "" {
		c.Spotify.TokenURL = "https://accounts.spotify.com/api/token"
	}
	if c.Spotify.APIBaseURL == "" {
		c.Spotify.APIBaseURL = "https://api.spotify.com/v1"
	}
	c.Spotify.APIBaseURL = strings.TrimRight(c.Spotify.APIBaseURL, "/")

	if c.API.Timeout == 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.API.PageSize == 0 {
		c.API.PageSize = 50
	}
	if c.API.DefaultRetryAfter == 0 {
		c.API.DefaultRetryAfter = 3 * time.Second
	}
	if c.Cache.LibraryTTL == 0 {
		c.Cache.LibraryTTL = time.Hour
	}
	if c.Database.Path == "" {
		c.Database.Path = "./lineuplens.db"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 1
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 1
	}
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if c.API.PageSize < 1 || c.API.PageSize > 50 {
		return fmt.Errorf("%w: api.page_size must be between 1 and 50, got %d", ErrInvalidConfig, c.API.PageSize)
	}
	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: api.requests_per_second must not be negative", ErrInvalidConfig)
	}

	seen := make(map[string]struct{}, len(c.Festivals))
	for i, f := range c.Festivals {
		if f.ID == "" || f.Source == "" {
			return fmt.Errorf("%w: festival #%d needs both id and source", ErrInvalidConfig, i+1)
		}
		if _, ok := seen[f.ID]; ok {
			return fmt.Errorf("%w: duplicate festival id %q", ErrInvalidConfig, f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}

// RequireClientID reports [ErrMissingConfig] when no client id is configured.
func (c *Config) RequireClientID() error {
	id := strings.TrimSpace(c.Spotify.ClientID)
	if id == "" || strings.HasPrefix(id, "${") {
		return fmt.Errorf("%w: spotify.client_id is not set (config or SPOTIFY_CLIENT_ID)", ErrMissingConfig)
	}
	return nil
}

// Festival looks up a configured festival by id.
func (c *Config) Festival(id string) (models.Festival, error) {
	for _, f := range c.Festivals {
		if f.ID == id {
			return f, nil
		}
	}
	return models.Festival{}, fmt.Errorf("%w: %q", ErrFestivalNotFound, id)
}
