package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineuplens/internal/auth"
	"github.com/desertthunder/lineuplens/internal/catalog"
	"github.com/desertthunder/lineuplens/internal/repositories"
	"github.com/desertthunder/lineuplens/internal/services"
	"github.com/desertthunder/lineuplens/internal/session"
	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/desertthunder/lineuplens/internal/tasks"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Storage-backed dependencies are built on first use by [Runner.connect], so commands like `setup` and
// `festivals list` never open the database.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	navigate   auth.Navigator

	db      *sqlx.DB
	ownsDB  bool
	session *session.Session
	flow    *auth.Flow
	spotify *services.SpotifyClient
	loader  *catalog.Loader
	cache   *repositories.Cache
	engine  *tasks.LineupEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	// Config skips loading from ConfigPath when set.
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	// Navigate opens the authorization page. Defaults to [shared.OpenBrowser].
	Navigate auth.Navigator
	// DB is used instead of opening the configured database file.
	DB *sqlx.DB
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Navigate == nil {
		opts.Navigate = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		navigate:   opts.Navigate,
		db:         opts.DB,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, libraryCommand, festivalsCommand, matchCommand, cacheCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and everything built after the call.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Before applies the root flags: log level and configuration file.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	switch {
	case cmd.Bool("verbose"):
		shared.SetLogLevel(r.logger, log.DebugLevel)
	case cmd.Bool("quiet"):
		shared.SetLogLevel(r.logger, log.ErrorLevel)
	}

	if path := cmd.String("config"); path != "" && (r.configPath == "" || cmd.IsSet("config")) {
		r.configPath = path
	}
	if r.configPath == "" {
		r.configPath = defaultConfigPath
	}

	if r.config != nil && !cmd.IsSet("config") {
		return ctx, nil
	}
	return ctx, r.loadConfig()
}

// After releases the database when the runner opened it.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	if r.db != nil && r.ownsDB {
		err := r.db.Close()
		r.db, r.ownsDB = nil, false
		return err
	}
	return nil
}

func (r *Runner) loadConfig() error {
	if _, err := os.Stat(r.configPath); errors.Is(err, os.ErrNotExist) {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		r.config = shared.DefaultConfig()
		return nil
	}

	config, err := shared.LoadConfig(r.configPath)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}
	r.config = config
	return nil
}

// configDir resolves relative festival sources.
func (r *Runner) configDir() string {
	if r.configPath == "" {
		return "."
	}
	return filepath.Dir(r.configPath)
}

// connect opens the database and wires the auth flow, API client, catalog loader, cache and lineup engine.
func (r *Runner) connect(ctx context.Context) error {
	if r.engine != nil {
		return nil
	}
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}

	if r.db == nil {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		r.db, r.ownsDB = db, true
	}
	if err := shared.RunMigrations(ctx, r.db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.session = session.New()
	r.session.Subscribe(r.logSessionChange)
	r.flow = auth.NewFlow(auth.FlowOpts{
		Config:     r.config.Spotify,
		Store:      auth.NewTokenStore(repositories.NewKVRepository(r.db)),
		Logger:     r.logger,
		HTTPClient: r.httpClient,
	})
	r.flow.OnLogout(r.session.Reset)

	apiClient := &http.Client{Timeout: r.config.API.Timeout, Transport: r.httpClient.Transport}
	r.spotify = services.NewSpotifyClient(services.ClientOpts{
		BaseURL:           r.config.Spotify.APIBaseURL,
		Tokens:            r.flow,
		HTTPClient:        apiClient,
		Logger:            r.logger,
		PageSize:          r.config.API.PageSize,
		RequestsPerSecond: r.config.API.RequestsPerSecond,
		DefaultRetryAfter: r.config.API.DefaultRetryAfter,
	})

	r.loader = catalog.NewLoader(catalog.LoaderOpts{
		Timeout:   r.config.API.Timeout,
		HTTPCache: r.config.Cache.CatalogHTTPCache,
		BaseDir:   r.configDir(),
		Logger:    r.logger,
	})

	r.cache = repositories.NewCache(r.db)
	r.engine = tasks.NewLineupEngine(tasks.EngineOpts{
		Auth:       r.flow,
		Client:     r.spotify,
		Catalogs:   r.loader,
		Cache:      r.cache,
		Festivals:  r.config,
		Session:    r.session,
		LibraryTTL: r.config.Cache.LibraryTTL,
		Logger:     r.logger,
	})
	return nil
}

// logSessionChange reports session changes. A reset means the credentials are gone.
func (r *Runner) logSessionChange(ev session.Event, snap session.Snapshot) {
	if ev == session.EventReset {
		r.logger.Warn("session reset, sign in again with `lineuplens auth login`", "session", snap.ID)
		return
	}
	r.logger.Debug("session updated", "event", ev, "session", snap.ID)
}

// progress logs engine updates until the channel is closed and then signals done.
func (r *Runner) progress() (chan tasks.ProgressUpdate, func()) {
	updates := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range updates {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()
	return updates, func() {
		close(updates)
		<-done
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
