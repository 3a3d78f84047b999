// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

// rootFlags are shared by every command.
func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   defaultConfigPath,
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Log debug output",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Only log errors",
		},
	}
}

// setupCommand writes a starter config and prepares the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Write config.toml if missing, then initialize the database and run migrations",
		Action: r.Setup,
	}
}

// authCommand handles the Spotify login lifecycle
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with Spotify (PKCE) through the browser",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser callback",
						Value: 5 * time.Minute,
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL without opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Forget stored credentials",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show the stored credential state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// libraryCommand handles the liked-songs snapshot
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "library",
		Usage: "Liked songs snapshot",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Fetch liked songs unless the cached snapshot is still fresh",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Fetch even when the snapshot is fresh",
					},
				},
				Action: r.LibrarySync,
			},
			{
				Name:   "status",
				Usage:  "Show when the library was last synced",
				Action: r.LibraryStatus,
			},
		},
	}
}

// festivalsCommand lists and checks configured lineups
func festivalsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "festivals",
		Aliases: []string{"fest"},
		Usage:   "Configured festival lineups",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List configured festivals",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.FestivalsList,
			},
			{
				Name:  "validate",
				Usage: "Load a lineup and report skipped rows",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Allow cached HTTP responses for remote lineups",
					},
				},
				Action: r.FestivalsValidate,
			},
		},
	}
}

// matchCommand ranks a festival's artists against the library
func matchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "match",
		Aliases: []string{"rank"},
		Usage:   "Rank a festival's artists by your liked songs",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "festival"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, csv, markdown, text, yaml",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "cached-catalog",
				Usage: "Reuse the stored lineup snapshot when present",
			},
			&cli.BoolFlag{
				Name:  "refresh-library",
				Usage: "Fetch liked songs even when the snapshot is fresh",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Only output the top n artists (0 for all)",
			},
		},
		Action: r.Match,
	}
}

// cacheCommand inspects and clears the local cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Local cache",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show cached library and lineup snapshots",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheStatus,
			},
			{
				Name:   "clear",
				Usage:  "Drop cached library and lineup snapshots (credentials are kept)",
				Action: r.CacheClear,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct Spotify API calls",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Authenticated GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive festival picker",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where logs go while the TUI owns the terminal",
				Value: "./tmp/lineuplens-tui.log",
			},
		},
		Action: r.TUI,
	}
}
