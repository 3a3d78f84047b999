package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/desertthunder/lineuplens/internal/server"
	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the PKCE login: it serves the loopback callback, opens the authorization page and waits for the
// redirect.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.RequireClientID(); err != nil {
		return err
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	redirect, err := url.Parse(r.config.Spotify.RedirectURI)
	if err != nil {
		return fmt.Errorf("%w: spotify.redirect_uri: %v", shared.ErrInvalidConfig, err)
	}

	handler := server.NewOAuthHandler(r.flow, redirect.Path)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(handler)

	srv, err := server.Listen(r.config.Server.Addr(), router, r.logger)
	if err != nil {
		return err
	}
	srv.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("callback server shutdown", "error", err)
		}
	}()

	navigate := r.navigate
	if cmd.Bool("no-browser") {
		navigate = nil
	}
	authURL, err := r.flow.StartLogin(ctx, navigate)
	if err != nil {
		if authURL == "" {
			return err
		}
		r.logger.Warn("could not open a browser", "error", err)
	}
	r.writePlain("Open this URL to sign in with Spotify:\n\n  %s\n\nWaiting for the callback on %s ...\n", authURL, srv.Addr())

	timeout := cmd.Duration("timeout")
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return err
		}
		r.writePlain("✓ Signed in (token expires %s)\n", result.Credential.ExpiresAt.Local().Format(time.Kitchen))
		if user, err := r.engine.LoadUser(ctx, nil); err == nil {
			r.writePlain("  Account: %s\n", user.Name())
		}
		return nil
	case err := <-srv.Err():
		return fmt.Errorf("callback server failed: %w", err)
	case <-waitCtx.Done():
		if err := r.flow.CancelLogin(context.WithoutCancel(ctx)); err != nil {
			r.logger.Warn("failed to clear pending login", "error", err)
		}
		return fmt.Errorf("%w: no callback within %s", shared.ErrTimeout, timeout)
	}
}

// AuthLogout forgets stored credentials.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}
	if err := r.flow.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports the stored credential without refreshing it.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	status, err := r.flow.Status(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	if !status.Authenticated {
		r.writePlain("Authentication: ✗ Not authenticated\n")
		if status.PendingLogin {
			r.writePlain("A login was started but never completed.\n")
		}
		return nil
	}

	r.writePlain("Authentication: ✓ Authenticated\n")
	if status.Expired {
		r.writePlain("Access token:   expired %s\n", status.ExpiresAt.Local().Format(time.RFC1123))
	} else {
		r.writePlain("Access token:   valid until %s\n", status.ExpiresAt.Local().Format(time.RFC1123))
	}
	if status.HasRefreshToken {
		r.writePlain("Refresh token:  present\n")
	} else {
		r.writePlain("Refresh token:  none (log in again when the access token expires)\n")
	}
	return nil
}
