package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// ExpiryMargin is how long before its expiry a token is already considered expired.
const ExpiryMargin = 5 * time.Minute

// RefreshTimeout bounds a token refresh once it no longer follows the caller's context.
var RefreshTimeout = 30 * time.Second

const stateBytes = 16

// Navigator sends the user agent to url.
type Navigator func(url string) error

// Status summarizes the stored credential.
type Status struct {
	Authenticated   bool      `json:"authenticated"`
	Expired         bool      `json:"expired"`
	ExpiresAt       time.Time `json:"expires_at,omitzero"`
	HasRefreshToken bool      `json:"has_refresh_token"`
	PendingLogin    bool      `json:"pending_login"`
}

// FlowOpts configures a [Flow].
type FlowOpts struct {
	Config     shared.SpotifyConfig
	Store      *TokenStore
	Logger     *log.Logger
	HTTPClient *http.Client
	Clock      func() time.Time
}

// Flow owns the credential lifecycle: login, exchange, refresh, and logout.
type Flow struct {
	oauth      *oauth2.Config
	store      *TokenStore
	logger     *log.Logger
	httpClient *http.Client
	now        func() time.Time

	refreshes singleflight.Group

	mu      sync.Mutex
	onReset []func()
}

// NewFlow builds a [Flow] for a public (secretless) client.
func NewFlow(opts FlowOpts) *Flow {
	if opts.Store == nil {
		opts.Store = NewTokenStore(NewMemoryKV())
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	scopes := opts.Config.Scopes
	if len(scopes) == 0 {
		scopes = shared.DefaultScopes
	}

	return &Flow{
		oauth: &oauth2.Config{
			ClientID:    opts.Config.ClientID,
			RedirectURL: opts.Config.RedirectURI,
			Scopes:      scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   opts.Config.AuthURL,
				TokenURL:  opts.Config.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		store:      opts.Store,
		logger:     shared.WithLogger(opts.Logger, "component", "auth"),
		httpClient: opts.HTTPClient,
		now:        opts.Clock,
	}
}

// OnLogout registers fn to run after credentials are cleared.
func (f *Flow) OnLogout(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onReset = append(f.onReset, fn)
}

// StartLogin generates a verifier and state, persists them, and sends the user agent to the authorization endpoint.
//
// The authorization URL is returned so callers can also display it.
func (f *Flow) StartLogin(ctx context.Context, navigate Navigator) (string, error) {
	verifier := oauth2.GenerateVerifier()
	state, err := shared.RandomToken(stateBytes)
	if err != nil {
		return "", err
	}

	if err := f.store.SavePending(ctx, verifier, state); err != nil {
		return "", err
	}

	authURL := f.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	f.logger.Debug("starting login", "scopes", f.oauth.Scopes)

	if navigate != nil {
		if err := navigate(authURL); err != nil {
			return authURL, fmt.Errorf("failed to open authorization page: %w", err)
		}
	}
	return authURL, nil
}

// CompleteLogin validates the callback state, exchanges code for a credential, and persists it.
//
// Any failure clears the pending login.
func (f *Flow) CompleteLogin(ctx context.Context, code, state string) (*models.Credential, error) {
	verifier, expected, err := f.store.LoadPending(ctx)
	if err != nil {
		return nil, err
	}

	fail := func(err error) (*models.Credential, error) {
		if clearErr := f.store.ClearPending(ctx); clearErr != nil {
			f.logger.Warn("failed to clear pending login", "error", clearErr)
		}
		return nil, err
	}

	if expected == "" || state != expected {
		return fail(shared.ErrStateMismatch)
	}
	if verifier == "" {
		return fail(shared.ErrMissingVerifier)
	}

	tok, err := f.oauth.Exchange(f.clientContext(ctx), code, oauth2.VerifierOption(verifier))
	if err != nil {
		return fail(fmt.Errorf("%w: %s", shared.ErrExchangeFailed, describeTokenError(err)))
	}

	cred := f.credentialFromToken(tok, "")
	if err := f.store.Save(ctx, cred); err != nil {
		return fail(err)
	}
	if err := f.store.ClearPending(ctx); err != nil {
		f.logger.Warn("failed to clear pending login", "error", err)
	}

	f.logger.Info("login complete", "expires_at", cred.ExpiresAt)
	return &cred, nil
}

// CancelLogin abandons a pending login, for example when the provider redirects back with an error.
func (f *Flow) CancelLogin(ctx context.Context) error {
	return f.store.ClearPending(ctx)
}

// GetValidToken returns a usable access token, refreshing it when needed.
//
// The second result is false when there is no credential or the refresh failed. A refresh rejected by the provider
// also logs out. The refresh itself runs detached from ctx, so a caller that gives up early leaves the stored
// credential alone and other callers still get the result.
func (f *Flow) GetValidToken(ctx context.Context) (string, bool) {
	cred, err := f.store.Load(ctx)
	if err != nil {
		f.logger.Error("failed to load credentials", "error", err)
		return "", false
	}
	if cred == nil {
		return "", false
	}
	if !cred.Expired(f.now(), ExpiryMargin) {
		return cred.AccessToken, true
	}

	ch := f.refreshes.DoChan("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), RefreshTimeout)
		defer cancel()
		return f.refresh(rctx)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		f.logger.Warn("stopped waiting for token refresh", "error", ctx.Err())
		return "", false
	}

	if res.Err != nil {
		if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
			f.logger.Warn("token refresh interrupted, keeping credentials", "error", res.Err)
			return "", false
		}
		f.logger.Error("token refresh failed, logging out", "error", res.Err)
		if logoutErr := f.Logout(context.WithoutCancel(ctx)); logoutErr != nil {
			f.logger.Error("logout after refresh failure", "error", logoutErr)
		}
		return "", false
	}
	if res.Shared {
		f.logger.Debug("shared in-flight refresh")
	}
	return res.Val.(*models.Credential).AccessToken, true
}

// refresh exchanges the stored refresh token. It re-reads the store first so a caller arriving just after another
// refresh completed reuses that result.
func (f *Flow) refresh(ctx context.Context) (*models.Credential, error) {
	cred, err := f.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	if cred == nil {
		return nil, fmt.Errorf("%w: no stored credential", shared.ErrRefreshFailed)
	}
	if !cred.Expired(f.now(), ExpiryMargin) {
		return cred, nil
	}
	if cred.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token", shared.ErrRefreshFailed)
	}

	src := f.oauth.TokenSource(f.clientContext(ctx), &oauth2.Token{RefreshToken: cred.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, ctxErr)
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrRefreshFailed, describeTokenError(err))
	}

	next := f.credentialFromToken(tok, cred.RefreshToken)
	if err := f.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	f.logger.Debug("token refreshed", "expires_at", next.ExpiresAt)
	return &next, nil
}

// Logout clears credential and pending-login material and runs the registered reset hooks.
func (f *Flow) Logout(ctx context.Context) error {
	errs := []error{f.store.Clear(ctx), f.store.ClearPending(ctx)}

	f.mu.Lock()
	hooks := append([]func(){}, f.onReset...)
	f.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}

	f.logger.Info("logged out")
	return errors.Join(errs...)
}

// Status reports on the stored credential without refreshing it.
func (f *Flow) Status(ctx context.Context) (Status, error) {
	var st Status
	cred, err := f.store.Load(ctx)
	if err != nil {
		return st, err
	}
	if _, state, err := f.store.LoadPending(ctx); err == nil {
		st.PendingLogin = state != ""
	}
	if cred == nil {
		return st, nil
	}

	st.Authenticated = true
	st.ExpiresAt = cred.ExpiresAt
	st.Expired = cred.Expired(f.now(), ExpiryMargin)
	st.HasRefreshToken = cred.RefreshToken != ""
	return st, nil
}

func (f *Flow) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
}

// credentialFromToken converts a token response, keeping prevRefresh when the provider omits a new one.
func (f *Flow) credentialFromToken(tok *oauth2.Token, prevRefresh string) models.Credential {
	cred := models.Credential{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}
	if cred.RefreshToken == "" {
		cred.RefreshToken = prevRefresh
	}

	switch {
	case tok.ExpiresIn > 0:
		cred.ExpiresAt = f.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	case !tok.Expiry.IsZero():
		cred.ExpiresAt = tok.Expiry
	}
	cred.ExpiresAt = models.Timestamp(cred.ExpiresAt)
	return cred
}

// describeTokenError extracts the provider's error code and description when present.
func describeTokenError(err error) string {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		switch {
		case re.ErrorCode != "" && re.ErrorDescription != "":
			return fmt.Sprintf("%s: %s", re.ErrorCode, re.ErrorDescription)
		case re.ErrorCode != "":
			return re.ErrorCode
		case re.Response != nil:
			return fmt.Sprintf("status %d", re.Response.StatusCode)
		}
	}
	return err.Error()
}
