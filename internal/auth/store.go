package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/lineuplens/internal/models"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyExpiresAt    = "expires_at"
	keyVerifier     = "code_verifier"
	keyState        = "state"
)

// TokenStore persists credential and pending-login material in a [KV].
type TokenStore struct {
	kv KV
}

func NewTokenStore(kv KV) *TokenStore {
	return &TokenStore{kv: kv}
}

// Load returns the stored credential, or nil when no access token is stored.
//
// A missing or unreadable expiry yields a zero ExpiresAt, which callers treat as expired.
func (s *TokenStore) Load(ctx context.Context) (*models.Credential, error) {
	access, ok, err := s.kv.Get(ctx, ScopeCredentials, keyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}
	if !ok || access == "" {
		return nil, nil
	}

	refresh, _, err := s.kv.Get(ctx, ScopeCredentials, keyRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}

	cred := &models.Credential{AccessToken: access, RefreshToken: refresh}
	if raw, ok, err := s.kv.Get(ctx, ScopeCredentials, keyExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to read token expiry: %w", err)
	} else if ok {
		if at, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			cred.ExpiresAt = at
		}
	}
	return cred, nil
}

// Save replaces the stored credential.
func (s *TokenStore) Save(ctx context.Context, cred models.Credential) error {
	pairs := [][2]string{
		{keyAccessToken, cred.AccessToken},
		{keyRefreshToken, cred.RefreshToken},
	}
	if !cred.ExpiresAt.IsZero() {
		pairs = append(pairs, [2]string{keyExpiresAt, cred.ExpiresAt.UTC().Format(time.RFC3339Nano)})
	} else if err := s.kv.Delete(ctx, ScopeCredentials, keyExpiresAt); err != nil {
		return fmt.Errorf("failed to clear token expiry: %w", err)
	}

	for _, kv := range pairs {
		if err := s.kv.Set(ctx, ScopeCredentials, kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to store %s: %w", kv[0], err)
		}
	}
	return nil
}

// Clear removes all credential material.
func (s *TokenStore) Clear(ctx context.Context) error {
	return s.kv.Clear(ctx, ScopeCredentials)
}

// SavePending records the verifier and state of a login in progress.
func (s *TokenStore) SavePending(ctx context.Context, verifier, state string) error {
	if err := s.kv.Set(ctx, ScopeSession, keyVerifier, verifier); err != nil {
		return fmt.Errorf("failed to store code verifier: %w", err)
	}
	if err := s.kv.Set(ctx, ScopeSession, keyState, state); err != nil {
		return fmt.Errorf("failed to store state: %w", err)
	}
	return nil
}

// LoadPending returns the verifier and state of a login in progress. Missing values are empty strings.
func (s *TokenStore) LoadPending(ctx context.Context) (verifier, state string, err error) {
	if verifier, _, err = s.kv.Get(ctx, ScopeSession, keyVerifier); err != nil {
		return "", "", fmt.Errorf("failed to read code verifier: %w", err)
	}
	if state, _, err = s.kv.Get(ctx, ScopeSession, keyState); err != nil {
		return "", "", fmt.Errorf("failed to read state: %w", err)
	}
	return verifier, state, nil
}

// ClearPending forgets the login in progress.
func (s *TokenStore) ClearPending(ctx context.Context) error {
	return s.kv.Clear(ctx, ScopeSession)
}
