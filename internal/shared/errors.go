package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrStateMismatch    = fmt.Errorf("authorization state mismatch")
	ErrMissingVerifier  = fmt.Errorf("no code verifier for pending login")
	ErrExchangeFailed   = fmt.Errorf("token exchange failed")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API errors
	ErrUnauthenticated    = fmt.Errorf("authentication failed")
	ErrForbidden          = fmt.Errorf("access forbidden")
	ErrServerError        = fmt.Errorf("server error")
	ErrRateLimited        = fmt.Errorf("rate limited")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Catalog errors
	ErrMissingColumns      = fmt.Errorf("missing required columns")
	ErrEmptyCatalog        = fmt.Errorf("no valid artists")
	ErrMalformedIdentifier = fmt.Errorf("malformed artist identifier")
	ErrFestivalNotFound    = fmt.Errorf("festival not found")

	// Cache errors
	ErrCacheMiss = fmt.Errorf("cache miss")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
