package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/lineuplens/internal/shared"
)

// TokenProvider hands out a currently valid access token.
type TokenProvider interface {
	GetValidToken(ctx context.Context) (string, bool)
}

// APIResponse is a successful raw response.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Decode unmarshals the body into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

// JSON returns the body decoded into generic values, or false when the body is not JSON.
func (r *APIResponse) JSON() (any, bool) {
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, false
	}
	return v, true
}

// APIError is a classified non-2xx response.
type APIError struct {
	Kind    error // one of the shared API sentinels
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%v (%d): %s", e.Kind, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// errorBody covers both error shapes the provider uses: {"error":{"status":..,"message":..}} on the resource API
// and {"error":"..","error_description":".."} on the accounts service.
type errorBody struct {
	Error            json.RawMessage `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

// newAPIError classifies a non-2xx response.
func newAPIError(status int, statusText string, body []byte) *APIError {
	switch {
	case status == http.StatusUnauthorized:
		return &APIError{Kind: shared.ErrUnauthenticated, Status: status, Message: "Authentication failed. Please log in again."}
	case status == http.StatusForbidden:
		return &APIError{Kind: shared.ErrForbidden, Status: status, Message: "Access forbidden. Please check your permissions."}
	case status >= 500:
		return &APIError{Kind: shared.ErrServerError, Status: status, Message: "Spotify API error. Please try again later."}
	}

	msg := fmt.Sprintf("API Error: %s", statusLine(status, statusText))
	if extracted := extractMessage(body); extracted != "" {
		msg = extracted
	}
	return &APIError{Kind: shared.ErrAPIRequest, Status: status, Message: msg}
}

func extractMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}

	var nested struct {
		Message string `json:"message"`
	}
	if len(eb.Error) > 0 && json.Unmarshal(eb.Error, &nested) == nil && nested.Message != "" {
		return nested.Message
	}
	if eb.ErrorDescription != "" {
		return eb.ErrorDescription
	}
	var code string
	if len(eb.Error) > 0 && json.Unmarshal(eb.Error, &code) == nil {
		return code
	}
	return ""
}

// statusLine renders "404 Not Found" from either a full status ("404 Not Found") or a bare code.
func statusLine(status int, statusText string) string {
	if statusText == "" {
		return fmt.Sprintf("%d %s", status, http.StatusText(status))
	}
	if strings.HasPrefix(statusText, fmt.Sprint(status)) {
		return statusText
	}
	return fmt.Sprintf("%d %s", status, statusText)
}
