package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/shared"
)

// LoginCompleter finishes or abandons a pending authorization.
type LoginCompleter interface {
	CompleteLogin(ctx context.Context, code, state string) (*models.Credential, error)
	CancelLogin(ctx context.Context) error
}

// OAuthResult contains the result of an OAuth authorization flow.
type OAuthResult struct {
	Credential *models.Credential
	err        error
}

func (o OAuthResult) Error() error {
	return o.err
}

// OAuthHandler handles the authorization redirect for the loopback login.
//
// State validation and the code exchange are delegated to the [LoginCompleter]. Only the first callback is
// processed; later ones are rejected.
type OAuthHandler struct {
	completer  LoginCompleter
	path       string
	resultChan chan OAuthResult
	once       sync.Once

	mu          sync.Mutex
	callbackHit bool
}

// NewOAuthHandler creates a handler serving path.
func NewOAuthHandler(completer LoginCompleter, path string) *OAuthHandler {
	if path == "" {
		path = "/callback"
	}
	return &OAuthHandler{
		completer:  completer,
		path:       path,
		resultChan: make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"GET " + h.path}
}

func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" || q.Get("code") == "" {
		if errParam == "" {
			errParam = "missing_code"
		}
		err := fmt.Errorf("%w: %s", shared.ErrExchangeFailed, errParam)
		if desc := q.Get("error_description"); desc != "" {
			err = fmt.Errorf("%w: %s - %s", shared.ErrExchangeFailed, errParam, desc)
		}
		if cancelErr := h.completer.CancelLogin(r.Context()); cancelErr != nil {
			err = fmt.Errorf("%w (also failed to clear pending login: %v)", err, cancelErr)
		}
		h.Send(OAuthResult{err: err})
		renderPage(w, http.StatusBadRequest, callbackPage{Title: "Authorization Failed", Detail: errParam})
		return
	}

	cred, err := h.completer.CompleteLogin(r.Context(), q.Get("code"), q.Get("state"))
	if err != nil {
		h.Send(OAuthResult{err: err})
		renderPage(w, http.StatusBadRequest, callbackPage{Title: "Authorization Failed", Detail: err.Error()})
		return
	}

	h.Send(OAuthResult{Credential: cred})
	renderPage(w, http.StatusOK, callbackPage{Title: "Authorization Successful", OK: true})
}

// Send sends the OAuth result through the channel (only once).
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result receives exactly one result and is then closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}

type callbackPage struct {
	Title  string
	Detail string
	OK     bool
}

var page = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { margin: 0 0 1rem 0; }
        .ok { color: #1DB954; }
        .err { color: #E22134; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        {{if .OK}}<h1 class="ok">✓ {{.Title}}</h1>{{else}}<h1 class="err">✗ {{.Title}}</h1>{{end}}
        {{if .Detail}}<p>{{.Detail}}</p>{{end}}
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, data callbackPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = page.Execute(w, data)
}
