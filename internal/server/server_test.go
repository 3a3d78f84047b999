package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	code, state string
	cancelled   atomic.Int32
	cred        *models.Credential
	err         error
}

func (f *fakeCompleter) CompleteLogin(_ context.Context, code, state string) (*models.Credential, error) {
	f.code, f.state = code, state
	return f.cred, f.err
}

func (f *fakeCompleter) CancelLogin(context.Context) error {
	f.cancelled.Add(1)
	return nil
}

func serveCallback(t *testing.T, h *OAuthHandler, query string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewBasicRouter()
	router.Handler(h)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?"+query, nil))
	return rec
}

func receive(t *testing.T, h *OAuthHandler) OAuthResult {
	t.Helper()
	select {
	case res := <-h.Result():
		return res
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
		return OAuthResult{}
	}
}

func TestOAuthHandler(t *testing.T) {
	t.Run("forwards code and state", func(t *testing.T) {
		completer := &fakeCompleter{cred: &models.Credential{AccessToken: "at"}}
		h := NewOAuthHandler(completer, "")

		rec := serveCallback(t, h, "code=abc&state=xyz")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Authorization Successful")
		assert.Equal(t, "abc", completer.code)
		assert.Equal(t, "xyz", completer.state)

		res := receive(t, h)
		require.NoError(t, res.Error())
		assert.Equal(t, "at", res.Credential.AccessToken)
	})

	t.Run("completion failure", func(t *testing.T) {
		completer := &fakeCompleter{err: shared.ErrStateMismatch}
		h := NewOAuthHandler(completer, "/callback")

		rec := serveCallback(t, h, "code=abc&state=forged")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.ErrorIs(t, receive(t, h).Error(), shared.ErrStateMismatch)
	})

	t.Run("provider error cancels login", func(t *testing.T) {
		completer := &fakeCompleter{}
		h := NewOAuthHandler(completer, "")

		rec := serveCallback(t, h, "error=access_denied&error_description=User+said+no&state=xyz")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "access_denied")
		err := receive(t, h).Error()
		assert.ErrorIs(t, err, shared.ErrExchangeFailed)
		assert.Contains(t, err.Error(), "User said no")
		assert.EqualValues(t, 1, completer.cancelled.Load())
		assert.Empty(t, completer.code)
	})

	t.Run("missing code", func(t *testing.T) {
		h := NewOAuthHandler(&fakeCompleter{}, "")
		serveCallback(t, h, "state=xyz")
		assert.ErrorIs(t, receive(t, h).Error(), shared.ErrExchangeFailed)
	})

	t.Run("second callback rejected", func(t *testing.T) {
		h := NewOAuthHandler(&fakeCompleter{cred: &models.Credential{}}, "")
		router := NewBasicRouter()
		router.Handler(h)

		first := httptest.NewRecorder()
		router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/callback?code=a&state=b", nil))
		second := httptest.NewRecorder()
		router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/callback?code=a&state=b", nil))

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusBadRequest, second.Code)

		_, ok := <-h.Result()
		assert.True(t, ok)
		_, ok = <-h.Result()
		assert.False(t, ok, "channel should be closed after one result")
	})

	t.Run("escapes error detail", func(t *testing.T) {
		h := NewOAuthHandler(&fakeCompleter{err: errors.New("<script>x</script>")}, "")
		rec := serveCallback(t, h, "code=a&state=b")
		assert.NotContains(t, rec.Body.String(), "<script>")
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("method patterns", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("get", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "pong")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, "pong", rec.Body.String())

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			order = append(order, "handler")
		}))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, []string{"first", "second", "handler"}, order)
	})

	t.Run("request logger sets id and keeps status", func(t *testing.T) {
		var buf strings.Builder
		logger := shared.NewLogger(&buf)
		shared.SetLogLevel(logger, log.DebugLevel)

		router := NewBasicRouter()
		router.Use(RequestLogger(logger))
		router.Handle(http.MethodGet, "/teapot", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot?code=secret", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
		assert.Contains(t, buf.String(), "/teapot")
		assert.NotContains(t, buf.String(), "secret")
	})
}

func TestServerLifecycle(t *testing.T) {
	completer := &fakeCompleter{cred: &models.Credential{AccessToken: "at"}}
	h := NewOAuthHandler(completer, "")
	router := NewBasicRouter()
	router.Handler(h)

	srv, err := Listen("127.0.0.1:0", router, shared.NewLogger(io.Discard))
	require.NoError(t, err)
	srv.Start()

	resp, err := http.Get("http://" + srv.Addr() + "/callback?code=c&state=s")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	res := receive(t, h)
	require.NoError(t, res.Error())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	_, open := <-srv.Err()
	assert.False(t, open)
}
