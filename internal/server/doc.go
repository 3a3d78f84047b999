// Package server provides the loopback HTTP server used to receive the OAuth redirect.
//
// # Router Infrastructure
//
// [BasicRouter] implements [Router] over [http.ServeMux] with method-qualified patterns. [Middleware] wraps handlers
// so that the first one added runs outermost. [RequestLogger] assigns each request an id and logs it.
//
// # OAuth Callback Handler
//
// [OAuthHandler] forwards the code and state from the redirect to a [LoginCompleter], which validates the state and
// exchanges the code. The handler renders a small page for the browser and delivers exactly one [OAuthResult]
// through its channel. A provider error parameter abandons the pending login.
//
// # Lifecycle
//
// `lineuplens auth login` calls [Listen] on the configured host and port, starts the server, opens the browser, and
// shuts the server down once a result arrives or the wait times out.
//
// # Handler Interface
//
// Custom handlers implement [Handler], which adds Routes to [http.Handler] so a handler can own its route
// definitions.
package server
