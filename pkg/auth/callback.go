package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// pageTemplate renders the browser-facing outcome of an attempt.
const pageTemplate = `<html>
<head><style>body { font-family: sans-serif; text-align: center; padding: 50px; }</style></head>
<body>
<h1>%s</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`

// callbackResult classifies one browser redirect.
type callbackResult struct {
	code string
	err  error
}

// callbackServer is the one-shot loopback listener for the browser redirect.
// It lives exactly as long as one authorization attempt.
type callbackServer struct {
	listener net.Listener
	server   *http.Server
	state    string
	results  chan callbackResult
}

// newCallbackServer binds the listener for the redirect URI. Binding happens
// before the authorize URL is surfaced, so a port conflict fails the attempt
// up front.
func newCallbackServer(redirectURI, state string) (*callbackServer, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI %q: %w", redirectURI, err)
	}

	listener, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to bind callback listener on %s: %w", u.Host, err)
	}

	cs := &callbackServer{
		listener: listener,
		state:    state,
		results:  make(chan callbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(u.Path, cs.handleCallback)
	cs.server = &http.Server{Handler: mux}

	go func() {
		if err := cs.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case cs.results <- callbackResult{err: fmt.Errorf("callback server error: %w", err)}:
			default:
			}
		}
	}()

	return cs, nil
}

// handleCallback validates one redirect and answers the browser with a
// human-readable page. Only the first result counts; stray requests after
// resolution are answered but dropped.
func (cs *callbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var result callbackResult
	switch {
	case query.Get("error") != "":
		result.err = fmt.Errorf("%w: %s", ErrAuthorizationDenied, query.Get("error"))
		writePage(w, http.StatusBadRequest, "Authentication failed: "+query.Get("error"))
	case query.Get("state") != cs.state:
		result.err = ErrCsrfMismatch
		writePage(w, http.StatusBadRequest, "State mismatch - possible CSRF attack")
	case query.Get("code") == "":
		result.err = ErrNoAuthorizationCode
		writePage(w, http.StatusBadRequest, "No authorization code received")
	default:
		result.code = query.Get("code")
		writePage(w, http.StatusOK, "Authentication Successful!")
	}

	select {
	case cs.results <- result:
	default:
	}
}

// writePage flushes the page before the result is delivered, so tearing the
// server down right after resolution cannot cut the response off.
func writePage(w http.ResponseWriter, status int, heading string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(status)
	fmt.Fprintf(w, pageTemplate, heading)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// Wait blocks until the redirect resolves the attempt, the timeout elapses,
// or ctx is canceled.
func (cs *callbackServer) Wait(ctx context.Context, timeout time.Duration) (callbackResult, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-cs.results:
		return result, nil
	case <-timer.C:
		return callbackResult{}, ErrCallbackTimeout
	case <-ctx.Done():
		return callbackResult{}, ctx.Err()
	}
}

// Close tears the listener down. It runs on every exit path of an attempt,
// so the port is immediately rebindable.
func (cs *callbackServer) Close() {
	_ = cs.server.Close()
}
