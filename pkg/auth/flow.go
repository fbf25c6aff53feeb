package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"golang.org/x/oauth2"

	"github.com/podcast-tools/spotify-mcp/pkg/core"
)

// Authenticate runs one interactive authorization attempt: bind the loopback
// listener, surface the authorize URL, wait for the browser redirect,
// validate it, exchange the code, persist the record. Only one attempt may
// be in flight at a time; a second call fails with
// ErrAuthorizationInProgress.
func (m *Manager) Authenticate(ctx context.Context) (*core.TokenRecord, error) {
	if !m.authorizing.CompareAndSwap(false, true) {
		return nil, ErrAuthorizationInProgress
	}
	defer m.authorizing.Store(false)

	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	// Bind before surfacing the URL so a port conflict fails the attempt
	// instead of stranding the user's redirect.
	callback, err := newCallbackServer(m.redirectURI, state)
	if err != nil {
		return nil, err
	}
	defer callback.Close()

	logger := core.LoggerFromCtx(ctx)
	authURL := m.authorizeURL(state)
	logger.Info("open this URL in your browser to authorize", "url", authURL)
	m.openBrowser(authURL)

	result, err := callback.Wait(ctx, m.callbackTimeout)
	if err != nil {
		return nil, err
	}
	if result.err != nil {
		if errors.Is(result.err, ErrCsrfMismatch) {
			logger.Warn("authorization callback carried a mismatched state")
		}
		return nil, result.err
	}

	resp, err := m.postExchange(ctx, result.code)
	if err != nil {
		return nil, err
	}

	record := core.NewTokenRecord(resp.AccessToken, resp.RefreshToken, resp.TokenType, resp.Scope, resp.ExpiresIn)
	m.mu.Lock()
	m.commitLocked(ctx, record)
	m.mu.Unlock()

	logger.Info("authorization complete", "scope", record.Scope)
	return record.Clone(), nil
}

// authorizeURL composes the user-facing authorization URL.
func (m *Manager) authorizeURL(state string) string {
	cfg := oauth2.Config{
		ClientID:    m.creds.ClientID,
		Endpoint:    m.endpoint,
		RedirectURL: m.redirectURI,
		Scopes:      m.scopes,
	}
	return cfg.AuthCodeURL(state)
}

// generateState returns a fresh CSRF token with 16 bytes of entropy.
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// openBrowser opens the default browser to the specified URL. Failure is not
// fatal: the URL was already logged for the user to open by hand.
func openBrowser(url string) {
	var err error

	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = errors.New("unsupported platform")
	}

	if err != nil {
		slog.Debug("failed to open browser", "err", err)
		slog.Info("please open the following URL in your browser", "url", url)
	}
}
