package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/spotify"

	"github.com/podcast-tools/spotify-mcp/pkg/core"
)

const (
	// DefaultRedirectURI is the loopback callback registered with the
	// Spotify app. The fixed host and port are part of that registration.
	DefaultRedirectURI = "http://127.0.0.1:8888/callback"
	// DefaultCallbackTimeout bounds how long an authorization attempt waits
	// for the browser redirect.
	DefaultCallbackTimeout = 5 * time.Minute
	// requestTimeout applies to every token-endpoint POST.
	requestTimeout = 30 * time.Second
)

// DefaultScopes are the permissions requested during authorization.
var DefaultScopes = []string{"user-library-read", "user-read-private", "user-read-email"}

// Config carries everything a Manager needs. Credentials and Store are
// required; the zero value of every other field selects a sensible default.
type Config struct {
	Credentials core.Credentials
	Store       core.Store

	// RedirectURI defaults to DefaultRedirectURI.
	RedirectURI string
	// Scopes defaults to DefaultScopes.
	Scopes []string
	// CallbackTimeout defaults to DefaultCallbackTimeout.
	CallbackTimeout time.Duration
	// Endpoint defaults to the Spotify accounts service.
	Endpoint oauth2.Endpoint
	// HTTPClient defaults to a client with a 30 second timeout.
	HTTPClient *http.Client
}

// Manager owns the token lifecycle: it runs the authorization flow, keeps
// the current record in memory, refreshes it when it goes stale, and
// persists every change through the store.
type Manager struct {
	creds           core.Credentials
	store           core.Store
	redirectURI     string
	scopes          []string
	callbackTimeout time.Duration
	endpoint        oauth2.Endpoint
	httpClient      *http.Client

	// authorizing rejects a second Authenticate while one is awaiting its
	// callback; the fixed redirect port cannot serve two attempts anyway.
	authorizing atomic.Bool

	mu     sync.Mutex
	record *core.TokenRecord
	loaded bool

	// Swapped in tests to pin validity decisions and skip the real browser.
	now         func() time.Time
	openBrowser func(url string)
}

// NewManager validates the configuration and returns a ready Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if cfg.Credentials.ClientID == "" || cfg.Credentials.ClientSecret == "" {
		return nil, fmt.Errorf("client credentials are required")
	}

	m := &Manager{
		creds:           cfg.Credentials,
		store:           cfg.Store,
		redirectURI:     cfg.RedirectURI,
		scopes:          cfg.Scopes,
		callbackTimeout: cfg.CallbackTimeout,
		endpoint:        cfg.Endpoint,
		httpClient:      cfg.HTTPClient,
		now:             time.Now,
		openBrowser:     openBrowser,
	}
	if m.redirectURI == "" {
		m.redirectURI = DefaultRedirectURI
	}
	if len(m.scopes) == 0 {
		m.scopes = DefaultScopes
	}
	if m.callbackTimeout <= 0 {
		m.callbackTimeout = DefaultCallbackTimeout
	}
	if m.endpoint.AuthURL == "" && m.endpoint.TokenURL == "" {
		m.endpoint = spotify.Endpoint
	}
	if m.httpClient == nil {
		m.httpClient = &http.Client{Timeout: requestTimeout}
	}
	return m, nil
}

// loadLocked returns the current record, reading the store once and caching
// the result for the life of the process. Callers must hold mu.
func (m *Manager) loadLocked(ctx context.Context) *core.TokenRecord {
	if m.loaded {
		return m.record
	}
	record, err := m.store.Load(ctx)
	if err != nil {
		core.LoggerFromCtx(ctx).Warn("failed to load token record, treating as absent", "error", err)
		record = nil
	}
	m.record = record
	m.loaded = true
	return m.record
}

// commitLocked installs the record in memory and persists it. A failed write
// is logged, not returned: the in-memory record keeps serving this process.
// Callers must hold mu.
func (m *Manager) commitLocked(ctx context.Context, record *core.TokenRecord) {
	m.record = record
	m.loaded = true
	if err := m.store.Save(ctx, record); err != nil {
		core.LoggerFromCtx(ctx).Warn("failed to persist token record", "error", err)
	}
}

// HasValidToken reports whether a record exists and its access token still
// clears the validity buffer. It never talks to the network.
func (m *Manager) HasValidToken(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.loadLocked(ctx).ValidAt(m.now())
}

// Record returns a copy of the current token record for display purposes,
// or ErrNotAuthenticated when none exists.
func (m *Manager) Record(ctx context.Context) (*core.TokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := m.loadLocked(ctx)
	if record == nil {
		return nil, ErrNotAuthenticated
	}
	return record.Clone(), nil
}

// AccessToken returns a bearer token that clears the validity buffer,
// refreshing synchronously when the stored one is stale. Concurrent callers
// serialize here, so a burst inside the buffer costs a single refresh.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := m.loadLocked(ctx)
	if record == nil {
		return "", ErrNotAuthenticated
	}
	if record.ValidAt(m.now()) {
		return record.AccessToken, nil
	}

	refreshed, err := m.refreshLocked(ctx, record)
	if err != nil {
		return "", err
	}
	return refreshed.AccessToken, nil
}

// Refresh forces a refresh regardless of the record's remaining lifetime and
// returns a copy of the new record.
func (m *Manager) Refresh(ctx context.Context) (*core.TokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := m.loadLocked(ctx)
	if record == nil {
		return nil, ErrNotAuthenticated
	}
	refreshed, err := m.refreshLocked(ctx, record)
	if err != nil {
		return nil, err
	}
	return refreshed.Clone(), nil
}

// refreshLocked swaps the stale record for a fresh one. On failure the stale
// record stays in place: its refresh token may well work on a later attempt,
// and only an explicit logout discards credentials. Callers must hold mu.
func (m *Manager) refreshLocked(ctx context.Context, record *core.TokenRecord) (*core.TokenRecord, error) {
	if record.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	resp, err := m.postRefresh(ctx, record.RefreshToken)
	if err != nil {
		return nil, err
	}

	refreshed := core.NewTokenRecord(resp.AccessToken, resp.RefreshToken, resp.TokenType, resp.Scope, resp.ExpiresIn)
	// Spotify usually omits these on refresh; carry the stored values over.
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = record.RefreshToken
	}
	if refreshed.Scope == "" {
		refreshed.Scope = record.Scope
	}

	m.commitLocked(ctx, refreshed)
	core.LoggerFromCtx(ctx).Debug("access token refreshed", "expires_at", refreshed.ExpiryTime())
	return refreshed, nil
}

// Logout clears the stored record. Logging out twice in a row is fine.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record = nil
	m.loaded = true
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear token record: %w", err)
	}
	return nil
}
