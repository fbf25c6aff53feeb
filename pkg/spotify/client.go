// Package spotify is a client for the Spotify Web API podcast endpoints.
// Every request fetches a bearer token from its TokenSource, so token
// refresh stays the token manager's concern rather than the caller's.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// BaseURL is the production Spotify Web API root.
const BaseURL = "https://api.spotify.com/v1"

// defaultTimeout bounds a single API request.
const defaultTimeout = 10 * time.Second

// ErrAuthExpired marks a 401 response: the access token was rejected.
var ErrAuthExpired = errors.New("unauthorized: invalid or expired access token, run spotify-auth to re-authenticate")

// ErrInsufficientScope marks a 403 response: the token lacks a required
// scope.
var ErrInsufficientScope = errors.New("forbidden: insufficient permissions, re-authenticate to grant the required scopes")

// ErrNotFound marks a 404 response. The wrapping error carries the API's
// own message.
var ErrNotFound = errors.New("not found")

// ErrRateLimited marks a 429 response.
var ErrRateLimited = errors.New("rate limited: too many requests, wait before retrying")

// ErrServerError marks any 5xx response from the API.
var ErrServerError = errors.New("spotify server error, try again later")

// TokenSource supplies a current bearer token for each request.
// auth.Manager satisfies it.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client issues authenticated requests against the Spotify Web API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// ClientOptions override the production defaults, mostly for tests.
type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client against the production API with a 10 second
// request timeout.
func NewClient(tokens TokenSource) *Client {
	return NewClientWithOptions(tokens, ClientOptions{})
}

// NewClientWithOptions returns a client with any zero option replaced by
// its default.
func NewClientWithOptions(tokens TokenSource, opts ClientOptions) *Client {
	c := &Client{
		baseURL:    opts.BaseURL,
		tokens:     tokens,
		httpClient: opts.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = BaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return c
}

// SavedEpisodes returns one page of the episodes saved in the user's
// library. Requires the user-library-read scope.
func (c *Client) SavedEpisodes(ctx context.Context, limit, offset int, market string) (*SavedEpisodePage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	if market != "" {
		params.Set("market", market)
	}

	var page SavedEpisodePage
	if err := c.get(ctx, "/me/episodes", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Episode returns the full metadata for one episode, embedded show
// included.
func (c *Client) Episode(ctx context.Context, id, market string) (*Episode, error) {
	params := url.Values{}
	if market != "" {
		params.Set("market", market)
	}

	var episode Episode
	if err := c.get(ctx, "/episodes/"+url.PathEscape(id), params, &episode); err != nil {
		return nil, err
	}
	return &episode, nil
}

// Show returns the full metadata for one show.
func (c *Client) Show(ctx context.Context, id string) (*Show, error) {
	var show Show
	if err := c.get(ctx, "/shows/"+url.PathEscape(id), nil, &show); err != nil {
		return nil, err
	}
	return &show, nil
}

// Search queries the Spotify catalog for the given item types, such as
// "episode" and "show".
func (c *Client) Search(ctx context.Context, query string, types []string, limit, offset int, market string) (*SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", strings.Join(types, ","))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	if market != "" {
		params.Set("market", market)
	}

	var result SearchResult
	if err := c.get(ctx, "/search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// get performs one authenticated GET and decodes the body into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain access token: %w", err)
	}

	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := statusError(resp.StatusCode, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// apiError is the {"error":{"status":...,"message":...}} body the API
// attaches to failures.
type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// statusError maps API status codes onto the package sentinels.
func statusError(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return ErrAuthExpired
	case status == http.StatusForbidden:
		return ErrInsufficientScope
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, apiMessage(body, "resource not found"))
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return ErrServerError
	default:
		return fmt.Errorf("unexpected status %d: %s", status, apiMessage(body, http.StatusText(status)))
	}
}

// apiMessage digs the human-readable message out of an API error body,
// falling back when the body is not the documented shape.
func apiMessage(body []byte, fallback string) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil || e.Error.Message == "" {
		return fallback
	}
	return e.Error.Message
}
