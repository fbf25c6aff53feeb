package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// tokenResponse is the accounts-service reply to both grant types.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
}

// oauthError is the error document the accounts service returns on 4xx.
type oauthError struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

// postExchange trades an authorization code for the first token record.
func (m *Manager) postExchange(ctx context.Context, code string) (*tokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", m.redirectURI)
	return m.postToken(ctx, form, ErrExchangeFailed)
}

// postRefresh trades a refresh token for a new access token.
func (m *Manager) postRefresh(ctx context.Context, refreshToken string) (*tokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return m.postToken(ctx, form, ErrRefreshFailed)
}

// postToken sends one Basic-authenticated form POST to the token endpoint.
// Failures wrap sentinel so callers can classify them with errors.Is while
// the message keeps the server's error detail.
func (m *Manager) postToken(ctx context.Context, form url.Values, sentinel error) (*tokenResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sentinel, err)
	}
	req.SetBasicAuth(m.creds.ClientID, m.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sentinel, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", sentinel, err)
	}
	if resp.StatusCode != http.StatusOK {
		var detail oauthError
		if err := json.Unmarshal(body, &detail); err == nil && detail.Code != "" {
			if detail.Description != "" {
				return nil, fmt.Errorf("%w: status %d: %s: %s", sentinel, resp.StatusCode, detail.Code, detail.Description)
			}
			return nil, fmt.Errorf("%w: status %d: %s", sentinel, resp.StatusCode, detail.Code)
		}
		return nil, fmt.Errorf("%w: status %d: %s", sentinel, resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal token response: %v", sentinel, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: response carried no access token", sentinel)
	}
	return &token, nil
}
