package auth

import "errors"

var (
	// ErrNotAuthenticated is returned when no token record exists.
	ErrNotAuthenticated = errors.New("not authenticated: no token record")
	// ErrNoRefreshToken is returned when a refresh is requested but the
	// stored record carries no refresh token.
	ErrNoRefreshToken = errors.New("token record has no refresh token")
	// ErrCsrfMismatch is returned when the callback state does not match the
	// one issued for the attempt. No code exchange happens in that case.
	ErrCsrfMismatch = errors.New("state mismatch, possible CSRF attack")
	// ErrAuthorizationDenied is returned when the authorization server
	// redirects back with an error parameter.
	ErrAuthorizationDenied = errors.New("authorization denied")
	// ErrNoAuthorizationCode is returned when the callback carries neither a
	// code nor an error.
	ErrNoAuthorizationCode = errors.New("no authorization code received")
	// ErrCallbackTimeout is returned when no callback arrives within the
	// configured window.
	ErrCallbackTimeout = errors.New("timed out waiting for authorization callback")
	// ErrExchangeFailed is returned when the code-for-token exchange is
	// rejected by the token endpoint.
	ErrExchangeFailed = errors.New("authorization code exchange failed")
	// ErrRefreshFailed is returned when the token endpoint rejects a refresh.
	// The stale record is kept so the refresh token survives the failure.
	ErrRefreshFailed = errors.New("token refresh failed")
	// ErrAuthorizationInProgress is returned when Authenticate is called
	// while another attempt is still waiting for its callback.
	ErrAuthorizationInProgress = errors.New("authorization already in progress")
)
