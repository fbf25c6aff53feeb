package core

import "time"

// ValidityBuffer is how long before the recorded expiry an access token is
// already treated as expired, so a caller never presents a token that dies
// mid-request.
const ValidityBuffer = 60 * time.Second

// DefaultTokenType is the only auth scheme the Spotify token endpoint issues.
const DefaultTokenType = "Bearer"

// TokenRecord is the single persisted unit of authentication state. The JSON
// shape is a compatibility contract with collaborating processes and must not
// change.
type TokenRecord struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // milliseconds since the Unix epoch
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

// NewTokenRecord builds a record from a token-endpoint response, converting
// the relative expires_in (seconds) into an absolute expires_at (milliseconds).
func NewTokenRecord(accessToken, refreshToken, tokenType, scope string, expiresIn int64) *TokenRecord {
	if tokenType == "" {
		tokenType = DefaultTokenType
	}
	return &TokenRecord{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().UnixMilli() + expiresIn*1000,
		TokenType:    tokenType,
		Scope:        scope,
	}
}

// Valid reports whether the access token is usable right now.
func (t *TokenRecord) Valid() bool {
	return t.ValidAt(time.Now())
}

// ValidAt reports whether the access token is usable at the given instant,
// meaning it expires strictly after now plus ValidityBuffer.
func (t *TokenRecord) ValidAt(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	return t.ExpiresAt > now.UnixMilli()+ValidityBuffer.Milliseconds()
}

// ExpiryTime returns the recorded expiry as a time.Time.
func (t *TokenRecord) ExpiryTime() time.Time {
	return time.UnixMilli(t.ExpiresAt)
}

// Clone returns a copy of the record so callers cannot mutate stored state.
func (t *TokenRecord) Clone() *TokenRecord {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}
