package core

import (
	"testing"
	"time"
)

func TestTokenRecord_ValidAt(t *testing.T) {
	now := time.UnixMilli(1_000_000)

	tests := []struct {
		name   string
		record *TokenRecord
		want   bool
	}{
		{
			name:   "nil record",
			record: nil,
			want:   false,
		},
		{
			name:   "empty access token",
			record: &TokenRecord{ExpiresAt: 9_000_000},
			want:   false,
		},
		{
			name:   "expires one ms inside the buffer",
			record: &TokenRecord{AccessToken: "a", ExpiresAt: 1_059_999},
			want:   false,
		},
		{
			name:   "expires exactly at the buffer boundary",
			record: &TokenRecord{AccessToken: "a", ExpiresAt: 1_060_000},
			want:   false,
		},
		{
			name:   "expires one ms past the buffer boundary",
			record: &TokenRecord{AccessToken: "a", ExpiresAt: 1_060_001},
			want:   true,
		},
		{
			name:   "already expired",
			record: &TokenRecord{AccessToken: "a", ExpiresAt: 999_999},
			want:   false,
		},
		{
			name:   "far future expiry",
			record: &TokenRecord{AccessToken: "a", ExpiresAt: 2_000_000},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.ValidAt(now); got != tt.want {
				t.Errorf("ValidAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewTokenRecord(t *testing.T) {
	before := time.Now().UnixMilli()
	record := NewTokenRecord("access", "refresh", "", "user-library-read", 3600)
	after := time.Now().UnixMilli()

	if record.AccessToken != "access" {
		t.Errorf("AccessToken = %q, want %q", record.AccessToken, "access")
	}
	if record.RefreshToken != "refresh" {
		t.Errorf("RefreshToken = %q, want %q", record.RefreshToken, "refresh")
	}
	if record.TokenType != DefaultTokenType {
		t.Errorf("TokenType = %q, want %q", record.TokenType, DefaultTokenType)
	}
	if record.Scope != "user-library-read" {
		t.Errorf("Scope = %q, want %q", record.Scope, "user-library-read")
	}
	if record.ExpiresAt < before+3_600_000 || record.ExpiresAt > after+3_600_000 {
		t.Errorf("ExpiresAt = %d, want now + 3600s (between %d and %d)",
			record.ExpiresAt, before+3_600_000, after+3_600_000)
	}
}

func TestNewTokenRecord_KeepsExplicitTokenType(t *testing.T) {
	record := NewTokenRecord("access", "refresh", "Bearer", "scope", 60)
	if record.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want %q", record.TokenType, "Bearer")
	}
}

func TestTokenRecord_Clone(t *testing.T) {
	var missing *TokenRecord
	if missing.Clone() != nil {
		t.Error("Clone of nil record should be nil")
	}

	original := &TokenRecord{AccessToken: "a", RefreshToken: "r", ExpiresAt: 1}
	clone := original.Clone()
	clone.AccessToken = "mutated"
	if original.AccessToken != "a" {
		t.Errorf("mutating the clone changed the original: %q", original.AccessToken)
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Run("both set", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")

		creds, err := CredentialsFromEnv()
		if err != nil {
			t.Fatalf("CredentialsFromEnv() error = %v", err)
		}
		if creds.ClientID != "id" || creds.ClientSecret != "secret" {
			t.Errorf("CredentialsFromEnv() = %+v", creds)
		}
	})

	t.Run("secret missing", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "")

		if _, err := CredentialsFromEnv(); err == nil {
			t.Error("CredentialsFromEnv() expected error when secret is missing")
		}
	})
}
