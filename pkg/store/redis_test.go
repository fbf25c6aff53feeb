package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/podcast-tools/spotify-mcp/pkg/core"
)

// setupRedisStore creates a test Redis store connected to localhost:6379
// under a test-only key. Skip tests if Redis is not available.
func setupRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	store, err := NewRedisStoreFromOptions(RedisOptions{
		Addr: "localhost:6379",
		Key:  "spotify:token:test",
	})
	if err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}

	// Test connection
	ctx := context.Background()
	cmd := store.client.B().Ping().Build()
	if err := store.client.Do(ctx, cmd).Error(); err != nil {
		store.Close()
		t.Skipf("Cannot connect to Redis, skipping test: %v", err)
	}

	t.Cleanup(func() {
		delCmd := store.client.B().Del().Key(store.key).Build()
		_ = store.client.Do(ctx, delCmd).Error()
		store.Close()
	})

	return store
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	record := &core.TokenRecord{
		AccessToken:  "access_redis",
		RefreshToken: "refresh_redis",
		ExpiresAt:    time.Now().Add(time.Hour).UnixMilli(),
		TokenType:    "Bearer",
		Scope:        "user-library-read",
	}

	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() = nil, want saved record")
	}
	if *loaded != *record {
		t.Errorf("Load() = %+v, want %+v", loaded, record)
	}
}

func TestRedisStore_SaveNilRecord(t *testing.T) {
	store := setupRedisStore(t)

	err := store.Save(context.Background(), nil)
	if !errors.Is(err, ErrNilRecord) {
		t.Errorf("Save(nil) error = %v, want %v", err, ErrNilRecord)
	}
}

func TestRedisStore_LoadMissingKey(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Failed to setup test: %v", err)
	}

	record, err := store.Load(ctx)
	if err != nil {
		t.Errorf("Load() error = %v, want nil for a missing key", err)
	}
	if record != nil {
		t.Errorf("Load() = %+v, want nil for a missing key", record)
	}
}

func TestRedisStore_LoadMalformedValue(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	cmd := store.client.B().Set().Key(store.key).Value("{not json").Build()
	if err := store.client.Do(ctx, cmd).Error(); err != nil {
		t.Fatalf("Failed to setup test: %v", err)
	}

	record, err := store.Load(ctx)
	if err != nil {
		t.Errorf("Load() error = %v, want nil for a malformed value", err)
	}
	if record != nil {
		t.Errorf("Load() = %+v, want nil for a malformed value", record)
	}
}

func TestRedisStore_ClearIsIdempotent(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, &core.TokenRecord{AccessToken: "access"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Errorf("Clear() error = %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}

	record, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() after Clear() error = %v", err)
	}
	if record != nil {
		t.Errorf("Load() after Clear() = %+v, want nil", record)
	}
}

func TestRedisStore_RecordLifecycle(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	first := &core.TokenRecord{
		AccessToken:  "first_access",
		RefreshToken: "first_refresh",
		ExpiresAt:    time.Now().Add(time.Hour).UnixMilli(),
		TokenType:    "Bearer",
		Scope:        "user-library-read",
	}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	// A refresh rewrites the record in place.
	second := first.Clone()
	second.AccessToken = "second_access"
	second.ExpiresAt = time.Now().Add(2 * time.Hour).UnixMilli()
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save() after refresh failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.AccessToken != "second_access" {
		t.Errorf("Load() access token = %q, want %q", loaded.AccessToken, "second_access")
	}
	if loaded.RefreshToken != "first_refresh" {
		t.Errorf("Load() refresh token = %q, want %q", loaded.RefreshToken, "first_refresh")
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if record, _ := store.Load(ctx); record != nil {
		t.Errorf("Load() after Clear() = %+v, want nil", record)
	}
}
