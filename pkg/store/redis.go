package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/podcast-tools/spotify-mcp/pkg/core"
)

// defaultTokenKey is where the single token record lives when no key is
// configured.
const defaultTokenKey = "spotify:token"

// RedisStore implements the core.Store interface using Redis via rueidis.
// It holds the token record under one fixed key, for deployments that want
// the record off the local disk.
type RedisStore struct {
	client rueidis.Client
	key    string
}

// NewRedisStore creates a new instance of RedisStore with the provided
// rueidis client.
func NewRedisStore(client rueidis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		key:    defaultTokenKey,
	}
}

// RedisOptions contains configuration for the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Key overrides the record location; empty selects the default.
	Key string
}

// NewRedisStoreFromOptions creates a new RedisStore with simplified options.
func NewRedisStoreFromOptions(opts RedisOptions) (*RedisStore, error) {
	clientOpts := rueidis.ClientOption{
		InitAddress: []string{opts.Addr},
		Password:    opts.Password,
		SelectDB:    opts.DB,
	}
	client, err := rueidis.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	store := NewRedisStore(client)
	if opts.Key != "" {
		store.key = opts.Key
	}
	return store, nil
}

// NewRedisStoreFromClientOption creates a new RedisStore with full rueidis
// client options.
func NewRedisStoreFromClientOption(opts rueidis.ClientOption) (*RedisStore, error) {
	client, err := rueidis.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	return NewRedisStore(client), nil
}

// Close closes the Redis client connection.
func (r *RedisStore) Close() {
	r.client.Close()
}

// Load retrieves the token record. A missing key is reported as absent and a
// corrupt value degrades to absent, matching the file backend. The read is a
// plain GET rather than a client-side-cached one: the record mutates on
// every refresh and a cached copy could hand back a token another process
// already rotated.
func (r *RedisStore) Load(ctx context.Context) (*core.TokenRecord, error) {
	cmd := r.client.B().Get().Key(r.key).Build()
	result, err := r.client.Do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token record from redis: %w", err)
	}

	var record core.TokenRecord
	if err := json.Unmarshal([]byte(result), &record); err != nil {
		core.LoggerFromCtx(ctx).Warn("malformed token record in redis, treating as absent",
			"key", r.key, "error", err)
		return nil, nil
	}

	return &record, nil
}

// Save stores the token record under the configured key. The record carries
// its own expiry and must survive it for refresh, so no TTL is set.
func (r *RedisStore) Save(ctx context.Context, record *core.TokenRecord) error {
	if record == nil {
		return ErrNilRecord
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal token record: %w", err)
	}

	cmd := r.client.B().Set().Key(r.key).Value(string(data)).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to save token record to redis: %w", err)
	}

	return nil
}

// Clear removes the token record. Deleting an absent key is not an error.
func (r *RedisStore) Clear(ctx context.Context) error {
	cmd := r.client.B().Del().Key(r.key).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to delete token record from redis: %w", err)
	}
	return nil
}
