// Package main provides the Spotify authentication CLI. It runs the browser
// authorization flow and manages the stored token record: status, forced
// refresh, and logout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/podcast-tools/spotify-mcp/pkg/auth"
	"github.com/podcast-tools/spotify-mcp/pkg/core"
	"github.com/podcast-tools/spotify-mcp/pkg/logger"
	"github.com/podcast-tools/spotify-mcp/pkg/store"
)

// fatalError logs an error message and exits the program with status code 1
// If errors are provided, the first error will be logged with the message
func fatalError(message string, errors ...error) {
	if len(errors) > 0 && errors[0] != nil {
		slog.Error(message, "err", errors[0])
	} else {
		slog.Error(message)
	}
	os.Exit(1)
}

func main() {
	var logLevel string
	var storeType string
	var tokenFile string
	var redisAddr string
	var redisPassword string
	var redisDB int
	var timeout time.Duration
	flag.StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR). Defaults to DEBUG in development, INFO in production")
	flag.StringVar(&storeType, "store", "file", "Store type: file, memory or redis")
	flag.StringVar(&tokenFile, "token-file", "", "Token file path (only used when store=file, defaults to ~/"+store.DefaultTokenFileName+")")
	flag.StringVar(&redisAddr, "redis-addr", "localhost:6379", "Redis address (only used when store=redis)")
	flag.StringVar(&redisPassword, "redis-password", "", "Redis password (only used when store=redis)")
	flag.IntVar(&redisDB, "redis-db", 0, "Redis database (only used when store=redis)")
	flag.DurationVar(&timeout, "timeout", auth.DefaultCallbackTimeout, "How long to wait for the authorization callback")
	flag.Parse()

	// Initialize logger with the specified log level
	logger.NewWithLevel(logLevel)

	command := flag.Arg(0)
	if command == "" {
		command = "authenticate"
	}

	creds, err := core.CredentialsFromEnv()
	if err != nil {
		slog.Error("Missing Spotify credentials", "err", err)
		slog.Info("Get credentials from https://developer.spotify.com/dashboard, then export SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET")
		os.Exit(1)
	}

	tokenStore, err := store.NewStore(store.Config{
		Type: store.ParseStoreType(storeType),
		File: store.FileOptions{
			Path: tokenFile,
		},
		Redis: store.RedisOptions{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		},
	})
	if err != nil {
		fatalError("Failed to create store", err)
	}
	// Ensure Redis connection is closed on shutdown
	if redisStore, ok := tokenStore.(*store.RedisStore); ok {
		defer redisStore.Close()
	}

	manager, err := auth.NewManager(auth.Config{
		Credentials:     creds,
		Store:           tokenStore,
		CallbackTimeout: timeout,
	})
	if err != nil {
		fatalError("Failed to create auth manager", err)
	}

	ctx := context.Background()

	switch command {
	case "authenticate":
		cmdAuthenticate(ctx, manager, tokenStore)
	case "status":
		cmdStatus(ctx, manager, tokenStore)
	case "refresh":
		cmdRefresh(ctx, manager)
	case "logout":
		cmdLogout(ctx, manager)
	default:
		fatalError("Unknown command: " + command + " (want authenticate, status, refresh or logout)")
	}
}

// cmdAuthenticate runs the browser authorization flow unless a valid token
// record is already stored.
func cmdAuthenticate(ctx context.Context, manager *auth.Manager, tokenStore core.Store) {
	if manager.HasValidToken(ctx) {
		slog.Info("Already authenticated with valid tokens", "location", tokenLocation(tokenStore))
		slog.Info("To re-authenticate, first run: spotify-auth logout")
		return
	}

	record, err := manager.Authenticate(ctx)
	if err != nil {
		fatalError("Authentication failed", err)
	}
	slog.Info("Authentication complete",
		"location", tokenLocation(tokenStore),
		"scopes", record.Scope,
		"expires_in", remaining(time.Until(record.ExpiryTime())),
	)
}

// cmdStatus reports whether a usable token record is stored. Exits nonzero
// when the user has to act before API calls can succeed.
func cmdStatus(ctx context.Context, manager *auth.Manager, tokenStore core.Store) {
	record, err := manager.Record(ctx)
	if errors.Is(err, auth.ErrNotAuthenticated) {
		slog.Error("Not authenticated")
		slog.Info("Run: spotify-auth")
		os.Exit(1)
	}
	if err != nil {
		fatalError("Failed to read token record", err)
	}

	if record.Valid() {
		slog.Info("Authenticated",
			"location", tokenLocation(tokenStore),
			"scopes", record.Scope,
			"expires_in", remaining(time.Until(record.ExpiryTime())),
		)
		return
	}

	slog.Error("Tokens expired")
	slog.Info("Run: spotify-auth refresh")
	os.Exit(1)
}

// cmdRefresh forces a refresh even when the stored token is still valid.
func cmdRefresh(ctx context.Context, manager *auth.Manager) {
	record, err := manager.Refresh(ctx)
	if errors.Is(err, auth.ErrNotAuthenticated) {
		slog.Error("Not authenticated")
		slog.Info("Run: spotify-auth")
		os.Exit(1)
	}
	if err != nil {
		slog.Error("Token refresh failed", "err", err)
		slog.Info("You may need to re-authenticate: run spotify-auth logout, then spotify-auth")
		os.Exit(1)
	}
	slog.Info("Token refreshed successfully", "expires_in", remaining(time.Until(record.ExpiryTime())))
}

// cmdLogout clears the stored record. Logging out twice in a row is fine.
func cmdLogout(ctx context.Context, manager *auth.Manager) {
	if _, err := manager.Record(ctx); errors.Is(err, auth.ErrNotAuthenticated) {
		slog.Info("Not authenticated (no tokens to clear)")
		return
	}
	if err := manager.Logout(ctx); err != nil {
		fatalError("Logout failed", err)
	}
	slog.Info("Logged out successfully")
	slog.Info("To authenticate again, run: spotify-auth")
}

// tokenLocation names where tokens live so the user knows what logout clears.
func tokenLocation(tokenStore core.Store) string {
	switch s := tokenStore.(type) {
	case *store.FileStore:
		return s.Path()
	case *store.RedisStore:
		return "redis"
	default:
		return "memory"
	}
}

// remaining renders the token lifetime left, coarser tiers for longer spans.
func remaining(d time.Duration) string {
	secs := int64(d.Seconds())
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs > 3600:
		return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
	case secs > 60:
		return fmt.Sprintf("%dm", secs/60)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}
