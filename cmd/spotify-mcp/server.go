// Package main runs the Spotify podcast MCP server, exposing saved-episode
// tools over stdio or streamable HTTP transports.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/podcast-tools/spotify-mcp/pkg/auth"
	"github.com/podcast-tools/spotify-mcp/pkg/core"
	"github.com/podcast-tools/spotify-mcp/pkg/logger"
	"github.com/podcast-tools/spotify-mcp/pkg/operation"
	"github.com/podcast-tools/spotify-mcp/pkg/operation/podcast"
	"github.com/podcast-tools/spotify-mcp/pkg/spotify"
	"github.com/podcast-tools/spotify-mcp/pkg/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the underlying MCP server instance together with the
// token store injected into every request context.
type MCPServer struct {
	server *server.MCPServer
	store  core.Store
}

// NewMCPServer creates and configures a new MCPServer instance.
// Registers the podcast tools and the auth_status tool.
func NewMCPServer(api podcast.API, tokenStore core.Store) *MCPServer {
	mcpServer := server.NewMCPServer(
		"spotify-podcast-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(MCPToolHandlerMiddleware()),
	)

	// Register Tool
	operation.RegisterPodcastTool(mcpServer, api)
	operation.RegisterAuthTool(mcpServer)

	return &MCPServer{
		server: mcpServer,
		store:  tokenStore,
	}
}

// ServeHTTP returns a streamable HTTP server that injects the token store
// and a request ID into the context of every request.
func (s *MCPServer) ServeHTTP() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s.server,
		server.WithHeartbeatInterval(30*time.Second),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			ctx = core.WithStore(ctx, s.store)
			return core.WithRequestID(ctx)
		}),
	)
}

// ServeStdio starts the MCP server using stdio transport, injecting the
// token store and a request ID into the context.
func (s *MCPServer) ServeStdio() error {
	return server.ServeStdio(s.server, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		ctx = core.WithStore(ctx, s.store)
		return core.WithRequestID(ctx)
	}))
}

func main() {
	var addr string
	var transport string
	var logLevel string
	var storeType string
	var tokenFile string
	var redisAddr string
	var redisPassword string
	var redisDB int
	flag.StringVar(&addr, "addr", ":8080", "address to listen on")
	flag.StringVar(&transport, "t", "stdio", "Transport type (stdio or http)")
	flag.StringVar(
		&transport,
		"transport",
		"stdio",
		"Transport type (stdio or http)",
	)
	flag.StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR). Defaults to DEBUG in development, INFO in production")
	flag.StringVar(&storeType, "store", "file", "Store type: file, memory or redis")
	flag.StringVar(&tokenFile, "token-file", "", "Token file path (only used when store=file, defaults to ~/"+store.DefaultTokenFileName+")")
	flag.StringVar(&redisAddr, "redis-addr", "localhost:6379", "Redis address (only used when store=redis)")
	flag.StringVar(&redisPassword, "redis-password", "", "Redis password (only used when store=redis)")
	flag.IntVar(&redisDB, "redis-db", 0, "Redis database (only used when store=redis)")
	flag.Parse()

	// Initialize logger with the specified log level
	logger.NewWithLevel(logLevel)

	creds, err := core.CredentialsFromEnv()
	if err != nil {
		slog.Error("Missing Spotify credentials", "error", err)
		os.Exit(1)
	}

	// Initialize store using factory pattern
	storeConfig := store.Config{
		Type: store.ParseStoreType(storeType),
		File: store.FileOptions{
			Path: tokenFile,
		},
		Redis: store.RedisOptions{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		},
	}

	tokenStore, err := store.NewStore(storeConfig)
	if err != nil {
		slog.Error("Failed to create store", "type", storeType, "error", err)
		os.Exit(1)
	}

	// Log the store type being used
	switch storeConfig.Type {
	case store.StoreTypeFile:
		if fileStore, ok := tokenStore.(*store.FileStore); ok {
			slog.Info("Using file store", "path", fileStore.Path())
		}
	case store.StoreTypeMemory:
		slog.Info("Using in-memory store")
	case store.StoreTypeRedis:
		slog.Info("Using Redis store", "addr", redisAddr, "db", redisDB)
		// Ensure Redis connection is closed on shutdown
		if redisStore, ok := tokenStore.(*store.RedisStore); ok {
			defer redisStore.Close()
		}
	}

	manager, err := auth.NewManager(auth.Config{
		Credentials: creds,
		Store:       tokenStore,
	})
	if err != nil {
		slog.Error("Failed to create auth manager", "error", err)
		os.Exit(1)
	}

	client := spotify.NewClient(manager)
	mcpServer := NewMCPServer(client, tokenStore)

	switch transport {
	case "stdio":
		if err := mcpServer.ServeStdio(); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	case "http":
		router := gin.Default()
		router.Use(corsMiddleware())

		// Register POST, GET, DELETE methods for the /mcp path, all handled
		// by a single streamable server so sessions survive across methods.
		streamable := mcpServer.ServeHTTP()
		router.POST("/mcp", gin.WrapH(streamable))
		router.GET("/mcp", gin.WrapH(streamable))
		router.DELETE("/mcp", gin.WrapH(streamable))

		router.GET("/healthz", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		srv := &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second, // 10 seconds
			WriteTimeout: 10 * time.Second, // 10 seconds
			IdleTimeout:  60 * time.Second, // 60 seconds
		}

		m := graceful.NewManager()
		m.AddRunningJob(func(ctx context.Context) error {
			slog.Info("HTTP server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		m.AddShutdownJob(func() error {
			slog.Info("Shutting down HTTP server")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		})
		<-m.Done()
	default:
		slog.Error("Invalid transport type", "transport", transport)
		os.Exit(1)
	}
}
