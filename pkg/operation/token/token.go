// Package token provides the MCP tool for inspecting the stored Spotify
// authentication state.
package token

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/podcast-tools/spotify-mcp/pkg/core"
)

// AuthStatusTool defines the MCP tool reporting whether a usable token is
// stored, which scopes it grants, and when it expires.
var AuthStatusTool = mcp.NewTool("auth_status",
	mcp.WithDescription("Show the Spotify authentication status: granted scopes, token expiry, and a masked access token"),
)

// HandleAuthStatusTool is an MCP tool handler that reads the token store
// from context and reports the current authentication state.
func HandleAuthStatusTool(
	ctx context.Context,
	_ mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	logger := core.LoggerFromCtx(ctx)
	logger.Info("Handling auth_status tool")

	store, err := core.StoreFromContext(ctx)
	if err != nil {
		logger.Error("Missing store from context", "error", err)
		return nil, err
	}

	record, err := store.Load(ctx)
	if err != nil {
		logger.Error("Failed to load token record", "error", err)
		return nil, err
	}
	if record == nil {
		return mcp.NewToolResultText("Not authenticated. Run spotify-auth to connect a Spotify account."), nil
	}

	var b strings.Builder
	switch {
	case record.Valid():
		b.WriteString("Authenticated\n")
		fmt.Fprintf(&b, "Scopes: %s\n", record.Scope)
		fmt.Fprintf(&b, "Expires in: %s\n", remaining(time.Until(record.ExpiryTime())))
	case record.RefreshToken != "":
		b.WriteString("Token expired, will refresh on next use\n")
		fmt.Fprintf(&b, "Scopes: %s\n", record.Scope)
	default:
		b.WriteString("Token expired with no refresh token. Run spotify-auth to re-authenticate.\n")
	}
	fmt.Fprintf(&b, "Access token: %s", maskToken(record.AccessToken))

	return mcp.NewToolResultText(b.String()), nil
}

// maskToken keeps just enough of the token to recognize it without exposing
// usable material: the first 6 and last 2 characters.
func maskToken(token string) string {
	if len(token) > 8 {
		return token[:6] + "****" + token[len(token)-2:]
	}
	if len(token) > 0 {
		return "****"
	}
	return ""
}

// remaining renders a positive duration in the largest useful unit.
func remaining(d time.Duration) string {
	seconds := int64(d.Seconds())
	switch {
	case seconds > 3600:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	case seconds > 60:
		return fmt.Sprintf("%dm", seconds/60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
