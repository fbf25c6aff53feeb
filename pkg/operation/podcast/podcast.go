// Package podcast provides MCP tools for browsing the user's Spotify
// podcast library.
package podcast

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/podcast-tools/spotify-mcp/pkg/core"
	"github.com/podcast-tools/spotify-mcp/pkg/spotify"
)

const (
	defaultListLimit = 20
	maxListLimit     = 50

	// The saved-episode search scans the library in pages of this size and
	// gives up after searchScanCap episodes to bound the request fan-out.
	searchPageSize = 50
	searchScanCap  = 500
)

// API is the slice of the Spotify client the podcast tools call.
type API interface {
	SavedEpisodes(ctx context.Context, limit, offset int, market string) (*spotify.SavedEpisodePage, error)
	Episode(ctx context.Context, id, market string) (*spotify.Episode, error)
	Show(ctx context.Context, id string) (*spotify.Show, error)
}

// GetSavedEpisodesTool defines the MCP tool for listing saved episodes.
var GetSavedEpisodesTool = mcp.NewTool("get_saved_episodes",
	mcp.WithDescription("List the podcast episodes saved in the user's Spotify library as a markdown summary"),
	mcp.WithNumber("limit",
		mcp.Description("Maximum episodes to return (1-50, default 20)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Index of the first episode to return (default 0)"),
	),
	mcp.WithString("market",
		mcp.Description("ISO 3166-1 alpha-2 country code, e.g. US"),
	),
)

// GetEpisodeDetailsTool defines the MCP tool for one episode's metadata.
var GetEpisodeDetailsTool = mcp.NewTool("get_episode_details",
	mcp.WithDescription("Get detailed metadata for a Spotify podcast episode"),
	mcp.WithString("episode_id",
		mcp.Description("The Spotify ID of the episode"),
		mcp.Required(),
	),
	mcp.WithString("market",
		mcp.Description("ISO 3166-1 alpha-2 country code, e.g. US"),
	),
)

// GetShowDetailsTool defines the MCP tool for one show's metadata.
var GetShowDetailsTool = mcp.NewTool("get_show_details",
	mcp.WithDescription("Get detailed metadata for a Spotify show/podcast"),
	mcp.WithString("show_id",
		mcp.Description("The Spotify ID of the show"),
		mcp.Required(),
	),
)

// SearchSavedEpisodesTool defines the MCP tool for searching the library.
var SearchSavedEpisodesTool = mcp.NewTool("search_saved_episodes",
	mcp.WithDescription("Search the user's saved episodes by episode name or show name"),
	mcp.WithString("query",
		mcp.Description("Search term, matched case-insensitively against episode and show names"),
		mcp.Required(),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum results to return (default 20)"),
	),
)

// Handler executes the podcast tools against one API client.
type Handler struct {
	api API
}

// NewHandler returns a Handler backed by the given client.
func NewHandler(api API) *Handler {
	return &Handler{api: api}
}

// HandleGetSavedEpisodesTool is an MCP tool handler that returns one page of
// the user's saved episodes rendered as markdown.
func (h *Handler) HandleGetSavedEpisodesTool(
	ctx context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	logger := core.LoggerFromCtx(ctx)
	logger.Info("Handling get_saved_episodes tool")

	limit := intArgument(req, "limit", defaultListLimit)
	offset := intArgument(req, "offset", 0)
	market, _ := req.GetArguments()["market"].(string)

	if limit < 1 || limit > maxListLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d", maxListLimit)
	}
	if offset < 0 {
		return nil, fmt.Errorf("offset must be >= 0")
	}

	page, err := h.api.SavedEpisodes(ctx, limit, offset, market)
	if err != nil {
		logger.Error("Failed to fetch saved episodes", "error", err)
		return nil, err
	}

	logger.Info("Fetched saved episodes", "count", len(page.Items), "total", page.Total)
	return mcp.NewToolResultText(renderSavedEpisodes(page)), nil
}

// HandleGetEpisodeDetailsTool is an MCP tool handler that returns the full
// metadata of one episode rendered as markdown.
func (h *Handler) HandleGetEpisodeDetailsTool(
	ctx context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	logger := core.LoggerFromCtx(ctx)
	logger.Info("Handling get_episode_details tool")

	episodeID, ok := req.GetArguments()["episode_id"].(string)
	if !ok || episodeID == "" {
		logger.Error("Missing episode_id argument")
		return nil, fmt.Errorf("missing episode_id")
	}
	market, _ := req.GetArguments()["market"].(string)

	episode, err := h.api.Episode(ctx, episodeID, market)
	if err != nil {
		logger.Error("Failed to fetch episode", "episode_id", episodeID, "error", err)
		return nil, err
	}

	return mcp.NewToolResultText(renderEpisode(episode)), nil
}

// HandleGetShowDetailsTool is an MCP tool handler that returns the full
// metadata of one show rendered as markdown.
func (h *Handler) HandleGetShowDetailsTool(
	ctx context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	logger := core.LoggerFromCtx(ctx)
	logger.Info("Handling get_show_details tool")

	showID, ok := req.GetArguments()["show_id"].(string)
	if !ok || showID == "" {
		logger.Error("Missing show_id argument")
		return nil, fmt.Errorf("missing show_id")
	}

	show, err := h.api.Show(ctx, showID)
	if err != nil {
		logger.Error("Failed to fetch show", "show_id", showID, "error", err)
		return nil, err
	}

	return mcp.NewToolResultText(renderShow(show)), nil
}

// HandleSearchSavedEpisodesTool is an MCP tool handler that filters the
// saved library by name. The Web API cannot search inside a user's library,
// so the handler pages through it and matches client-side.
func (h *Handler) HandleSearchSavedEpisodesTool(
	ctx context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	logger := core.LoggerFromCtx(ctx)
	logger.Info("Handling search_saved_episodes tool")

	query, ok := req.GetArguments()["query"].(string)
	if !ok || query == "" {
		logger.Error("Missing query argument")
		return nil, fmt.Errorf("missing query")
	}
	limit := intArgument(req, "limit", defaultListLimit)
	if limit < 1 {
		return nil, fmt.Errorf("limit must be >= 1")
	}

	matches, err := h.searchSaved(ctx, query, limit)
	if err != nil {
		logger.Error("Failed to search saved episodes", "query", query, "error", err)
		return nil, err
	}

	logger.Info("Searched saved episodes", "query", query, "matches", len(matches))
	return mcp.NewToolResultText(renderSearchResults(matches, query)), nil
}

// searchSaved walks the library newest-first in pages of searchPageSize,
// keeping items whose episode or show name contains the query. The walk
// stops once limit matches are found, the library ends, or searchScanCap
// episodes have been scanned.
func (h *Handler) searchSaved(ctx context.Context, query string, limit int) ([]spotify.SavedEpisode, error) {
	needle := strings.ToLower(query)
	var matches []spotify.SavedEpisode

	for offset := 0; offset < searchScanCap; offset += searchPageSize {
		page, err := h.api.SavedEpisodes(ctx, searchPageSize, offset, "")
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			var showName string
			if item.Episode.Show != nil {
				showName = item.Episode.Show.Name
			}
			if strings.Contains(strings.ToLower(item.Episode.Name), needle) ||
				strings.Contains(strings.ToLower(showName), needle) {
				matches = append(matches, item)
				if len(matches) >= limit {
					return matches, nil
				}
			}
		}

		if !page.HasMore() {
			break
		}
	}
	return matches, nil
}

// intArgument reads a numeric tool argument, which arrives as float64 over
// JSON, falling back to def when absent.
func intArgument(req mcp.CallToolRequest, name string, def int) int {
	v, ok := req.GetArguments()[name].(float64)
	if !ok {
		return def
	}
	return int(v)
}
