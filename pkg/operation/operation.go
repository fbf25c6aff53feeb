package operation

import (
	"github.com/podcast-tools/spotify-mcp/pkg/operation/podcast"
	"github.com/podcast-tools/spotify-mcp/pkg/operation/token"

	"github.com/mark3labs/mcp-go/server"
)

/*
RegisterPodcastTool registers the podcast library tools to the specified MCPServer instance.

Parameters:
  - s: Pointer to the MCPServer instance where the tools will be registered.
  - api: Spotify Web API client the tool handlers call.

This function registers the saved-episodes list, episode details, show
details, and saved-episode search tools to the MCPServer.
*/
func RegisterPodcastTool(s *server.MCPServer, api podcast.API) {
	tool := &Tool{}
	h := podcast.NewHandler(api)

	tool.RegisterRead(server.ServerTool{
		Tool:    podcast.GetSavedEpisodesTool,
		Handler: h.HandleGetSavedEpisodesTool,
	})
	tool.RegisterRead(server.ServerTool{
		Tool:    podcast.GetEpisodeDetailsTool,
		Handler: h.HandleGetEpisodeDetailsTool,
	})
	tool.RegisterRead(server.ServerTool{
		Tool:    podcast.GetShowDetailsTool,
		Handler: h.HandleGetShowDetailsTool,
	})
	tool.RegisterRead(server.ServerTool{
		Tool:    podcast.SearchSavedEpisodesTool,
		Handler: h.HandleSearchSavedEpisodesTool,
	})

	s.AddTools(tool.Tools()...)
}

/*
RegisterAuthTool registers authentication-related tools to the specified MCPServer instance.

Parameters:
  - s: Pointer to the MCPServer instance where the tools will be registered.

This function registers the auth_status tool, which reads the token store
injected into the request context.
*/
func RegisterAuthTool(s *server.MCPServer) {
	tool := &Tool{}

	tool.RegisterRead(server.ServerTool{
		Tool:    token.AuthStatusTool,
		Handler: token.HandleAuthStatusTool,
	})

	s.AddTools(tool.Tools()...)
}

/*
Tool manages collections of tools to be registered with an MCPServer.

Fields:
  - write: Stores all ServerTools registered as write operations.
  - read: Stores all ServerTools registered as read operations.
*/
type Tool struct {
	write []server.ServerTool
	read  []server.ServerTool
}

/*
RegisterWrite registers a ServerTool as a write operation.

Parameters:
  - s: The ServerTool instance to register.

This method appends the tool to the write slice, indicating it is a write-type operation.
*/
func (t *Tool) RegisterWrite(s server.ServerTool) {
	t.write = append(t.write, s)
}

/*
RegisterRead registers a ServerTool as a read operation.

Parameters:
  - s: The ServerTool instance to register.

This method appends the tool to the read slice, indicating it is a read-type operation.
*/
func (t *Tool) RegisterRead(s server.ServerTool) {
	t.read = append(t.read, s)
}

/*
Tools returns all registered ServerTools.

Returns:
  - []server.ServerTool: A slice containing all write and read tools, with write tools first followed by read tools.

This method combines all registered tools for convenient batch registration to the MCPServer.
*/
func (t *Tool) Tools() []server.ServerTool {
	tools := make([]server.ServerTool, 0, len(t.write)+len(t.read))
	tools = append(tools, t.write...)
	tools = append(tools, t.read...)
	return tools
}
