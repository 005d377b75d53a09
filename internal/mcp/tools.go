// ABOUTME: MCP tool definitions and registration for the book concierge server
// ABOUTME: Exposes ask_book, search_book and session_status over one process-wide session
package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/book-concierge/internal/core"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, concierge Concierge, session *core.Session, bookTitle string, refineDefault bool) *Handlers {
	handlers := NewHandlers(concierge, session, refineDefault)

	// 1. ask_book - answer a question from the book, consuming one question of the quota
	server.AddTool(mcp.Tool{
		Name: "ask_book",
		Description: "Ask a question about '" + bookTitle + "'. Answers come only from the book's content. " +
			"Each call uses one question of the session quota; the response includes the pages used.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question, in any language",
				},
				"refine": map[string]interface{}{
					"type":        "boolean",
					"description": "Run a second pass that improves clarity and formatting of the answer",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskBook)

	// 2. search_book - retrieval only, does not use the quota
	server.AddTool(mcp.Tool{
		Name:        "search_book",
		Description: "Find the book passages most similar to a query. Does not use the question quota.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": fmt.Sprintf("Maximum number of passages to return (default: %d)", concierge.TopK()),
					"default":     concierge.TopK(),
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchBook)

	// 3. session_status - quota usage for the current session
	server.AddTool(mcp.Tool{
		Name:        "session_status",
		Description: "Show how many questions this session has asked and how many remain.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.SessionStatus)

	return handlers
}
