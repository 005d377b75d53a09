// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents ask questions about the book over stdio, one session per process
package commands

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/book-concierge/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Book Concierge as an MCP (Model Context Protocol) server over
stdio. The process serves a single session: ask_book uses the same
question quota as the chat command.

Logs go to stderr (and CONCIERGE_LOG_FILE when set), never stdout.`,
		Args: cobra.NoArgs,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  concierge mcp

  # Configure in an MCP client config file:
  # {
  #   "mcpServers": {
  #     "book-concierge": {
  #       "command": "concierge",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(consoleLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcpserver.NewMCPServer(
		"Book Concierge",
		versionInfo.Version,
	)

	session := a.concierge.NewSession()
	mcp.RegisterTools(server, a.concierge, session, a.cfg.BookTitle, a.cfg.RefineEnabled)

	a.logger.Info("MCP server starting on stdio",
		zap.String("session_id", session.ID()),
		zap.Int("passages", a.book.Len()))

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-cmd.Context().Done():
		a.logger.Info("shutdown signal received",
			zap.Int("questions", session.QuestionCount()))
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
