// ABOUTME: Main entry point for the standalone Book Concierge MCP server with stdio transport
// ABOUTME: Reads config from the environment only, for MCP clients that launch a bare binary
package main

import (
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/harper/book-concierge/internal/app"
	"github.com/harper/book-concierge/internal/config"
	"github.com/harper/book-concierge/internal/logging"
	"github.com/harper/book-concierge/internal/mcp"
)

var version = "dev"

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		log.Fatalf("%v", err)
	}

	// stdout carries the protocol, so logs stay on stderr and the log file
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile, false)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	concierge, book, err := app.Build(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open book: %v", err)
	}

	server := mcpserver.NewMCPServer("Book Concierge", version)

	session := concierge.NewSession()
	mcp.RegisterTools(server, concierge, session, cfg.BookTitle, cfg.RefineEnabled)

	logger.Info("MCP server starting on stdio",
		zap.String("session_id", session.ID()),
		zap.Int("passages", book.Len()))
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
