// ABOUTME: Shared startup for commands that answer or search
// ABOUTME: Loads config, opens the book index, and builds the concierge with its logger
package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/harper/book-concierge/internal/app"
	"github.com/harper/book-concierge/internal/config"
	"github.com/harper/book-concierge/internal/core"
	"github.com/harper/book-concierge/internal/logging"
	"github.com/harper/book-concierge/internal/storage"
)

// env is everything a command needs to serve questions
type env struct {
	cfg       *config.Config
	logger    *zap.Logger
	book      *storage.Book
	concierge *core.Concierge
}

type loggerFactory func(cfg *config.Config) (*zap.Logger, error)

// consoleLogger logs to stderr, honoring --verbose and --quiet
func consoleLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.LogLevel
	if quiet {
		level = "error"
	}
	return logging.New(level, cfg.LogFile, verbose)
}

// fileLogger keeps the terminal clear for full-screen UIs
func fileLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.NewFileOnly(level, cfg.LogFile)
}

// bootstrap fails before any session starts when config or the book index is unusable
func bootstrap(newLogger loggerFactory) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	concierge, book, err := app.Build(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, book: book, concierge: concierge}, nil
}

func (a *env) Close() {
	_ = a.logger.Sync()
}
