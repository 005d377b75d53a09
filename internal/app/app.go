// ABOUTME: Wires config into a ready concierge: book index, OpenAI client, and embedding cache
// ABOUTME: Shared by the CLI, the standalone MCP server, and the benchmark runner
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/harper/book-concierge/internal/config"
	"github.com/harper/book-concierge/internal/core"
	"github.com/harper/book-concierge/internal/llm"
	"github.com/harper/book-concierge/internal/storage"
)

// Build opens the book and returns a concierge over it.
// It fails before any session starts when the index, metadata, or instructions are unusable.
func Build(cfg *config.Config, logger *zap.Logger) (*core.Concierge, *storage.Book, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	book, err := storage.OpenBook(cfg.IndexPath, cfg.MetadataPath, cfg.VectorDimension)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("book index loaded",
		zap.String("index", cfg.IndexPath),
		zap.Int("passages", book.Len()),
		zap.Int("dimension", book.Dimension()))

	client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		BaseURL:        cfg.BaseURL,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Temperature:    float32(cfg.Temperature),
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initializing OpenAI client: %w", err)
	}

	instructions, err := core.LoadInstructions(cfg.InstructionsFile, cfg.BookTitle)
	if err != nil {
		return nil, nil, err
	}

	concierge := core.NewConcierge(
		core.NewRetriever(llm.NewCachedEmbedder(client, cfg.EmbeddingCacheTTL), book),
		core.NewAnswerGenerator(client, instructions),
		core.Options{
			TopK:          cfg.TopK,
			MaxQuestions:  cfg.MaxQuestions,
			RefineEnabled: cfg.RefineEnabled,
			Logger:        logger,
		},
	)

	return concierge, book, nil
}
