// ABOUTME: Retriever turns a free-text query into the top-k nearest book passages
// ABOUTME: Embeds the query, searches the index, and maps positions to passage records
package core

import (
	"context"
	"fmt"

	"github.com/harper/book-concierge/internal/models"
	"github.com/harper/book-concierge/internal/storage"
)

// Embedder converts text to a vector via an external service
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// PassageIndex is the read-only searchable book; *storage.Book satisfies it
type PassageIndex interface {
	Len() int
	Search(query []float32, k int) ([]storage.Neighbor, error)
	Passage(pos int) (models.PassageRecord, error)
}

// Retriever is safe for concurrent use; it holds no per-session state
type Retriever struct {
	embedder Embedder
	index    PassageIndex
}

// NewRetriever creates a new Retriever instance
func NewRetriever(embedder Embedder, index PassageIndex) *Retriever {
	return &Retriever{embedder: embedder, index: index}
}

// Search returns at most k matches ordered nearest-first.
// An empty index or non-positive k returns no matches without calling the embedder.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]models.RetrievalMatch, error) {
	if k <= 0 || r.index.Len() == 0 {
		return []models.RetrievalMatch{}, nil
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	hits, err := r.index.Search(vec, k)
	if err != nil {
		return nil, fmt.Errorf("%w: vector search: %w", ErrRetrieval, err)
	}

	matches := make([]models.RetrievalMatch, 0, len(hits))
	for i, h := range hits {
		passage, err := r.index.Passage(h.Position)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
		}
		matches = append(matches, models.RetrievalMatch{
			Passage:  passage,
			Rank:     i + 1,
			Distance: h.Distance,
		})
	}

	return matches, nil
}
