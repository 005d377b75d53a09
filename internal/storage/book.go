// ABOUTME: Book pairs the vector index with its passage metadata
// ABOUTME: Enforces the one-passage-per-vector alignment at load time
package storage

import (
	"fmt"

	"github.com/harper/book-concierge/internal/models"
)

// Book is the process-wide, read-only retrieval corpus
type Book struct {
	index    *VectorIndex
	passages *PassageStore
}

// NewBook joins an index and its metadata
func NewBook(index *VectorIndex, passages *PassageStore) (*Book, error) {
	if index.Len() != passages.Len() {
		return nil, fmt.Errorf("%w: %w: %d vectors, %d passages",
			ErrIndexLoad, ErrMisaligned, index.Len(), passages.Len())
	}
	return &Book{index: index, passages: passages}, nil
}

// OpenBook loads both files. Any error is fatal for the process.
func OpenBook(indexPath, metadataPath string, dimension int) (*Book, error) {
	index, err := LoadVectorIndex(indexPath, dimension)
	if err != nil {
		return nil, err
	}
	passages, err := LoadPassages(metadataPath)
	if err != nil {
		return nil, err
	}
	return NewBook(index, passages)
}

// Len returns the number of indexed passages
func (b *Book) Len() int { return b.index.Len() }

// Dimension returns the embedding dimension of the index
func (b *Book) Dimension() int { return b.index.Dimension() }

// Search delegates to the vector index
func (b *Book) Search(query []float32, k int) ([]Neighbor, error) {
	return b.index.Search(query, k)
}

// Passage returns the metadata at an index position
func (b *Book) Passage(pos int) (models.PassageRecord, error) {
	return b.passages.Passage(pos)
}
