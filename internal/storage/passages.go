// ABOUTME: Ordered passage metadata aligned by position with the vector index
// ABOUTME: Loaded from a JSON array of {page, text} records at startup
package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/harper/book-concierge/internal/models"
)

// PassageStore is the read-only list of book passages
type PassageStore struct {
	records []models.PassageRecord
}

// NewPassageStore validates and wraps records; position i describes vector i
func NewPassageStore(records []models.PassageRecord) (*PassageStore, error) {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("passage %d: %w", i, err)
		}
	}
	out := make([]models.PassageRecord, len(records))
	copy(out, records)
	return &PassageStore{records: out}, nil
}

// LoadPassages reads the metadata file
func LoadPassages(path string) (*PassageStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata file: %w", ErrIndexLoad, err)
	}

	var records []models.PassageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: parsing metadata %s: %w", ErrIndexLoad, path, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: metadata %s: expected a JSON array", ErrIndexLoad, path)
	}

	store, err := NewPassageStore(records)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata %s: %w", ErrIndexLoad, path, err)
	}
	return store, nil
}

// Len returns the number of passages
func (s *PassageStore) Len() int { return len(s.records) }

// Passage returns the record at position pos
func (s *PassageStore) Passage(pos int) (models.PassageRecord, error) {
	if pos < 0 || pos >= len(s.records) {
		return models.PassageRecord{}, fmt.Errorf("passage position %d out of range [0,%d)", pos, len(s.records))
	}
	return s.records[pos], nil
}
