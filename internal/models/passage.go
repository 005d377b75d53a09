// ABOUTME: PassageRecord is one indexed chunk of the book with its page number
// ABOUTME: RetrievalMatch pairs a passage with its rank and distance from a query
package models

import "fmt"

// PassageRecord is an immutable excerpt of the book, addressed by index position
type PassageRecord struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// Validate checks the record invariants
func (p PassageRecord) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("page must be >= 1, got %d", p.Page)
	}
	return nil
}

// RetrievalMatch is a passage returned by similarity search.
// Rank is 1-based; lower Distance means more similar.
type RetrievalMatch struct {
	Passage  PassageRecord `json:"passage"`
	Rank     int           `json:"rank"`
	Distance float32       `json:"distance"`
}

// Pages returns the page numbers of the matches in order
func Pages(matches []RetrievalMatch) []int {
	pages := make([]int, len(matches))
	for i, m := range matches {
		pages[i] = m.Passage.Page
	}
	return pages
}
