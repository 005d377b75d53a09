// ABOUTME: Hand-written fakes for the embedding and completion services
// ABOUTME: Plus a small in-memory book used across the core tests
package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/harper/book-concierge/internal/models"
	"github.com/harper/book-concierge/internal/storage"
)

var errServiceDown = errors.New("service unavailable")

// fakeEmbedder returns a fixed vector per query, falling back to the zero vector
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	dim     int
	fail    bool
	calls   int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return nil, errServiceDown
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return make([]float32, f.dim), nil
}

func (f *fakeEmbedder) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeCompleter records every prompt and answers with a canned reply
type fakeCompleter struct {
	mu       sync.Mutex
	prompts  [][]models.Message
	reply    func(messages []models.Message) string
	failNext bool
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []models.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return "", errServiceDown
	}
	cp := make([]models.Message, len(messages))
	copy(cp, messages)
	f.prompts = append(f.prompts, cp)
	if f.reply != nil {
		return f.reply(messages), nil
	}
	return "answer", nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeCompleter) lastPrompt() []models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return nil
	}
	return f.prompts[len(f.prompts)-1]
}

var testPassages = []models.PassageRecord{
	{Page: 4, Text: "Who this book is for: households starting a budget."},
	{Page: 12, Text: "Tracking fixed costs with a simple table."},
	{Page: 30, Text: "Totals per category with SUMIF."},
	{Page: 47, Text: "Highlighting overspending with conditional formatting."},
	{Page: 63, Text: "Everything also works in LibreOffice Calc."},
}

// testBook places passage i at (i, 0) so distances from (x, 0) are easy to reason about
func testBook(t *testing.T, records []models.PassageRecord) *storage.Book {
	t.Helper()
	vectors := make([][]float32, len(records))
	for i := range records {
		vectors[i] = []float32{float32(i), 0}
	}
	idx, err := storage.NewVectorIndex(2, vectors)
	if err != nil {
		t.Fatalf("NewVectorIndex failed: %v", err)
	}
	passages, err := storage.NewPassageStore(records)
	if err != nil {
		t.Fatalf("NewPassageStore failed: %v", err)
	}
	book, err := storage.NewBook(idx, passages)
	if err != nil {
		t.Fatalf("NewBook failed: %v", err)
	}
	return book
}
