// ABOUTME: Tests for the Retriever
// ABOUTME: Covers ordering, k bounds, the empty index, idempotence and embedding failures
package core

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/harper/book-concierge/internal/models"
)

func TestRetriever_TopThreeOfFive(t *testing.T) {
	embedder := &fakeEmbedder{dim: 2, vectors: map[string][]float32{
		"fixed costs": {1.2, 0},
	}}
	r := NewRetriever(embedder, testBook(t, testPassages))

	matches, err := r.Search(context.Background(), "fixed costs", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("len(matches) = %d, want 3", len(matches))
	}

	if got, want := models.Pages(matches), []int{12, 30, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("pages = %v, want %v", got, want)
	}
	for i, m := range matches {
		if m.Rank != i+1 {
			t.Errorf("matches[%d].Rank = %d, want %d", i, m.Rank, i+1)
		}
		if i > 0 && m.Distance < matches[i-1].Distance {
			t.Errorf("matches not ordered by distance at %d", i)
		}
	}
}

func TestRetriever_KLargerThanIndex(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{dim: 2}, testBook(t, testPassages))

	matches, err := r.Search(context.Background(), "anything", 20)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != len(testPassages) {
		t.Errorf("len(matches) = %d, want %d", len(matches), len(testPassages))
	}
}

func TestRetriever_EmptyIndex(t *testing.T) {
	embedder := &fakeEmbedder{dim: 2}
	r := NewRetriever(embedder, testBook(t, nil))

	matches, err := r.Search(context.Background(), "is this book for me?", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("len(matches) = %d, want 0", len(matches))
	}
	if FormatExcerpts(matches) != "" {
		t.Error("retrieved text should be empty for an empty index")
	}
	if embedder.callCount() != 0 {
		t.Errorf("embedder calls = %d, want 0", embedder.callCount())
	}
}

func TestRetriever_Idempotent(t *testing.T) {
	embedder := &fakeEmbedder{dim: 2, vectors: map[string][]float32{"q": {2.6, 0}}}
	r := NewRetriever(embedder, testBook(t, testPassages))

	first, err := r.Search(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	second, err := r.Search(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated search differs: %v vs %v", first, second)
	}
}

func TestRetriever_EmbeddingFailure(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{dim: 2, fail: true}, testBook(t, testPassages))

	_, err := r.Search(context.Background(), "q", 3)
	if !errors.Is(err, ErrRetrieval) {
		t.Errorf("error = %v, want ErrRetrieval", err)
	}
	if !errors.Is(err, errServiceDown) {
		t.Errorf("error = %v, want the service error preserved", err)
	}
}

func TestRetriever_DimensionMismatchIsRetrievalFailure(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{dim: 3}, testBook(t, testPassages))

	if _, err := r.Search(context.Background(), "q", 3); !errors.Is(err, ErrRetrieval) {
		t.Errorf("error = %v, want ErrRetrieval", err)
	}
}
