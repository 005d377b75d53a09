package app

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/harper/book-concierge/internal/config"
	"github.com/harper/book-concierge/internal/storage"
)

func TestBuild_MissingIndex(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.OpenAIKey = "sk-test"
	cfg.IndexPath = filepath.Join(dir, "missing.db")
	cfg.MetadataPath = filepath.Join(dir, "missing.json")

	concierge, book, err := Build(cfg, nil)
	if !errors.Is(err, storage.ErrIndexLoad) {
		t.Fatalf("Build() error = %v, want ErrIndexLoad", err)
	}
	if concierge != nil || book != nil {
		t.Error("Build() should return nothing on load failure")
	}
}
