// ABOUTME: Test environment for command tests: a small book on disk and a fake OpenAI API
// ABOUTME: Commands run end to end against these through environment configuration
package commands

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.etcd.io/bbolt"
)

var configEnvKeys = []string{
	"OPENAI_API_KEY", "OPENAI_BASE_URL", "CONCIERGE_CHAT_MODEL", "CONCIERGE_EMBEDDING_MODEL",
	"CONCIERGE_TEMPERATURE", "OPENAI_TIMEOUT", "OPENAI_MAX_RETRIES", "OPENAI_RETRY_DELAY",
	"CONCIERGE_INDEX_PATH", "CONCIERGE_METADATA_PATH", "CONCIERGE_VECTOR_DIMENSION",
	"CONCIERGE_TOP_K", "CONCIERGE_MAX_QUESTIONS", "CONCIERGE_REFINE", "CONCIERGE_BOOK_TITLE",
	"CONCIERGE_INSTRUCTIONS_FILE", "CONCIERGE_EMBEDDING_CACHE_TTL", "CONCIERGE_LOG_LEVEL", "CONCIERGE_LOG_FILE",
}

type testPassage struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

var bookPassages = []testPassage{
	{Page: 4, Text: "This book is for households building their first budget."},
	{Page: 12, Text: "Track fixed costs in a simple table."},
	{Page: 30, Text: "Total each category with SUMIF."},
}

// writeBook writes a 2-dimensional index where passage i sits at (i, 0)
func writeBook(t *testing.T, dir string) (string, string) {
	t.Helper()
	indexPath := filepath.Join(dir, "book_index.db")
	metaPath := filepath.Join(dir, "book_metadata.json")

	db, err := bbolt.Open(indexPath, 0o600, nil)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucket([]byte("meta"))
		if err != nil {
			return err
		}
		if err := meta.Put([]byte("dimension"), be64(2)); err != nil {
			return err
		}
		if err := meta.Put([]byte("count"), be64(uint64(len(bookPassages)))); err != nil {
			return err
		}
		vectors, err := tx.CreateBucket([]byte("vectors"))
		if err != nil {
			return err
		}
		for i := range bookPassages {
			v := make([]byte, 8)
			binary.LittleEndian.PutUint32(v[0:], math.Float32bits(float32(i)))
			binary.LittleEndian.PutUint32(v[4:], math.Float32bits(0))
			if err := vectors.Put(be64(uint64(i)), v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("write index: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close index: %v", err)
	}

	data, err := json.Marshal(bookPassages)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(metaPath, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return indexPath, metaPath
}

func be64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// fakeOpenAI embeds every query at (1.1, 0), so page 12 is nearest
func fakeOpenAI(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/embeddings":
			_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[1.1,0]}],"model":"text-embedding-3-small"}`))
		case "/v1/chat/completions":
			var req struct {
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			answer := "Start with a simple table of fixed costs."
			if len(req.Messages) > 0 && strings.Contains(req.Messages[0].Content, "refining answers") {
				answer = "Keep a table of fixed costs and update it monthly."
			}
			resp := map[string]any{
				"id": "chatcmpl-test", "object": "chat.completion", "created": 1, "model": "gpt-3.5-turbo",
				"choices": []any{map[string]any{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": answer},
					"finish_reason": "stop",
				}},
			}
			_ = json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// setupEnv points the CLI at a fresh book and fake API
func setupEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
	indexPath, metaPath := writeBook(t, t.TempDir())
	server := fakeOpenAI(t)

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", server.URL+"/v1")
	t.Setenv("CONCIERGE_INDEX_PATH", indexPath)
	t.Setenv("CONCIERGE_METADATA_PATH", metaPath)
	t.Setenv("CONCIERGE_VECTOR_DIMENSION", "2")
	t.Setenv("CONCIERGE_LOG_LEVEL", "error")
}
