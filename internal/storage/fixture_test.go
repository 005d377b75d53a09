// ABOUTME: Test helpers that write index and metadata files in the on-disk format
// ABOUTME: Shared by the storage tests
package storage

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"go.etcd.io/bbolt"

	"github.com/harper/book-concierge/internal/models"
)

func putUint(t *testing.T, b *bbolt.Bucket, key []byte, v uint64) {
	t.Helper()
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	if err := b.Put(key, buf); err != nil {
		t.Fatalf("put %s: %v", key, err)
	}
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func positionKey(pos int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(pos))
	return k
}

// writeIndex writes vectors under the given dimension and count metadata
func writeIndex(t *testing.T, path string, dimension, count int, vectors [][]float32) {
	t.Helper()
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer db.Close()

	err = db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucket(bucketMeta)
		if err != nil {
			return err
		}
		putUint(t, meta, keyDimension, uint64(dimension))
		putUint(t, meta, keyCount, uint64(count))

		vb, err := tx.CreateBucket(bucketVectors)
		if err != nil {
			return err
		}
		for i, v := range vectors {
			if err := vb.Put(positionKey(i), encodeVector(v)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func writePassages(t *testing.T, path string, records []models.PassageRecord) {
	t.Helper()
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal passages: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write passages: %v", err)
	}
}

func fixturePaths(t *testing.T) (string, string) {
	dir := t.TempDir()
	return filepath.Join(dir, "book_index.db"), filepath.Join(dir, "book_metadata.json")
}
