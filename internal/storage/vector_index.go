// ABOUTME: Read-only nearest-neighbor index over precomputed passage embeddings
// ABOUTME: Loaded once from a BoltDB file into memory and searched by squared L2 distance
package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

// ExpectedEmbeddingDimension matches OpenAI text-embedding-3-small
const ExpectedEmbeddingDimension = 1536

// ErrIndexLoad marks a fatal startup failure: the index or metadata is missing,
// malformed, or misaligned. Sessions must not be served after it.
var ErrIndexLoad = errors.New("book index load failed")

// maxDimension bounds the header's dimension before any size arithmetic
const maxDimension = 1 << 16

// ErrMisaligned is wrapped when index and metadata lengths differ
var ErrMisaligned = errors.New("index and metadata are misaligned")

var (
	bucketMeta    = []byte("meta")
	bucketVectors = []byte("vectors")

	keyDimension = []byte("dimension")
	keyCount     = []byte("count")
)

// Neighbor is a search hit: the vector's position and its distance from the query
type Neighbor struct {
	Position int
	Distance float32
}

// VectorIndex holds every vector in one contiguous slice.
// It is never mutated after construction, so concurrent searches need no locking.
type VectorIndex struct {
	dimension int
	count     int
	data      []float32
}

// NewVectorIndex builds an in-memory index; position i is vectors[i]
func NewVectorIndex(dimension int, vectors [][]float32) (*VectorIndex, error) {
	if len(vectors) > 0 && dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension %d", dimension)
	}
	data := make([]float32, 0, len(vectors)*dimension)
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, fmt.Errorf("vector %d: dimension mismatch: expected %d, got %d", i, dimension, len(v))
		}
		data = append(data, v...)
	}
	return &VectorIndex{dimension: dimension, count: len(vectors), data: data}, nil
}

// LoadVectorIndex reads an index file written as two buckets:
// meta (dimension, count) and vectors (big-endian position -> little-endian float32s).
// expectedDimension <= 0 skips the model dimension check.
func LoadVectorIndex(path string, expectedDimension int) (*VectorIndex, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: index file: %w", ErrIndexLoad, err)
	}

	db, err := bbolt.Open(path, 0o444, &bbolt.Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: opening index %s: %w", ErrIndexLoad, path, err)
	}
	defer db.Close()

	var idx *VectorIndex
	err = db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		if meta == nil {
			return errors.New("meta bucket not found")
		}
		dim, err := readUint(meta, keyDimension)
		if err != nil {
			return err
		}
		count, err := readUint(meta, keyCount)
		if err != nil {
			return err
		}
		if count > 0 && dim == 0 {
			return errors.New("non-empty index with zero dimension")
		}
		if dim > maxDimension {
			return fmt.Errorf("dimension %d exceeds limit of %d", dim, maxDimension)
		}

		vectors := tx.Bucket(bucketVectors)
		if vectors == nil {
			return errors.New("vectors bucket not found")
		}
		// The header is untrusted until it agrees with what is actually stored
		stored := uint64(vectors.Stats().KeyN)
		if count != stored {
			return fmt.Errorf("meta count %d does not match %d stored vectors", count, stored)
		}

		var data []float32
		next := uint64(0)
		err = vectors.ForEach(func(k, v []byte) error {
			if len(k) != 8 {
				return fmt.Errorf("invalid position key of %d bytes", len(k))
			}
			pos := binary.BigEndian.Uint64(k)
			if pos != next {
				return fmt.Errorf("positions not contiguous: expected %d, got %d", next, pos)
			}
			if len(v) != int(dim)*4 {
				return fmt.Errorf("vector %d: expected %d bytes, got %d", pos, dim*4, len(v))
			}
			for i := 0; i < len(v); i += 4 {
				data = append(data, math.Float32frombits(binary.LittleEndian.Uint32(v[i:])))
			}
			next++
			return nil
		})
		if err != nil {
			return err
		}
		if next != count {
			return fmt.Errorf("meta count %d does not match %d stored vectors", count, next)
		}

		idx = &VectorIndex{dimension: int(dim), count: int(count), data: data}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIndexLoad, path, err)
	}

	if expectedDimension > 0 && idx.count > 0 && idx.dimension != expectedDimension {
		return nil, fmt.Errorf("%w: invalid embedding dimension: expected %d, got %d",
			ErrIndexLoad, expectedDimension, idx.dimension)
	}

	return idx, nil
}

func readUint(b *bbolt.Bucket, key []byte) (uint64, error) {
	v := b.Get(key)
	if len(v) != 8 {
		return 0, fmt.Errorf("meta key %q missing or malformed", key)
	}
	return binary.BigEndian.Uint64(v), nil
}

// Len returns the number of indexed vectors
func (ix *VectorIndex) Len() int { return ix.count }

// Dimension returns the vector length
func (ix *VectorIndex) Dimension() int { return ix.dimension }

// Search returns up to k nearest positions ordered by ascending distance.
// Equal distances keep insertion order.
func (ix *VectorIndex) Search(query []float32, k int) ([]Neighbor, error) {
	if k <= 0 || ix.count == 0 {
		return []Neighbor{}, nil
	}
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", ix.dimension, len(query))
	}

	hits := make([]Neighbor, ix.count)
	for pos := 0; pos < ix.count; pos++ {
		hits[pos] = Neighbor{
			Position: pos,
			Distance: squaredL2(query, ix.data[pos*ix.dimension:(pos+1)*ix.dimension]),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// squaredL2 matches the metric of a flat L2 index
func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
