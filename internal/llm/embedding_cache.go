// ABOUTME: In-process cache of query embeddings keyed by exact text
// ABOUTME: Avoids a second embedding call when a question is repeated within the TTL
package llm

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Embedder converts text to a vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CachedEmbedder decorates an Embedder with a TTL cache
type CachedEmbedder struct {
	next  Embedder
	cache *cache.Cache
}

// NewCachedEmbedder wraps next. A ttl <= 0 disables caching and returns next unchanged.
func NewCachedEmbedder(next Embedder, ttl time.Duration) Embedder {
	if ttl <= 0 {
		return next
	}
	return &CachedEmbedder{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Embed returns a cached vector or delegates. Failures are never cached.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		return copyVector(v.([]float32)), nil
	}

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.cache.Set(text, copyVector(vec), cache.DefaultExpiration)
	return vec, nil
}

// Len reports the number of cached entries
func (c *CachedEmbedder) Len() int {
	return c.cache.ItemCount()
}

func copyVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
