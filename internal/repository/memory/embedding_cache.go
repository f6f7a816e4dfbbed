package memory

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// EmbeddingCache keeps query embeddings for recently asked questions so the
// suggested starter questions do not hit the embedding provider on every click.
type EmbeddingCache struct {
	cache *cache.Cache
}

func NewEmbeddingCache(ttl time.Duration) *EmbeddingCache {
	return &EmbeddingCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func cacheKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func (c *EmbeddingCache) Get(text string) ([]float32, bool) {
	if x, found := c.cache.Get(cacheKey(text)); found {
		return x.([]float32), true
	}
	return nil, false
}

func (c *EmbeddingCache) Set(text string, vector []float32) {
	stored := make([]float32, len(vector))
	copy(stored, vector)
	c.cache.Set(cacheKey(text), stored, cache.DefaultExpiration)
}

func (c *EmbeddingCache) Len() int {
	return c.cache.ItemCount()
}
