package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddingCacheNormalizesKey(t *testing.T) {
	c := NewEmbeddingCache(time.Minute)
	c.Set("  What's Ivan's technical background? ", []float32{0.1, 0.2, 0.3})

	got, ok := c.Get("what's ivan's technical background?")
	assert.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got)
	assert.Equal(t, 1, c.Len())
}

func TestEmbeddingCacheStoresCopy(t *testing.T) {
	c := NewEmbeddingCache(time.Minute)
	vec := []float32{1, 2}
	c.Set("q", vec)
	vec[0] = 99

	got, _ := c.Get("q")
	assert.Equal(t, float32(1), got[0])
}

func TestEmbeddingCacheExpires(t *testing.T) {
	c := NewEmbeddingCache(20 * time.Millisecond)
	c.Set("q", []float32{1})

	assert.Eventually(t, func() bool {
		_, ok := c.Get("q")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
