package redis

import (
	"context"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// EmbeddingCache stores embedding vectors keyed by a BLAKE2b hash of the
// source text. The gateway charges per call and the same course text is
// embedded identically every time, so a long-lived cache cuts most of
// the traffic during re-ingestion.
type EmbeddingCache struct {
	cache *Cache
}

// NewEmbeddingCache creates a new EmbeddingCache.
func NewEmbeddingCache(cache *Cache) *EmbeddingCache {
	return &EmbeddingCache{cache: cache}
}

// HashText returns the cache key hash for a piece of source text.
func HashText(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached vector for the given text.
// Returns ErrCacheMiss when the vector is not cached.
func (e *EmbeddingCache) Get(ctx context.Context, text string) (shared.Embedding, error) {
	var values []float32
	if err := e.cache.Get(ctx, EmbeddingKey(HashText(text)), &values); err != nil {
		return nil, err
	}
	return shared.NewEmbedding(values)
}

// Set stores a vector for the given text.
func (e *EmbeddingCache) Set(ctx context.Context, text string, embedding shared.Embedding) error {
	return e.cache.Set(ctx, EmbeddingKey(HashText(text)), []float32(embedding), TTLEmbedding)
}

// Invalidate drops the cached vector for the given text.
func (e *EmbeddingCache) Invalidate(ctx context.Context, text string) error {
	return e.cache.Delete(ctx, EmbeddingKey(HashText(text)))
}
