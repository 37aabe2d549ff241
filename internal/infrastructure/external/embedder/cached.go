package embedder

import (
	"context"
	"log/slog"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// VectorCache is the cache the decorator reads through. Cache lookups
// are best effort: a miss or a cache failure falls through to the gateway.
type VectorCache interface {
	Get(ctx context.Context, text string) (shared.Embedding, error)
	Set(ctx context.Context, text string, embedding shared.Embedding) error
}

// Embedder converts text into vectors. Both Client and CachedClient satisfy it.
type Embedder interface {
	Embed(ctx context.Context, text string) (shared.Embedding, error)
	EmbedBatch(ctx context.Context, texts []string) ([]shared.Embedding, error)
}

// CachedClient wraps a Client with a read-through vector cache.
// Embedding the same text always yields the same vector, so entries
// only expire to bound memory, never for correctness.
type CachedClient struct {
	client *Client
	cache  VectorCache
	logger *slog.Logger
}

// NewCachedClient creates a caching decorator over the gateway client.
func NewCachedClient(client *Client, cache VectorCache, logger *slog.Logger) *CachedClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedClient{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// Embed returns the cached vector for text, calling the gateway on a miss.
func (c *CachedClient) Embed(ctx context.Context, text string) (shared.Embedding, error) {
	if cached, err := c.cache.Get(ctx, text); err == nil {
		return cached, nil
	}

	vector, err := c.client.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, text, vector); err != nil {
		c.logger.Warn("embedding cache write failed", "error", err)
	}

	return vector, nil
}

// EmbedBatch resolves cached texts locally and sends only the misses
// to the gateway in a single request.
func (c *CachedClient) EmbedBatch(ctx context.Context, texts []string) ([]shared.Embedding, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([]shared.Embedding, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if cached, err := c.cache.Get(ctx, text); err == nil {
			vectors[i] = cached
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	fetched, err := c.client.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}

	for j, vector := range fetched {
		vectors[missingIdx[j]] = vector
		if err := c.cache.Set(ctx, missing[j], vector); err != nil {
			c.logger.Warn("embedding cache write failed", "error", err)
		}
	}

	return vectors, nil
}
