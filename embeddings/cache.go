package embeddings

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	defaultCacheTTL     = time.Hour
	defaultCacheCleanup = 10 * time.Minute
)

// cachedEmbedder memoizes vectors per input text. Chunk texts repeat
// across ingestion runs and queries repeat across sessions, so the same
// string is never embedded twice within the TTL.
type cachedEmbedder struct {
	inner Embedder
	cache *gocache.Cache
}

func NewCachedEmbedder(inner Embedder, ttl time.Duration) Embedder {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &cachedEmbedder{
		inner: inner,
		cache: gocache.New(ttl, defaultCacheCleanup),
	}
}

func (e *cachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))

	missing := make([]string, 0, len(texts))
	missingIdx := make([]int, 0, len(texts))
	for i, text := range texts {
		if cached, ok := e.cache.Get(text); ok {
			results[i] = cached.([]float32)
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return results, nil
	}

	vectors, err := e.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}

	for j, vec := range vectors {
		e.cache.SetDefault(missing[j], vec)
		results[missingIdx[j]] = vec
	}

	return results, nil
}
