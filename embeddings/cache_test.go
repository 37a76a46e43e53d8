package embeddings_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majubom/majubom/embeddings"
)

type countingEmbedder struct {
	calls int
	seen  [][]string
}

func (c *countingEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	c.calls++
	c.seen = append(c.seen, texts)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i]))}
	}
	return vectors, nil
}

func TestCachedEmbedderMemoizes(t *testing.T) {
	inner := &countingEmbedder{}
	cached := embeddings.NewCachedEmbedder(inner, time.Minute)

	first, err := cached.Embed(context.Background(), []string{"복지", "정책"})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, inner.calls)

	second, err := cached.Embed(context.Background(), []string{"복지", "정책"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls, "cache hit must not call the inner embedder")
}

func TestCachedEmbedderOnlyEmbedsMisses(t *testing.T) {
	inner := &countingEmbedder{}
	cached := embeddings.NewCachedEmbedder(inner, time.Minute)

	_, err := cached.Embed(context.Background(), []string{"비자", "체류"})
	require.NoError(t, err)

	out, err := cached.Embed(context.Background(), []string{"비자", "국적취득", "체류"})
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, []string{"국적취득"}, inner.seen[1])
}
