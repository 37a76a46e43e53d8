// Package retrieval selects the chunks that ground an answer, balancing
// relevance to the query against diversity among the selected set.
package retrieval

import (
	"context"
	"fmt"
	"math"

	"github.com/majubom/majubom/document"
	"github.com/majubom/majubom/embeddings"
	"github.com/majubom/majubom/store"
)

const (
	DefaultK      = 5
	DefaultFetchK = 10

	// Weight between relevance and diversity in the MMR score.
	mmrLambda = 0.5
)

// Searcher is the slice of the vector store the retriever needs.
type Searcher interface {
	Search(ctx context.Context, vector []float32, limit int) ([]store.Result, error)
}

type Retriever struct {
	searcher Searcher
	embedder embeddings.Embedder
	k        int
	fetchK   int
}

func New(searcher Searcher, embedder embeddings.Embedder, k, fetchK int) *Retriever {
	if k <= 0 {
		k = DefaultK
	}
	if fetchK < k {
		fetchK = DefaultFetchK
		if fetchK < k {
			fetchK = k
		}
	}
	return &Retriever{searcher: searcher, embedder: embedder, k: k, fetchK: fetchK}
}

// Retrieve embeds the query, fetches the fetchK nearest chunks and
// greedily picks k of them by maximal marginal relevance. Ties resolve
// by candidate position in the nearest-neighbour ordering, so a fixed
// index state always yields the same selection.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]document.Chunk, error) {
	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vectors")
	}
	queryVec := vectors[0]

	candidates, err := r.searcher.Search(ctx, queryVec, r.fetchK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	selected := selectMMR(queryVec, candidates, r.k)

	chunks := make([]document.Chunk, len(selected))
	for i, idx := range selected {
		chunks[i] = candidates[idx].Chunk
	}
	return chunks, nil
}

// selectMMR returns indexes into candidates, in selection order.
func selectMMR(queryVec []float32, candidates []store.Result, k int) []int {
	if k > len(candidates) {
		k = len(candidates)
	}

	relevance := make([]float64, len(candidates))
	for i, cand := range candidates {
		relevance[i] = cosine(queryVec, cand.Vector)
	}

	selected := make([]int, 0, k)
	picked := make([]bool, len(candidates))

	for len(selected) < k {
		best := -1
		bestScore := 0.0

		for i := range candidates {
			if picked[i] {
				continue
			}

			maxSim := 0.0
			for _, j := range selected {
				if sim := cosine(candidates[i].Vector, candidates[j].Vector); sim > maxSim {
					maxSim = sim
				}
			}

			score := mmrLambda*relevance[i] - (1-mmrLambda)*maxSim
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}

		if best == -1 {
			break
		}
		picked[best] = true
		selected = append(selected, best)
	}

	return selected
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
