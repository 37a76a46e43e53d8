package chat_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majubom/majubom/chat"
	"github.com/majubom/majubom/document"
	"github.com/majubom/majubom/ingestion"
	"github.com/majubom/majubom/llm"
	"github.com/majubom/majubom/retrieval"
	"github.com/majubom/majubom/splitter"
	"github.com/majubom/majubom/store"
)

// keywordEmbedder produces one vector dimension per known keyword, so
// a text and a query mentioning the same program land close together.
type keywordEmbedder struct {
	keywords []string
}

func (e *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, len(e.keywords)+1)
		vec[len(e.keywords)] = 0.1 // keeps every vector non-zero
		for d, kw := range e.keywords {
			if strings.Contains(text, kw) {
				vec[d] = 1
			}
		}
		out[i] = vec
	}
	return out, nil
}

// memoryIndex is a brute-force in-memory stand-in for the pgvector store.
type memoryIndex struct {
	embedder *keywordEmbedder
	results  []store.Result
}

func (m *memoryIndex) Add(ctx context.Context, chunks []document.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := m.embedder.Embed(ctx, texts)
	if err != nil {
		return err
	}
	for i, c := range chunks {
		m.results = append(m.results, store.Result{Chunk: c, Vector: vectors[i]})
	}
	return nil
}

func (m *memoryIndex) Search(_ context.Context, vector []float32, limit int) ([]store.Result, error) {
	sorted := make([]store.Result, len(m.results))
	copy(sorted, m.results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return l2(sorted[i].Vector, vector) < l2(sorted[j].Vector, vector)
	})
	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func l2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Ingest one program JSON entry, chunk it, index it and answer a query
// naming the program: the program chunk must ground the answer.
func TestPipelineFindsIngestedProgram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "programs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"programs": [
			{"title": "프로그램A", "summary": "요약", "location": "서울", "dates": "2025-01-01"},
			{"title": "다른 프로그램", "summary": "무관한 내용", "location": "부산", "dates": "2025-02-02"}
		]
	}`), 0o644))

	records, err := ingestion.NewService("", nil).LoadProgramJSON(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	embedder := &keywordEmbedder{keywords: []string{"프로그램A", "부산"}}
	index := &memoryIndex{embedder: embedder}
	require.NoError(t, index.Add(context.Background(), splitter.Default().SplitAll(records)))

	retriever := retrieval.New(index, embedder, 5, 10)

	var systemSeen string
	generator := &recordingLLM{answer: "프로그램A 안내입니다.", onSystem: func(s string) { systemSeen = s }}
	svc := chat.NewService(retriever, generator, nil, nil)

	answer, err := svc.Answer(context.Background(), "프로그램A 신청 방법이 궁금해요", chat.UserProfile{}, nil)
	require.NoError(t, err)

	assert.Contains(t, systemSeen, "Title: 프로그램A", "retrieved chunk must be stuffed into the prompt")
	assert.Contains(t, answer, "프로그램A 안내입니다.")
	assert.Contains(t, answer, "📚 참고한 문서:\n- programs.json")

	// Top retrieved chunk is the one naming the program.
	chunks, err := retriever.Retrieve(context.Background(), "프로그램A")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[0].Text, "프로그램A")
}

type recordingLLM struct {
	answer   string
	onSystem func(string)
}

func (r *recordingLLM) Generate(_ context.Context, messages []llm.Message) (string, error) {
	for _, msg := range messages {
		if msg.Role == llm.RoleSystem && r.onSystem != nil {
			r.onSystem(msg.Content)
		}
	}
	return r.answer, nil
}
