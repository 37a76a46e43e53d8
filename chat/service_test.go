package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majubom/majubom/chat"
	"github.com/majubom/majubom/document"
	"github.com/majubom/majubom/llm"
)

type stubRetriever struct {
	chunks    []document.Chunk
	lastQuery string
	err       error
}

func (s *stubRetriever) Retrieve(_ context.Context, query string) ([]document.Chunk, error) {
	s.lastQuery = query
	return s.chunks, s.err
}

var _ chat.Retriever = (*stubRetriever)(nil)

type stubLLM struct {
	answer   string
	err      error
	calls    int
	messages [][]llm.Message
}

func (s *stubLLM) Generate(_ context.Context, messages []llm.Message) (string, error) {
	s.calls++
	s.messages = append(s.messages, messages)
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

var _ llm.Client = (*stubLLM)(nil)

func chunk(text, source string) document.Chunk {
	return document.Chunk{Text: text, Tags: map[string]string{document.TagSource: source}}
}

func TestAnswerAugmentsQueryWithProfile(t *testing.T) {
	retriever := &stubRetriever{}
	svc := chat.NewService(retriever, &stubLLM{answer: "답변"}, &stubLLM{}, nil)

	profile := chat.UserProfile{
		ResidenceArea: "강남구",
		VisaStatus:    "결혼이민",
		FamilyMembers: []string{"배우자", "자녀"},
		Interests:     []string{"자녀교육"},
	}

	_, err := svc.Answer(context.Background(), "지원 정책이 궁금해요", profile, nil)
	require.NoError(t, err)

	assert.Equal(t,
		"강남구 지역에 거주, 결혼이민 체류자격, 가족 구성: 배우자, 자녀인 사용자가 질문: 지원 정책이 궁금해요 (관심 분야: 자녀교육)",
		retriever.lastQuery)
}

func TestAnswerEmptyProfileLeavesQueryUntouched(t *testing.T) {
	retriever := &stubRetriever{}
	svc := chat.NewService(retriever, &stubLLM{answer: "답변"}, nil, nil)

	_, err := svc.Answer(context.Background(), "안녕하세요", chat.UserProfile{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "안녕하세요", retriever.lastQuery)
}

func TestAnswerStuffsContextIntoSystemPrompt(t *testing.T) {
	generator := &stubLLM{answer: "답변"}
	retriever := &stubRetriever{chunks: []document.Chunk{
		chunk("첫 번째 근거", "a.pdf"),
		chunk("두 번째 근거", "b.pdf"),
	}}
	svc := chat.NewService(retriever, generator, nil, nil)

	_, err := svc.Answer(context.Background(), "질문", chat.UserProfile{}, nil)
	require.NoError(t, err)

	require.Len(t, generator.messages, 1)
	msgs := generator.messages[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, llm.RoleUser, msgs[1].Role)
	assert.Equal(t, "질문", msgs[1].Content, "user turn carries the raw query")

	system := msgs[0].Content
	assert.Contains(t, system, "마주봄")
	assert.Contains(t, system, "첫 번째 근거\n\n두 번째 근거")

	first := strings.Index(system, "첫 번째 근거")
	second := strings.Index(system, "두 번째 근거")
	assert.Less(t, first, second, "context keeps retrieval order")
}

func TestAnswerAttributionDeduplicatesSources(t *testing.T) {
	retriever := &stubRetriever{chunks: []document.Chunk{
		chunk("a", "법률정보.pdf"),
		chunk("b", "프로그램.json"),
		chunk("c", "법률정보.pdf"),
	}}
	svc := chat.NewService(retriever, &stubLLM{answer: "답변"}, nil, nil)

	answer, err := svc.Answer(context.Background(), "질문", chat.UserProfile{}, nil)
	require.NoError(t, err)

	assert.Contains(t, answer, "📚 참고한 문서:")
	assert.Equal(t, 1, strings.Count(answer, "법률정보.pdf"), "duplicate sources listed once")

	lawIdx := strings.Index(answer, "- 법률정보.pdf")
	progIdx := strings.Index(answer, "- 프로그램.json")
	assert.Less(t, lawIdx, progIdx, "first-seen order preserved")
}

func TestAnswerTranslatesForForeignLanguage(t *testing.T) {
	translator := &stubLLM{answer: "Translated answer"}
	svc := chat.NewService(&stubRetriever{}, &stubLLM{answer: "한국어 답변"}, translator, nil)

	profile := chat.UserProfile{PreferredLanguage: "English"}
	answer, err := svc.Answer(context.Background(), "질문", profile, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, translator.calls)
	require.Contains(t, answer, "\n\n---\n\n")

	parts := strings.SplitN(answer, "\n\n---\n\n", 2)
	assert.Equal(t, "Translated answer", parts[0])
	assert.Equal(t, "한국어 답변", parts[1])

	// The translation prompt names the target language.
	assert.Contains(t, translator.messages[0][0].Content, "English")
}

func TestAnswerSkipsTranslationForKorean(t *testing.T) {
	translator := &stubLLM{}
	svc := chat.NewService(&stubRetriever{}, &stubLLM{answer: "한국어 답변"}, translator, nil)

	answer, err := svc.Answer(context.Background(), "질문", chat.UserProfile{PreferredLanguage: "한국어"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, translator.calls)
	assert.Equal(t, "한국어 답변", answer)
}

func TestAnswerTranslationFailureIsNonFatal(t *testing.T) {
	translator := &stubLLM{err: errors.New("model unavailable")}
	svc := chat.NewService(&stubRetriever{}, &stubLLM{answer: "한국어 답변"}, translator, nil)

	answer, err := svc.Answer(context.Background(), "질문", chat.UserProfile{PreferredLanguage: "English"}, nil)
	require.NoError(t, err, "translation failure must never surface to the user")
	assert.Equal(t, "한국어 답변", answer)
}

func TestAnswerGenerationFailurePropagates(t *testing.T) {
	svc := chat.NewService(&stubRetriever{}, &stubLLM{err: errors.New("rate limited")}, nil, nil)

	_, err := svc.Answer(context.Background(), "질문", chat.UserProfile{}, nil)
	require.Error(t, err)

	var genErr *chat.GenerationError
	assert.True(t, errors.As(err, &genErr))
}

func TestAnswerAppendsToHistory(t *testing.T) {
	svc := chat.NewService(&stubRetriever{}, &stubLLM{answer: "답변"}, nil, nil)

	history := chat.NewHistory(2)
	for _, q := range []string{"하나", "둘", "셋"} {
		_, err := svc.Answer(context.Background(), q, chat.UserProfile{}, history)
		require.NoError(t, err)
	}

	turns := history.Turns()
	require.Len(t, turns, 2, "history bound must hold")
	assert.Equal(t, "둘", turns[0].Query)
	assert.Equal(t, "셋", turns[1].Query)
	assert.Equal(t, "답변", turns[1].Answer)
}

func TestAnswerRejectsEmptyQuestion(t *testing.T) {
	svc := chat.NewService(&stubRetriever{}, &stubLLM{}, nil, nil)
	_, err := svc.Answer(context.Background(), "   ", chat.UserProfile{}, nil)
	assert.Error(t, err)
}
