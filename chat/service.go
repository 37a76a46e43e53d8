// Package chat produces grounded answers to welfare questions: it
// augments the query with the user's profile, retrieves context chunks,
// assembles the counselor prompt, calls the model and optionally
// translates the result into the user's preferred language.
package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/majubom/majubom/document"
	"github.com/majubom/majubom/llm"
)

// translationDelimiter separates the translated section from the Korean
// original in a bilingual answer.
const translationDelimiter = "\n\n---\n\n"

// Retriever returns the chunks most relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]document.Chunk, error)
}

// Service is the answer generator. Construct it explicitly with its
// collaborators; it holds no global state and no conversation state of
// its own.
type Service struct {
	retriever  Retriever
	generator  llm.Client
	translator llm.Client
	logger     *zap.Logger
}

// NewService wires the generator. translator is a separately configured
// model instance used only for translation calls; it may equal generator.
func NewService(retriever Retriever, generator, translator llm.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		retriever:  retriever,
		generator:  generator,
		translator: translator,
		logger:     logger,
	}
}

// Answer runs the full generation sequence for one question and appends
// the completed turn to history (when non-nil).
func (s *Service) Answer(ctx context.Context, query string, profile UserProfile, history *History) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("question cannot be empty")
	}
	if s.retriever == nil {
		return "", fmt.Errorf("retriever is not configured")
	}
	if s.generator == nil {
		return "", fmt.Errorf("llm client is not configured")
	}

	augmented := profile.AugmentQuery(query)

	chunks, err := s.retriever.Retrieve(ctx, augmented)
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}
	if len(chunks) == 0 {
		s.logger.Info("no context retrieved, answering from model knowledge alone",
			zap.String("query", query))
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt(chunks, profile)},
		{Role: llm.RoleUser, Content: query},
	}

	answer, err := s.generator.Generate(ctx, messages)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	answer = strings.TrimSpace(answer) + attribution(chunks)

	final := answer
	if profile.NeedsTranslation() {
		translated, err := s.translate(ctx, answer, profile.PreferredLanguage)
		if err != nil {
			// Translation is best-effort: the user still gets the
			// Korean answer.
			s.logger.Warn("translation failed, returning untranslated answer", zap.Error(err))
		} else {
			final = translated + translationDelimiter + answer
		}
	}

	if history != nil {
		history.Append(query, final)
	}

	return final, nil
}

func (s *Service) translate(ctx context.Context, text, language string) (string, error) {
	if s.translator == nil {
		return "", &TranslationError{Language: language, Err: fmt.Errorf("translator is not configured")}
	}

	prompt := fmt.Sprintf("다음 한국어 텍스트를 %s로 정확히 번역해주세요:\n\n%s", language, text)
	translated, err := s.translator.Generate(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", &TranslationError{Language: language, Err: err}
	}

	return strings.TrimSpace(translated), nil
}
