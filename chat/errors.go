package chat

import "fmt"

// GenerationError is an LLM failure during answer generation. It
// propagates to the caller; there is no automatic retry.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("answer generation: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// TranslationError is a failed translation call. It is caught inside the
// service: the untranslated answer is returned and the error only logged.
type TranslationError struct {
	Language string
	Err      error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translate to %s: %v", e.Language, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }
