// Package splitter cuts Records into overlapping character windows.
package splitter

import (
	"fmt"

	"github.com/majubom/majubom/document"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// CharacterSplitter produces fixed-size rune windows with a fixed overlap
// between consecutive windows. No separator awareness: a window may cut
// through the middle of a sentence. Splitting is deterministic.
type CharacterSplitter struct {
	size    int
	overlap int
}

func New(size, overlap int) (*CharacterSplitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got %d", overlap)
	}
	return &CharacterSplitter{size: size, overlap: overlap}, nil
}

func Default() *CharacterSplitter {
	s, err := New(DefaultChunkSize, DefaultChunkOverlap)
	if err != nil {
		panic(err)
	}
	return s
}

// Split cuts one Record into chunks. A Record shorter than the window
// yields exactly one chunk equal to the Record.
func (s *CharacterSplitter) Split(rec document.Record) []document.Chunk {
	runes := []rune(rec.Text)
	if len(runes) == 0 {
		return nil
	}

	step := s.size - s.overlap
	chunks := make([]document.Chunk, 0, (len(runes)+step-1)/step)

	for start := 0; start < len(runes); start += step {
		end := start + s.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, document.Chunk{
			Text:  string(runes[start:end]),
			Tags:  rec.Tags,
			Index: len(chunks),
		})
		if end == len(runes) {
			break
		}
	}

	return chunks
}

// SplitAll flattens the chunks of many Records, in input order.
func (s *CharacterSplitter) SplitAll(records []document.Record) []document.Chunk {
	var chunks []document.Chunk
	for _, rec := range records {
		chunks = append(chunks, s.Split(rec)...)
	}
	return chunks
}
