package chat

import "sync"

// Turn is one completed question/answer exchange.
type Turn struct {
	Query  string
	Answer string
}

// History is a size-bounded conversation log owned by one session and
// passed explicitly into each generation call. It is safe for
// concurrent use; overlapping requests on the same session serialize
// their appends.
type History struct {
	mu    sync.Mutex
	limit int
	turns []Turn
}

const DefaultHistoryLimit = 20

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Append records a turn, evicting the oldest when the bound is reached.
func (h *History) Append(query, answer string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, Turn{Query: query, Answer: answer})
	if len(h.turns) > h.limit {
		h.turns = h.turns[len(h.turns)-h.limit:]
	}
}

func (h *History) Turns() []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}
