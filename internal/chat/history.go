package chat

import (
	"sync"

	"uniadvisor/internal/domain"
)

const (
	// maxHistoryMessages is how many messages are retained in total.
	maxHistoryMessages = 20

	// historyWindow is how many recent messages are included in a model
	// prompt: the last 3 exchanges.
	historyWindow = 6
)

// History is the process-wide conversation memory, shared across
// requests. Messages are evicted FIFO by exchange: the oldest turns go
// first, never a user message without its reply.
type History struct {
	mu       sync.Mutex
	messages []domain.Message
}

// NewHistory creates an empty conversation history.
func NewHistory() *History {
	return &History{}
}

// Append records one completed exchange and trims the retained history
// to the most recent maxHistoryMessages messages.
func (h *History) Append(query, answer string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages,
		domain.Message{Role: "user", Content: query},
		domain.Message{Role: "assistant", Content: answer},
	)
	if len(h.messages) > maxHistoryMessages {
		h.messages = h.messages[len(h.messages)-maxHistoryMessages:]
	}
}

// Window returns a copy of the last historyWindow messages for prompt
// construction.
func (h *History) Window() []domain.Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := 0
	if len(h.messages) > historyWindow {
		start = len(h.messages) - historyWindow
	}
	out := make([]domain.Message, len(h.messages)-start)
	copy(out, h.messages[start:])
	return out
}

// Len returns the number of retained messages.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}

// Clear forgets the conversation.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}
