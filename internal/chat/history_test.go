package chat

import (
	"testing"
)

func TestHistory_TrimsToLimit(t *testing.T) {
	h := NewHistory()

	for i := 0; i < 15; i++ {
		h.Append("question", "answer")
	}

	if got := h.Len(); got != maxHistoryMessages {
		t.Errorf("Len() = %d, want %d", got, maxHistoryMessages)
	}
}

func TestHistory_EvictsOldestExchangeFirst(t *testing.T) {
	h := NewHistory()

	h.Append("first question", "first answer")
	for i := 0; i < maxHistoryMessages/2; i++ {
		h.Append("later question", "later answer")
	}

	for _, msg := range h.Window() {
		if msg.Content == "first question" || msg.Content == "first answer" {
			t.Errorf("oldest exchange not evicted: %+v", msg)
		}
	}
}

func TestHistory_WindowBounded(t *testing.T) {
	h := NewHistory()

	for i := 0; i < 8; i++ {
		h.Append("q", "a")
	}

	window := h.Window()
	if len(window) != historyWindow {
		t.Fatalf("window has %d messages, want %d", len(window), historyWindow)
	}
	// Window always starts with a user message: eviction is by exchange,
	// so an assistant reply is never orphaned at the front.
	if window[0].Role != "user" {
		t.Errorf("window starts with role %q, want user", window[0].Role)
	}
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory()
	h.Append("q", "a")
	h.Clear()

	if h.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", h.Len())
	}
	if len(h.Window()) != 0 {
		t.Errorf("Window() not empty after Clear")
	}
}
