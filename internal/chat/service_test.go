package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"uniadvisor/internal/chunker"
	"uniadvisor/internal/domain"
	"uniadvisor/internal/embedding"
	"uniadvisor/internal/gate"
	"uniadvisor/internal/knowledge"
	"uniadvisor/internal/testutil"
	"uniadvisor/internal/vectorstore"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// stubModel is a Synthesizer with scripted behavior.
type stubModel struct {
	answer string
	err    error
	calls  int
}

func (s *stubModel) Synthesize(_ context.Context, _ string, _ []string, _ []domain.Message) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func newTestService(t *testing.T, model Synthesizer, corpus string) *Service {
	t.Helper()

	files := testutil.NewMemFileStore()
	files.Files["data.txt"] = []byte(corpus)
	store := vectorstore.NewMemory(embedding.NewLocalEmbedder(256))
	kb := knowledge.New(store, chunker.New(400), nil, files, "data.txt", discard)
	if corpus != "" {
		if _, err := kb.LoadFile(context.Background()); err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
	}
	return NewService(gate.New(), kb, model, discard)
}

const serviceCorpus = "Oxford is an ancient university founded in 1096. It has 39 colleges and a large library system."

func TestRespond_GateRejected(t *testing.T) {
	model := &stubModel{answer: "should not be called"}
	s := newTestService(t, model, serviceCorpus)

	answer := s.Respond(context.Background(), "What's the weather today")
	if answer != HelpMessage {
		t.Errorf("expected help message, got %q", answer)
	}
	if model.calls != 0 {
		t.Errorf("model called %d times for gated query, want 0", model.calls)
	}
}

func TestRespond_EmptyCorpus(t *testing.T) {
	s := newTestService(t, nil, "")

	answer := s.Respond(context.Background(), "Tell me about Oxford University")
	if answer != NoResultsMessage {
		t.Errorf("expected no-results guidance, got %q", answer)
	}
}

func TestRespond_ModelPath(t *testing.T) {
	model := &stubModel{answer: "Oxford was founded in 1096 and has 39 colleges."}
	s := newTestService(t, model, serviceCorpus)

	answer := s.Respond(context.Background(), "Tell me about Oxford University")
	if answer != model.answer {
		t.Errorf("expected model answer, got %q", answer)
	}
	if model.calls != 1 {
		t.Errorf("model called %d times, want 1", model.calls)
	}
	if s.history.Len() != 2 {
		t.Errorf("history has %d messages after one exchange, want 2", s.history.Len())
	}
}

func TestRespond_ModelFailureFallsBack(t *testing.T) {
	model := &stubModel{err: ErrModel}
	s := newTestService(t, model, serviceCorpus)

	answer := s.Respond(context.Background(), "Tell me about Oxford University")
	if answer == "" || answer == HelpMessage || answer == NoResultsMessage {
		t.Fatalf("expected fallback answer with content, got %q", answer)
	}
	if !strings.Contains(answer, "1096") {
		t.Errorf("fallback answer missing corpus content: %q", answer)
	}
}

func TestRespond_NoModelConfigured(t *testing.T) {
	s := newTestService(t, nil, serviceCorpus)

	answer := s.Respond(context.Background(), "Tell me about Oxford University")
	if !strings.Contains(answer, "1096") {
		t.Errorf("expected deterministic answer from corpus, got %q", answer)
	}
}

func TestRespond_ModelErrorIsNotSurfaced(t *testing.T) {
	model := &stubModel{err: errors.New("connection refused")}
	s := newTestService(t, model, serviceCorpus)

	answer := s.Respond(context.Background(), "Tell me about Oxford University")
	if strings.Contains(answer, "connection refused") {
		t.Errorf("raw error leaked to user: %q", answer)
	}
}

func TestClearHistory(t *testing.T) {
	model := &stubModel{answer: "answer"}
	s := newTestService(t, model, serviceCorpus)

	s.Respond(context.Background(), "Tell me about Oxford University")
	if s.history.Len() == 0 {
		t.Fatal("history empty after exchange")
	}

	s.ClearHistory()
	if s.history.Len() != 0 {
		t.Errorf("history has %d messages after clear, want 0", s.history.Len())
	}
}
