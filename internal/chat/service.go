package chat

import (
	"context"
	"log/slog"

	"uniadvisor/internal/gate"
	"uniadvisor/internal/knowledge"
)

// defaultTopK is how many passages feed one answer.
const defaultTopK = 8

// Service answers user queries. Each request moves through a fixed state
// machine: gate rejection, no results, model-backed synthesis, or
// deterministic fallback. The fallback path is reached both when no
// model is configured and when a configured model fails, so an answer is
// always produced.
type Service struct {
	gate     *gate.Gate
	kb       *knowledge.Base
	model    Synthesizer // nil when no model is configured
	fallback *Fallback
	history  *History
	topK     int
	logger   *slog.Logger
}

// NewService wires the chat service. model may be nil.
func NewService(g *gate.Gate, kb *knowledge.Base, model Synthesizer, logger *slog.Logger) *Service {
	return &Service{
		gate:     g,
		kb:       kb,
		model:    model,
		fallback: NewFallback(),
		history:  NewHistory(),
		topK:     defaultTopK,
		logger:   logger,
	}
}

// Respond produces the answer for query. It never returns an error:
// every failure mode maps to a user-facing guidance string or a
// fallback-synthesized answer.
func (s *Service) Respond(ctx context.Context, query string) string {
	if !s.gate.IsInDomain(query) {
		s.logger.Info("query rejected by gate", "query", query)
		return HelpMessage
	}

	passages := s.kb.Search(ctx, query, s.topK)
	if len(passages) == 0 {
		s.logger.Info("no passages retrieved", "query", query)
		return NoResultsMessage
	}

	if s.model != nil {
		answer, err := s.model.Synthesize(ctx, query, passages, s.history.Window())
		if err == nil {
			s.history.Append(query, answer)
			return answer
		}
		s.logger.Warn("model synthesis failed, using fallback", "error", err)
	}

	answer, _ := s.fallback.Synthesize(ctx, query, passages, nil)
	s.history.Append(query, answer)
	return answer
}

// ClearHistory forgets the conversation so far.
func (s *Service) ClearHistory() {
	s.history.Clear()
}
