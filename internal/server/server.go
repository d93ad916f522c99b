// Package server exposes the assistant over HTTP as a small JSON API.
//
// The chat endpoint never reports failure to callers: the chat service
// degrades internally (fallback synthesis, guidance messages), so a 200
// with a response body is always available. The only 400s are for
// malformed caller input. Corpus management endpoints report operational
// failures as 500s with an error payload.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"uniadvisor/internal/chat"
	"uniadvisor/internal/knowledge"
)

const defaultSearchResults = 3

// Responder produces an answer for a user message. Implemented by
// *chat.Service.
type Responder interface {
	Respond(ctx context.Context, query string) string
	ClearHistory()
}

// Server routes HTTP requests to the chat service and knowledge base.
type Server struct {
	chat   Responder
	kb     *knowledge.Base
	logger *slog.Logger
}

// New creates a Server.
func New(chatSvc Responder, kb *knowledge.Base, logger *slog.Logger) *Server {
	return &Server{
		chat:   chatSvc,
		kb:     kb,
		logger: logger,
	}
}

// Routes returns the request multiplexer with all endpoints registered.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /reload", s.handleReload)
	mux.HandleFunc("POST /refetch-reload", s.handleRefetchReload)
	mux.HandleFunc("POST /add-web-content", s.handleAddWebContent)
	mux.HandleFunc("POST /add-search-content", s.handleAddSearchContent)
	mux.HandleFunc("GET /knowledge-stats", s.handleStats)
	mux.HandleFunc("POST /clear-web-content", s.handleClearWebContent)
	mux.HandleFunc("POST /search-sources", s.handleSearchSources)
	mux.HandleFunc("POST /clear-history", s.handleClearHistory)
	return mux
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Message == "" {
		s.badRequest(w, "message is required")
		return
	}

	answer := s.chat.Respond(r.Context(), req.Message)
	s.respondJSON(w, http.StatusOK, chatResponse{Response: answer, Status: "success"})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	n, err := s.kb.Reload(r.Context())
	if err != nil {
		s.logger.Error("reload failed", "error", err)
		s.serverError(w, "failed to reload knowledge base")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"chunks": n,
	})
}

type urlRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleRefetchReload(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.URL == "" {
		s.badRequest(w, "url is required")
		return
	}

	if err := s.kb.RefetchAndReload(r.Context(), req.URL); err != nil {
		s.logger.Error("refetch and reload failed", "url", req.URL, "error", err)
		s.serverError(w, "failed to refetch content")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"stats":  s.kb.Stats(),
	})
}

func (s *Server) handleAddWebContent(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.URL == "" {
		s.badRequest(w, "url is required")
		return
	}

	n, err := s.kb.AddWebContent(r.Context(), req.URL)
	if err != nil {
		s.logger.Error("add web content failed", "url", req.URL, "error", err)
		s.serverError(w, "failed to fetch web content")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"chunks": n,
	})
}

type searchContentRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

func (s *Server) handleAddSearchContent(w http.ResponseWriter, r *http.Request) {
	var req searchContentRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Query == "" {
		s.badRequest(w, "query is required")
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = defaultSearchResults
	}

	n, err := s.kb.AddSearchResults(r.Context(), req.Query, req.MaxResults)
	if err != nil {
		s.logger.Error("add search content failed", "query", req.Query, "error", err)
		s.serverError(w, "failed to add search results")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"chunks": n,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"stats":  s.kb.Stats(),
	})
}

func (s *Server) handleClearWebContent(w http.ResponseWriter, r *http.Request) {
	removed := s.kb.ClearWebContent()
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"removed": removed,
	})
}

type searchSourcesRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

func (s *Server) handleSearchSources(w http.ResponseWriter, r *http.Request) {
	var req searchSourcesRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Query == "" {
		s.badRequest(w, "query is required")
		return
	}
	if req.TopK <= 0 {
		req.TopK = 5
	}

	sources := s.kb.Sources(r.Context(), req.Query, req.TopK)
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"sources": sources,
	})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.chat.ClearHistory()
	s.respondJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

// decode parses the JSON request body into dst. On failure it writes a
// 400 and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.badRequest(w, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	s.respondJSON(w, http.StatusBadRequest, map[string]any{
		"status":  "error",
		"message": msg,
	})
}

func (s *Server) serverError(w http.ResponseWriter, msg string) {
	s.respondJSON(w, http.StatusInternalServerError, map[string]any{
		"status":  "error",
		"message": msg,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response failed", "error", err)
	}
}

var _ Responder = (*chat.Service)(nil)
