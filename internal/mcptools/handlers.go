// Package mcptools provides MCP tool handlers for the assistant.
// These handlers parse MCP request arguments and delegate to the chat
// service and knowledge base, mirroring the HTTP surface.
package mcptools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"uniadvisor/internal/knowledge"
)

// Responder produces an answer for a user message.
type Responder interface {
	Respond(ctx context.Context, query string) string
}

// AskArgs defines the arguments for the ask tool.
type AskArgs struct {
	Question string `json:"question" jsonschema_description:"Question about UK universities (admissions, fees, scholarships, student life)"`
}

// SearchArgs defines the arguments for the kb_search tool.
type SearchArgs struct {
	Query string `json:"query" jsonschema_description:"Search query for the knowledge base"`
	TopK  int    `json:"top_k,omitempty" jsonschema_description:"Maximum number of passages to return (default 5)"`
}

// StatsArgs defines the arguments for the kb_stats tool. It takes no
// parameters.
type StatsArgs struct{}

// Handlers wraps the chat service and knowledge base and provides MCP
// tool handlers.
type Handlers struct {
	chat   Responder
	kb     *knowledge.Base
	logger *slog.Logger
}

// NewHandlers creates handlers with the given collaborators and logger.
func NewHandlers(chat Responder, kb *knowledge.Base, logger *slog.Logger) *Handlers {
	return &Handlers{chat: chat, kb: kb, logger: logger}
}

// Ask handles the ask tool call. It runs the full answer pipeline:
// relevance gate, retrieval, and synthesis.
func (h *Handlers) Ask(ctx context.Context, req *mcp.CallToolRequest, args AskArgs) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Question) == "" {
		h.logger.Error("ask: question is required")
		return nil, nil, fmt.Errorf("question is required")
	}

	h.logger.Debug("ask: answering", "question", args.Question)
	answer := h.chat.Respond(ctx, args.Question)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: answer}},
	}, nil, nil
}

// Search handles the kb_search tool call. It returns matching passages
// with their provenance, bypassing the gate and the synthesizer.
func (h *Handlers) Search(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Query) == "" {
		h.logger.Error("kb_search: query is required")
		return nil, nil, fmt.Errorf("query is required")
	}
	topK := args.TopK
	if topK <= 0 {
		topK = 5
	}

	sources := h.kb.Sources(ctx, args.Query, topK)
	h.logger.Debug("kb_search: done", "query", args.Query, "results", len(sources))

	if len(sources) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "No matching passages in the knowledge base."}},
		}, nil, nil
	}

	var sb strings.Builder
	for i, src := range sources {
		fmt.Fprintf(&sb, "[%d] %s (%s, relevance %.3f)\n%s\n\n", i+1, src.Title, src.Source, src.Relevance, src.Content)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: strings.TrimSpace(sb.String())}},
	}, nil, nil
}

// Stats handles the kb_stats tool call.
func (h *Handlers) Stats(ctx context.Context, req *mcp.CallToolRequest, args StatsArgs) (*mcp.CallToolResult, any, error) {
	stats := h.kb.Stats()
	msg := fmt.Sprintf("Knowledge base: %d chunks total (%d from the data file, %d from the web)",
		stats.TotalChunks, stats.FileChunks, stats.WebChunks)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}, nil, nil
}

// Register adds all tools to the MCP server.
func Register(server *mcp.Server, h *Handlers) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question about UK universities. Answers come from the indexed knowledge base; off-topic questions get usage guidance.",
	}, h.Ask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "kb_search",
		Description: "Search the knowledge base directly. Returns matching passages with source, title, and relevance score.",
	}, h.Search)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "kb_stats",
		Description: "Show knowledge base size broken down by chunk origin (data file vs scraped web content).",
	}, h.Stats)
}
