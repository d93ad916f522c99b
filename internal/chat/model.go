package chat

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"uniadvisor/internal/domain"
)

// systemPrompt constrains the model to answer strictly from the supplied
// context passages.
const systemPrompt = `You are a knowledgeable UK universities advisor. Answer the user's question clearly using ONLY the information provided in the context.

Rules:
- Start with a direct answer, then expand with relevant details from the context
- Include specific numbers, dates, and names when the context provides them
- If the context doesn't contain the answer, say "I don't have that specific information"
- Never add information that is not in the context
- Be conversational but accurate`

// ModelConfig holds settings for the generative model client.
type ModelConfig struct {
	Host        string  // Ollama server URL
	Model       string  // chat model name, e.g. "llama3.2"
	MaxTokens   int     // output length bound
	Temperature float64 // fixed sampling temperature
	Timeout     time.Duration
}

// DefaultModelConfig returns sensible defaults for local Ollama.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Host:        "http://localhost:11434",
		Model:       "llama3.2",
		MaxTokens:   2000,
		Temperature: 0.8,
		Timeout:     60 * time.Second,
	}
}

// ChatModel is the generative model collaborator contract.
type ChatModel interface {
	// Complete generates a response to the given messages. Any failure
	// is reported as an ErrModel-wrapped error.
	Complete(ctx context.Context, system string, messages []domain.Message, maxTokens int, temperature float64) (string, error)
}

// OllamaModel implements ChatModel against a local Ollama server.
type OllamaModel struct {
	client *api.Client
	model  string
}

// NewOllamaModel creates a chat client connected to Ollama.
func NewOllamaModel(cfg ModelConfig) (*OllamaModel, error) {
	u, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host: %w", err)
	}
	return &OllamaModel{
		client: api.NewClient(u, http.DefaultClient),
		model:  cfg.Model,
	}, nil
}

// Complete sends a non-streaming chat request.
func (m *OllamaModel) Complete(ctx context.Context, system string, messages []domain.Message, maxTokens int, temperature float64) (string, error) {
	msgs := make([]api.Message, 0, len(messages)+1)
	if system != "" {
		msgs = append(msgs, api.Message{Role: "system", Content: system})
	}
	for _, msg := range messages {
		msgs = append(msgs, api.Message{Role: msg.Role, Content: msg.Content})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    m.model,
		Messages: msgs,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": temperature,
			"num_predict": maxTokens,
		},
	}

	var out strings.Builder
	err := m.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModel, err)
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", ErrModel)
	}
	return text, nil
}

// Model is the model-backed Synthesizer. It builds a prompt from the
// retrieved passages and bounded conversation history, and delegates to
// the ChatModel.
type Model struct {
	client ChatModel
	cfg    ModelConfig
}

// NewModel creates a model-backed synthesizer.
func NewModel(client ChatModel, cfg ModelConfig) *Model {
	return &Model{client: client, cfg: cfg}
}

// Synthesize asks the model for an answer grounded in passages. The
// request is bounded by the configured timeout; every failure comes back
// ErrModel-wrapped so the caller can fall through to deterministic
// synthesis.
func (m *Model) Synthesize(ctx context.Context, query string, passages []string, history []domain.Message) (string, error) {
	timeout := m.cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	contextBlock := strings.Join(passages, "\n\n---\n\n")
	current := fmt.Sprintf(
		"Context Information (from knowledge base):\n%s\n\n---\n\nUser Question: %s\n\nPlease answer based on the context above:",
		contextBlock, query,
	)

	messages := make([]domain.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, domain.Message{Role: "user", Content: current})

	return m.client.Complete(ctx, systemPrompt, messages, m.cfg.MaxTokens, m.cfg.Temperature)
}
