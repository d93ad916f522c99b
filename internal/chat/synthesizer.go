// Package chat turns a user query and retrieved passages into a final
// answer. Two interchangeable strategies implement Synthesizer: a
// model-backed one that delegates to a generative model, and a
// deterministic fallback that composes an answer from the passages
// themselves. The fallback guarantees the assistant answers every
// in-domain query with real corpus content even with no model configured.
package chat

import (
	"context"
	"errors"

	"uniadvisor/internal/domain"
)

// ErrModel marks any generative-model invocation failure: quota, network,
// timeout, or malformed response. All of them trigger fallback synthesis.
var ErrModel = errors.New("model call failed")

// Synthesizer composes an answer from a query, ranked passages, and
// recent conversation history.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, passages []string, history []domain.Message) (string, error)
}

// HelpMessage is returned when the relevance gate rejects a query.
const HelpMessage = "I can only help with questions about UK universities. " +
	"I'd be happy to answer questions about:\n\n" +
	"- UK universities and their history\n" +
	"- Admission processes and UCAS applications\n" +
	"- Student life and accommodation\n" +
	"- University rankings and reputation\n" +
	"- Tuition fees, funding, and financial support\n" +
	"- Different types of universities (ancient, redbrick, plate glass)\n\n" +
	"What would you like to know?"

// NoResultsMessage is returned when retrieval finds nothing for an
// in-domain query.
const NoResultsMessage = "I don't have specific information about that in my knowledge base. " +
	"Try rephrasing your question, for example:\n\n" +
	"- \"Tell me about Oxford University\"\n" +
	"- \"What are the ancient universities?\"\n" +
	"- \"How do tuition fees work in England?\""
