// Package oracle sends manuscript chunks to an external natural-language
// verification service and enforces the structured output schema on its
// responses.
package oracle

import (
	"context"
	"fmt"

	"github.com/pvoronin/quotecheck/internal/model"
)

// Provider defines the interface for verification oracle backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Verify sends one annotated chunk to the oracle and returns the
	// validated verification items it reported, possibly none. Transport,
	// authentication and API errors are returned as errors; a response that
	// cannot be parsed yields an empty item list and no error.
	Verify(ctx context.Context, chunkText string) ([]model.VerificationItem, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds oracle provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string

	// Timeout for one verification call
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Timeout:   120,
		MaxTokens: 4000,
	}
}

const systemInstruction = "You are a meticulous citation checker. You verify quotations and attributed claims against their purported sources and respond only with structured JSON."

// BuildPrompt constructs the verification prompt for one annotated chunk
func BuildPrompt(chunkText string) string {
	return fmt.Sprintf(`You are verifying an excerpt from a longer manuscript.

Find EVERY direct or indirect quotation or attributed claim in the text
below. For each one, judge it against the source it is attributed to and
classify it with exactly one status:
- ACCURATE: the quote matches the claimed source
- PARAPHRASED: a faithful restatement of the source, not verbatim
- MISATTRIBUTED: the quote exists but is attributed to the wrong author or work
- UNVERIFIABLE: the quote or its source cannot be confirmed

Report a location for every finding. If the text contains page markers like
[P5], reference them (e.g. "Page 5, Para 2"); otherwise describe the
position as precisely as you can.

Respond with ONLY a JSON array, no prose and no code fences. Each element:
{"location": "...", "quote_text": "...", "claimed_source": "...", "status": "...", "notes": "..."}

If the text contains no quotations or attributed claims, respond with [].

Text to verify:
---
%s
---`, chunkText)
}
