package core

import "context"

// Options controls model behavior; fields are optional per provider.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int
	SystemPrompt        string
}

// Client is a provider-agnostic interface for the LLM operations the analysis
// flows need.
type Client interface {
	// Respond sends a single prompt and returns the raw completion text.
	Respond(ctx context.Context, input string, opts Options) (string, error)
	// AnswerQuestion answers a follow-up question grounded in the provided
	// content; used by the ask-about-analysis flow.
	AnswerQuestion(ctx context.Context, content string, question string, opts Options) (string, error)
}
