package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Result carries the generated text together with provider metadata
// (model identity, token counts, search citations when the provider
// performed a live search).
type Result struct {
	Text      string
	Model     string
	Citations []string // source URLs, in citation order
	Tokens    TokenUsage
	Mock      bool // true when produced by the offline responder
}

// TokenUsage mirrors the usage block returned by chat completion APIs.
type TokenUsage struct {
	Prompt     int
	Completion int
	Total      int
}

// Chunk is one increment of a streamed response. Done marks the final
// chunk; only the final chunk carries citations and usage.
type Chunk struct {
	Content   string
	Done      bool
	Citations []string
	Model     string
	Tokens    TokenUsage
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// ApplyOptions folds a variadic option list into an Options struct with
// the shared defaults.
func ApplyOptions(opts ...Option) *Options {
	options := &Options{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Provider defines the contract for any LLM backend
type Provider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (*Result, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (*Result, error)
}

// StreamingProvider is implemented by backends that can deliver the
// response incrementally. Callers resolve the capability once, at wiring
// time, instead of probing per request.
type StreamingProvider interface {
	Provider

	// ChatStream sends a chat history and returns a channel of chunks.
	// The channel is closed after the Done chunk; a mid-stream failure
	// surfaces on the error channel and terminates the stream.
	ChatStream(ctx context.Context, history []Message, options ...Option) (<-chan Chunk, <-chan error)
}
