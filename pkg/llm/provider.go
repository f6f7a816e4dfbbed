package llm

import (
	"context"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
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

// ApplyOptions resolves opts over the provider defaults.
func ApplyOptions(opts ...Option) *Options {
	options := &Options{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Stream yields generated text in arrival order. Recv returns io.EOF once the
// model finished naturally; any other error aborts the stream. Close releases
// the upstream connection and is safe to call more than once.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Stream opens a generation over history. A leading RoleSystem message is
	// treated as the system prompt. Errors returned here happen before any
	// text was produced.
	Stream(ctx context.Context, history []Message, options ...Option) (Stream, error)
}

// SplitSystem separates a leading system prompt from the conversation.
func SplitSystem(history []Message) (string, []Message) {
	if len(history) > 0 && history[0].Role == RoleSystem {
		return history[0].Content, history[1:]
	}
	return "", history
}
