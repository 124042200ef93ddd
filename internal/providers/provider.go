package providers

import (
	"context"
	"fmt"
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider interface for LLM providers
type Provider interface {
	Generate(ctx context.Context, messages []Message, opts ...CallOption) (string, error)
	GenerateJSON(ctx context.Context, messages []Message, out interface{}, opts ...CallOption) error
}

// CallOption configures a single generation call
type CallOption func(*CallOptions)

// CallOptions holds per-call generation parameters
type CallOptions struct {
	MaxTokens   int
	Temperature float64
}

// WithMaxTokens limits the length of the generated reply
func WithMaxTokens(n int) CallOption {
	return func(o *CallOptions) { o.MaxTokens = n }
}

// WithTemperature sets the sampling temperature
func WithTemperature(t float64) CallOption {
	return func(o *CallOptions) { o.Temperature = t }
}

// ProviderError indicates a transport, timeout or HTTP-status failure from the
// LLM backend. Callers recover locally; it never propagates as a crash.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError indicates the provider returned text that could not be parsed as
// the requested structured output.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable llm output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
