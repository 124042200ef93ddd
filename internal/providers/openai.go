package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// OpenAIProvider implements the Provider interface over any OpenAI-compatible
// chat API (OpenAI, Ollama's compat endpoint, vLLM, GitHub Models).
type OpenAIProvider struct {
	client  *openai.LLM
	model   string
	timeout time.Duration
}

// OpenAIConfig configures an OpenAIProvider
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewOpenAIProvider creates a provider for an OpenAI-compatible endpoint
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &OpenAIProvider{client: client, model: cfg.Model, timeout: timeout}, nil
}

// Generate produces a chat completion for the given messages
func (p *OpenAIProvider) Generate(ctx context.Context, messages []Message, opts ...CallOption) (string, error) {
	callOpts := CallOptions{MaxTokens: 512, Temperature: 0.7}
	for _, opt := range opts {
		opt(&callOpts)
	}

	content := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		var msgType schema.ChatMessageType
		switch msg.Role {
		case RoleSystem:
			msgType = schema.ChatMessageTypeSystem
		case RoleAssistant:
			msgType = schema.ChatMessageTypeAI
		default:
			msgType = schema.ChatMessageTypeHuman
		}
		content[i] = llms.TextParts(msgType, msg.Content)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	response, err := p.client.GenerateContent(ctx, content,
		llms.WithMaxTokens(callOpts.MaxTokens),
		llms.WithTemperature(callOpts.Temperature),
	)
	if err != nil {
		return "", &ProviderError{Provider: "openai", Err: err}
	}

	if response == nil || len(response.Choices) == 0 {
		return "", &ProviderError{Provider: "openai", Err: fmt.Errorf("empty response")}
	}

	return response.Choices[0].Content, nil
}

// GenerateJSON produces a completion and unmarshals the first JSON object found
// in it into out. Models wrap JSON in prose or code fences more often than not,
// so the raw text is scanned for a balanced object before parsing.
func (p *OpenAIProvider) GenerateJSON(ctx context.Context, messages []Message, out interface{}, opts ...CallOption) error {
	text, err := p.Generate(ctx, messages, opts...)
	if err != nil {
		return err
	}

	raw := ExtractFirstJSONObject(text)
	if raw == "" {
		return &ParseError{Raw: text, Err: fmt.Errorf("no JSON object in response")}
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &ParseError{Raw: text, Err: err}
	}
	return nil
}

// ExtractFirstJSONObject returns the first balanced {...} object in s, or ""
func ExtractFirstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
