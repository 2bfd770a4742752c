// Package ai defines the advisory text generation capability: a single
// request/response LLM interface with provider-specific adapters selected
// by configuration. Callers never depend on a concrete provider.
package ai

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"yuvna_backend/platform/ai/anthropic"
	"yuvna_backend/platform/ai/gemini"
	"yuvna_backend/platform/ai/openai"
	"yuvna_backend/platform/config"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation sent to a provider.
type Message struct {
	Role    Role
	Content string
}

// Options tune a single generation call.
type Options struct {
	Temperature float32
	// JSONMode constrains the response to valid JSON where the provider
	// supports it; otherwise the instruction is appended to the system turn.
	JSONMode bool
}

// Provider is a request/response LLM adapter. No streaming, no tool use.
type Provider interface {
	Name() string
	Generate(ctx context.Context, messages []Message, opts Options) (string, error)
}

// ErrNotConfigured is returned when the selected provider has no API key.
var ErrNotConfigured = errors.New("ai provider not configured")

// FromConfig builds the configured provider. Returns ErrNotConfigured when
// the selected provider has no key.
func FromConfig(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	switch strings.ToLower(cfg.GetAIProvider()) {
	case "anthropic":
		if cfg.GetAnthropicAPIKey() == "" {
			return nil, ErrNotConfigured
		}
		return &anthropicProvider{c: anthropic.NewClient(anthropic.Config{
			APIKey:  cfg.GetAnthropicAPIKey(),
			Timeout: cfg.GetAITimeout(),
		})}, nil
	case "openai":
		if cfg.GetOpenAIAPIKey() == "" {
			return nil, ErrNotConfigured
		}
		return &openaiProvider{c: openai.NewClient(openai.Config{
			APIKey:  cfg.GetOpenAIAPIKey(),
			Timeout: cfg.GetAITimeout(),
		})}, nil
	case "gemini":
		if cfg.GetGeminiAPIKey() == "" {
			return nil, ErrNotConfigured
		}
		g, err := gemini.NewClient(ctx, gemini.Config{APIKey: cfg.GetGeminiAPIKey()})
		if err != nil {
			return nil, err
		}
		return &geminiProvider{c: g}, nil
	default:
		return nil, errors.New("unknown ai provider: " + cfg.GetAIProvider())
	}
}

// Configured reports which providers have API keys, for the health endpoint.
func Configured(cfg config.AIConfig) map[string]bool {
	return map[string]bool{
		"anthropic": cfg.GetAnthropicAPIKey() != "",
		"openai":    cfg.GetOpenAIAPIKey() != "",
		"gemini":    cfg.GetGeminiAPIKey() != "",
	}
}

// splitSystem collapses system turns into one instruction and returns the
// remaining conversation turns.
func splitSystem(messages []Message) (string, []Message) {
	var system strings.Builder
	turns := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			if system.Len() > 0 {
				system.WriteString("\n")
			}
			system.WriteString(m.Content)
			continue
		}
		turns = append(turns, m)
	}
	return system.String(), turns
}

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*\\n?(.*?)\\n?```\\s*$")

// StripCodeFence removes a wrapping markdown code block, which some models
// emit around JSON despite instructions not to.
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return trimmed
}
